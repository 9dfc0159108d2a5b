// Package shuffle keeps the stable-ordered working copy of the cards a user is studying.
package shuffle

import (
	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
	"github.com/rocketscienceinc/flashcards-backend/internal/pkg"
)

// Shuffle returns a uniformly random permutation of a value copy of cards.
func Shuffle(cards []entity.Card, src pkg.Source) []entity.Card {
	return pkg.Shuffle(cards, src)
}

// Reconcile refreshes previous from a live snapshot without changing its order.
// Entries missing from live are dropped and cards that were not shuffled are never added.
func Reconcile(previous, live []entity.Card) []entity.Card {
	if len(previous) == 0 {
		return []entity.Card{}
	}

	liveByID := make(map[string]entity.Card, len(live))
	for _, card := range live {
		liveByID[card.ID] = card
	}

	reconciled := make([]entity.Card, 0, len(previous))
	for _, card := range previous {
		if updated, ok := liveByID[card.ID]; ok {
			reconciled = append(reconciled, updated)
		}
	}

	return reconciled
}

// Controller owns the deck selection and the shuffled list of one study session.
type Controller struct {
	source pkg.Source

	deckIDs []string
	cards   []entity.Card
}

func NewController(source pkg.Source) *Controller {
	if source == nil {
		source = pkg.DefaultSource
	}

	return &Controller{
		source: source,
		cards:  []entity.Card{},
	}
}

func (that *Controller) SelectDecks(deckIDs []string) {
	that.deckIDs = append([]string(nil), deckIDs...)
}

func (that *Controller) SelectedDecks() []string {
	return append([]string(nil), that.deckIDs...)
}

func (that *Controller) HasSelection() bool {
	return len(that.deckIDs) > 0
}

// Shuffle replaces the current list with a new permutation of cards.
func (that *Controller) Shuffle(cards []entity.Card) []entity.Card {
	that.cards = Shuffle(cards, that.source)

	return that.Cards()
}

// Reconcile applies a live snapshot to the current list. It is a no-op before the first shuffle.
func (that *Controller) Reconcile(live []entity.Card) []entity.Card {
	that.cards = Reconcile(that.cards, live)

	return that.Cards()
}

func (that *Controller) Cards() []entity.Card {
	return entity.CopyCards(that.cards)
}

func (that *Controller) IsShuffled() bool {
	return len(that.cards) > 0
}

// ClearCards leaves study mode; the deck selection is kept.
func (that *Controller) ClearCards() {
	that.cards = []entity.Card{}
}

// Clear empties the shuffled list and the deck selection.
func (that *Controller) Clear() {
	that.ClearCards()
	that.deckIDs = nil
}
