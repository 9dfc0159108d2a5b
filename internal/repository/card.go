package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
)

// CardRepository is the upstream card store. Every write announces the deck on its change channel.
type CardRepository interface {
	Save(ctx context.Context, card *entity.Card) error
	Delete(ctx context.Context, deckID, cardID string) error
	ListByDeck(ctx context.Context, deckID string) ([]entity.Card, error)
	ListByDecks(ctx context.Context, deckIDs []string) ([]entity.Card, error)
}

type dbCard struct {
	client *redis.Client
}

func NewCardRepository(client *redis.Client) CardRepository {
	return &dbCard{
		client: client,
	}
}

// CardsKey is the hash holding the cards of a deck, keyed by card id.
func CardsKey(deckID string) string {
	return "deck:" + deckID + ":cards"
}

// ChangedChannel receives the deck id after every write to the deck.
func ChangedChannel(deckID string) string {
	return "deck:" + deckID + ":changed"
}

func (that *dbCard) Save(ctx context.Context, card *entity.Card) error {
	cardJSON, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("could not marshal card: %w", err)
	}

	pipe := that.client.TxPipeline()
	pipe.HSet(ctx, CardsKey(card.DeckID), card.ID, cardJSON)
	pipe.Publish(ctx, ChangedChannel(card.DeckID), card.DeckID)

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	return nil
}

func (that *dbCard) Delete(ctx context.Context, deckID, cardID string) error {
	removed, err := that.client.HDel(ctx, CardsKey(deckID), cardID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	if removed == 0 {
		return apperror.ErrNotFound
	}

	if err = that.client.Publish(ctx, ChangedChannel(deckID), deckID).Err(); err != nil {
		return fmt.Errorf("failed to publish deck change: %w", err)
	}

	return nil
}

func (that *dbCard) ListByDeck(ctx context.Context, deckID string) ([]entity.Card, error) {
	response, err := that.client.HGetAll(ctx, CardsKey(deckID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list cards of deck %s: %w", deckID, err)
	}

	cards := make([]entity.Card, 0, len(response))
	for _, value := range response {
		var card entity.Card
		if err = json.Unmarshal([]byte(value), &card); err != nil {
			return nil, fmt.Errorf("failed to unmarshal card: %w", err)
		}

		cards = append(cards, card)
	}

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].ID < cards[j].ID
	})

	return cards, nil
}

// ListByDecks concatenates the decks in the given order.
func (that *dbCard) ListByDecks(ctx context.Context, deckIDs []string) ([]entity.Card, error) {
	cards := make([]entity.Card, 0)

	for _, deckID := range deckIDs {
		deckCards, err := that.ListByDeck(ctx, deckID)
		if err != nil {
			return nil, err
		}

		cards = append(cards, deckCards...)
	}

	return cards, nil
}
