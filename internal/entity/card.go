package entity

// Card is one front/back study unit owned by a deck.
type Card struct {
	ID     string `json:"id"`
	DeckID string `json:"deckId,omitempty"`
	Front  string `json:"front"`
	Back   string `json:"back"`
}

// CopyCards returns a value copy of cards.
func CopyCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}

	copied := make([]Card, len(cards))
	copy(copied, cards)

	return copied
}
