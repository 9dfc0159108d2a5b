// Package cardsource streams live snapshots of the cards in a set of decks.
package cardsource

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
	"github.com/rocketscienceinc/flashcards-backend/internal/repository"
)

// MaxDecksPerBatch caps how many decks one subscription watches.
const MaxDecksPerBatch = 10

type batchUpdate struct {
	index int
	cards []entity.Card
}

// Feed is read-only: it never writes to the card store.
type Feed struct {
	logger *slog.Logger
	client *redis.Client
	cards  repository.CardRepository
}

func NewFeed(logger *slog.Logger, client *redis.Client, cards repository.CardRepository) *Feed {
	return &Feed{
		logger: logger.With("component", "cardsource"),
		client: client,
		cards:  cards,
	}
}

// Subscribe emits the merged cards of deckIDs once every batch has loaded and again after
// every change to any of the decks. The channel is closed when ctx is done.
// Empty deckIDs yield one empty snapshot.
func (that *Feed) Subscribe(ctx context.Context, deckIDs []string) (<-chan []entity.Card, error) {
	log := that.logger.With("method", "Subscribe", "decks", len(deckIDs))

	out := make(chan []entity.Card, 1)

	if len(deckIDs) == 0 {
		out <- []entity.Card{}
		close(out)

		return out, nil
	}

	batches := SplitBatches(deckIDs, MaxDecksPerBatch)
	subscriptions := make([]*redis.PubSub, 0, len(batches))
	initial := make([][]entity.Card, 0, len(batches))

	closeAll := func() {
		for _, pubsub := range subscriptions {
			_ = pubsub.Close()
		}
	}

	for _, batch := range batches {
		pubsub, err := that.subscribe(ctx, batch)
		if err != nil {
			closeAll()
			return nil, err
		}
		subscriptions = append(subscriptions, pubsub)

		// loaded after the subscription is confirmed so no change can slip in between
		cards, err := that.cards.ListByDecks(ctx, batch)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to load cards: %w", err)
		}
		initial = append(initial, cards)
	}

	updates := make(chan batchUpdate)
	for index, pubsub := range subscriptions {
		go that.watch(ctx, index, batches[index], pubsub, updates)
	}

	go func() {
		defer close(out)
		defer closeAll()

		snapshots := NewSnapshotSet(len(batches))
		for index, cards := range initial {
			snapshots.Set(index, cards)
		}

		if !send(ctx, out, snapshots.Merged()) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case update := <-updates:
				snapshots.Set(update.index, update.cards)
				if !send(ctx, out, snapshots.Merged()) {
					return
				}
			}
		}
	}()

	log.Debug("subscribed", "batches", len(batches))

	return out, nil
}

func (that *Feed) subscribe(ctx context.Context, deckIDs []string) (*redis.PubSub, error) {
	channels := make([]string, 0, len(deckIDs))
	for _, deckID := range deckIDs {
		channels = append(channels, repository.ChangedChannel(deckID))
	}

	pubsub := that.client.Subscribe(ctx, channels...)

	for range channels {
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to decks: %w", err)
		}
	}

	return pubsub, nil
}

func (that *Feed) watch(ctx context.Context, index int, deckIDs []string, pubsub *redis.PubSub, updates chan<- batchUpdate) {
	log := that.logger.With("method", "watch", "batch", index)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-messages:
			if !ok {
				return
			}

			cards, err := that.cards.ListByDecks(ctx, deckIDs)
			if err != nil {
				log.Error("failed to reload cards", "error", err)
				continue
			}

			select {
			case updates <- batchUpdate{index: index, cards: cards}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func send(ctx context.Context, out chan<- []entity.Card, cards []entity.Card) bool {
	select {
	case out <- cards:
		return true
	case <-ctx.Done():
		return false
	}
}

// SplitBatches cuts ids into consecutive chunks of at most size.
func SplitBatches(ids []string, size int) [][]string {
	batches := make([][]string, 0, (len(ids)+size-1)/size)

	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, append([]string(nil), ids[start:end]...))
	}

	return batches
}

// SnapshotSet keeps the latest snapshot of every batch.
type SnapshotSet struct {
	batches [][]entity.Card
}

func NewSnapshotSet(size int) *SnapshotSet {
	return &SnapshotSet{batches: make([][]entity.Card, size)}
}

func (that *SnapshotSet) Set(index int, cards []entity.Card) {
	that.batches[index] = entity.CopyCards(cards)
}

// Merged concatenates the batches in batch order.
func (that *SnapshotSet) Merged() []entity.Card {
	merged := make([]entity.Card, 0)
	for _, cards := range that.batches {
		merged = append(merged, cards...)
	}

	return merged
}
