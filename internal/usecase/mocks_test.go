package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
)

type mockFeed struct {
	mock.Mock
}

func (that *mockFeed) Subscribe(ctx context.Context, deckIDs []string) (<-chan []entity.Card, error) {
	args := that.Called(ctx, deckIDs)

	snapshots, _ := args.Get(0).(chan []entity.Card)

	return snapshots, args.Error(1)
}

type mockResults struct {
	mock.Mock
}

func (that *mockResults) Save(ctx context.Context, result *entity.GameResult) error {
	return that.Called(ctx, result).Error(0)
}

func (that *mockResults) BestByUser(ctx context.Context, userID string, limit int) ([]entity.GameResult, error) {
	args := that.Called(ctx, userID, limit)

	results, _ := args.Get(0).([]entity.GameResult)

	return results, args.Error(1)
}

type mockEngine struct {
	mock.Mock

	onChange func(entity.Game)
}

func (that *mockEngine) Init(cards []entity.Card) (entity.Game, error) {
	args := that.Called(cards)

	return args.Get(0).(entity.Game), args.Error(1)
}

func (that *mockEngine) Reset() (entity.Game, error) {
	args := that.Called()

	return args.Get(0).(entity.Game), args.Error(1)
}

func (that *mockEngine) SelectTile(tileID string) (entity.Game, entity.Outcome) {
	args := that.Called(tileID)

	return args.Get(0).(entity.Game), args.Get(1).(entity.Outcome)
}

func (that *mockEngine) State() entity.Game {
	return that.Called().Get(0).(entity.Game)
}

func (that *mockEngine) Close() {
	that.Called()
}

func (that *mockEngine) OnChange(fn func(entity.Game)) {
	that.onChange = fn
}
