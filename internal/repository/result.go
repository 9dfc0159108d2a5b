package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	BestByUser(ctx context.Context, userID string, limit int) ([]entity.GameResult, error)
}

type dbResult struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) ResultRepository {
	return &dbResult{
		db: db,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	query := `
		INSERT INTO game_results (id, user_id, total_pairs, attempts, elapsed_seconds, score, finished_at)
		VALUES (:id, :user_id, :total_pairs, :attempts, :elapsed_seconds, :score, :finished_at)`

	if _, err := that.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}

	return nil
}

// BestByUser returns the highest scores first; ties go to the faster game.
func (that *dbResult) BestByUser(ctx context.Context, userID string, limit int) ([]entity.GameResult, error) {
	query := `
		SELECT id, user_id, total_pairs, attempts, elapsed_seconds, score, finished_at
		FROM game_results
		WHERE user_id = ?
		ORDER BY score DESC, elapsed_seconds ASC
		LIMIT ?`

	results := make([]entity.GameResult, 0)
	if err := that.db.SelectContext(ctx, &results, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get results of user %s: %w", userID, err)
	}

	return results, nil
}
