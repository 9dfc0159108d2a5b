package entity

import "time"

// GameResult records one completed matching game.
type GameResult struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	TotalPairs     int       `json:"totalPairs" db:"total_pairs"`
	Attempts       int       `json:"attempts" db:"attempts"`
	ElapsedSeconds int       `json:"elapsedSeconds" db:"elapsed_seconds"`
	Score          int       `json:"score" db:"score"`
	FinishedAt     time.Time `json:"finishedAt" db:"finished_at"`
}

// NewGameResult captures the final counters of a completed game.
func NewGameResult(id, userID string, game *Game, finishedAt time.Time) *GameResult {
	return &GameResult{
		ID:             id,
		UserID:         userID,
		TotalPairs:     game.TotalPairs,
		Attempts:       game.Attempts,
		ElapsedSeconds: game.ElapsedSeconds,
		Score:          game.FinalScore,
		FinishedAt:     finishedAt,
	}
}
