package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	total_pairs     INTEGER NOT NULL,
	attempts        INTEGER NOT NULL,
	elapsed_seconds INTEGER NOT NULL,
	score           INTEGER NOT NULL,
	finished_at     DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_user_score ON game_results (user_id, score DESC);
`

type SQLiteStorage struct {
	Connection *sqlx.DB
}

func NewSQLite(path string) (*SQLiteStorage, error) {
	conn, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// sqlite serialises writers; one connection also keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &SQLiteStorage{Connection: conn}, nil
}

func (that *SQLiteStorage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	return that.Connection.Close()
}
