// Package sqlite persists sealed tokens in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/subham12r/portfolio/internal/portfolio/store"
)

type Store struct {
	db    *sql.DB
	codec *store.Codec
}

// NewStore opens dsn. Call ApplyMigrations before first use.
func NewStore(dsn string, codec *store.Codec) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: pragma: %w", err)
	}

	return &Store{db: db, codec: codec}, nil
}

func (s *Store) Tokens() store.Tokens { return &tokensRepo{db: s.db, codec: s.codec} }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
