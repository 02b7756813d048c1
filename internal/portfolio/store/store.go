// Package store persists OAuth token state so authorization survives a
// restart. Backoff state is never persisted.
package store

import (
	"context"
	"errors"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Drivers: memory, sqlite, redis.
type Store interface {
	Tokens() Tokens

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Tokens holds one TokenState per integration.
type Tokens interface {
	// GetToken returns ErrNotFound when nothing is stored.
	GetToken(ctx context.Context, integration string) (domain.TokenState, error)

	// SaveToken replaces whatever is stored for integration.
	SaveToken(ctx context.Context, integration string, st domain.TokenState) error

	// DeleteToken is a no-op when nothing is stored.
	DeleteToken(ctx context.Context, integration string) error
}
