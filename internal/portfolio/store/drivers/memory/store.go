// Package memory keeps tokens in process memory. Everything is forgotten on
// restart.
package memory

import (
	"context"
	"sync"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/store"
)

type Store struct {
	mu     sync.RWMutex
	tokens map[string]domain.TokenState
}

func NewStore() *Store {
	return &Store{tokens: make(map[string]domain.TokenState)}
}

func (s *Store) Tokens() store.Tokens       { return &tokensRepo{s: s} }
func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

type tokensRepo struct {
	s *Store
}

func (r *tokensRepo) GetToken(_ context.Context, integration string) (domain.TokenState, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.tokens[integration]
	if !ok {
		return domain.TokenState{}, store.ErrNotFound
	}
	return st, nil
}

func (r *tokensRepo) SaveToken(_ context.Context, integration string, st domain.TokenState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tokens[integration] = st
	return nil
}

func (r *tokensRepo) DeleteToken(_ context.Context, integration string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tokens, integration)
	return nil
}
