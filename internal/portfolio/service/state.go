package service

import (
	"sync"
	"time"

	"github.com/subham12r/portfolio/pkg/cryptox"
)

// DefaultStateTTL bounds how long a user may sit on the provider consent
// screen.
const DefaultStateTTL = 10 * time.Minute

// StateStore issues single-use OAuth state nonces. Only fingerprints are
// kept.
type StateStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu     sync.Mutex
	states map[string]time.Time
}

// NewStateStore returns an empty store. A nil clock means time.Now.
func NewStateStore(ttl time.Duration, clock func() time.Time) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &StateStore{ttl: ttl, clock: clock, states: make(map[string]time.Time)}
}

// Issue mints a 128-bit nonce.
func (s *StateStore) Issue() (string, time.Time, error) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", time.Time{}, err
	}
	exp := s.clock().Add(s.ttl)

	s.mu.Lock()
	s.states[cryptox.FingerprintToken(state)] = exp
	s.mu.Unlock()
	return state, exp, nil
}

// Consume reports whether state was issued and is unexpired. It can succeed
// at most once per state.
func (s *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}
	key := cryptox.FingerprintToken(state)

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[key]
	if !ok {
		return false
	}
	delete(s.states, key)
	return s.clock().Before(exp)
}

// Prune drops expired states and returns how many went.
func (s *StateStore) Prune() int {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, exp := range s.states {
		if !now.Before(exp) {
			delete(s.states, k)
			n++
		}
	}
	return n
}

// Len is the number of outstanding states.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
