// Package backoff suppresses outgoing calls to an upstream that is actively
// throttling us, using capped exponential cool-down windows.
package backoff

import (
	"sync"
	"time"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
)

const (
	DefaultBaseWindow = time.Minute
	DefaultMaxBackoff = 10 * time.Minute
	DefaultDecayAfter = 30 * time.Minute
)

// Config tunes a Guard. Zero values fall back to the defaults above.
type Config struct {
	// BaseWindow is the cool-down after the first throttle. Each further
	// consecutive throttle doubles it.
	BaseWindow time.Duration

	// MaxBackoff caps a single cool-down window.
	MaxBackoff time.Duration

	// DecayAfter is the idle period after which the consecutive count drops
	// by one, even without a success in between.
	DecayAfter time.Duration

	// Clock is injectable for tests.
	Clock func() time.Time
}

// Guard tracks throttling signals for one upstream. It is safe for
// concurrent use.
//
// Decay is computed lazily from the last throttle time rather than with
// timers: one step comes off the count per full DecayAfter window elapsed
// since the last throttle, never going below zero. Every throttle restarts
// that window for the whole count. Three throttles at 0, 1 and 3 minutes
// with a 30 minute DecayAfter leave a count of 2 at minute 33 and 1 at
// minute 63, where a timer per throttle would be back at 0 by minute 33.
type Guard struct {
	cfg Config

	mu              sync.Mutex
	count           int
	backoffUntil    time.Time
	lastThrottledAt time.Time
}

// New returns a clear Guard.
func New(cfg Config) *Guard {
	if cfg.BaseWindow <= 0 {
		cfg.BaseWindow = DefaultBaseWindow
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultMaxBackoff
	}
	if cfg.DecayAfter <= 0 {
		cfg.DecayAfter = DefaultDecayAfter
	}
	return &Guard{cfg: cfg}
}

// ShouldBackOff reports whether a cool-down window is still running.
func (g *Guard) ShouldBackOff() bool {
	return g.Remaining() > 0
}

// Remaining is the time left in the current cool-down, or zero.
func (g *Guard) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.backoffUntil.IsZero() {
		return 0
	}
	if left := g.backoffUntil.Sub(g.now()); left > 0 {
		return left
	}
	return 0
}

// RecordThrottled registers a 429 from the upstream and opens a new window
// of min(BaseWindow * 2^(count-1), MaxBackoff), where count is the
// consecutive throttle count after incrementing.
func (g *Guard) RecordThrottled() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.count = g.decayedLocked(now) + 1
	g.lastThrottledAt = now
	g.backoffUntil = now.Add(g.window(g.count))
}

// RecordSuccess clears all throttle history.
func (g *Guard) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.count = 0
	g.backoffUntil = time.Time{}
	g.lastThrottledAt = time.Time{}
}

// Snapshot returns the current state with decay applied.
func (g *Guard) Snapshot() domain.RateLimitState {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := domain.RateLimitState{Consecutive429Count: g.decayedLocked(g.now())}
	if !g.backoffUntil.IsZero() {
		until := g.backoffUntil
		s.BackoffUntil = &until
	}
	if !g.lastThrottledAt.IsZero() {
		last := g.lastThrottledAt
		s.LastThrottledAt = &last
	}
	return s
}

// decayedLocked returns the count after idle decay. g.mu must be held.
func (g *Guard) decayedLocked(now time.Time) int {
	if g.count == 0 || g.lastThrottledAt.IsZero() {
		return g.count
	}
	idle := now.Sub(g.lastThrottledAt)
	if idle < g.cfg.DecayAfter {
		return g.count
	}
	steps := int(idle / g.cfg.DecayAfter)
	return max(g.count-steps, 0)
}

func (g *Guard) window(count int) time.Duration {
	w := g.cfg.BaseWindow
	for i := 1; i < count && w < g.cfg.MaxBackoff; i++ {
		w *= 2
	}
	return min(w, g.cfg.MaxBackoff)
}

func (g *Guard) now() time.Time {
	if g.cfg.Clock != nil {
		return g.cfg.Clock()
	}
	return time.Now().UTC()
}
