package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/pkg/idx"
)

const (
	DefaultKeeperInterval = 5 * time.Minute

	keeperRefreshTimeout = time.Minute
)

// Refresher is what the keeper needs from a governor.
type Refresher interface {
	Name() string
	Snapshot() domain.TokenState
	Status() domain.TokenStatus
	Refresh(ctx context.Context) (string, error)
}

// TokenKeeper periodically refreshes tokens before a request has to, and
// prunes expired OAuth states.
type TokenKeeper struct {
	Governors []Refresher
	States    *StateStore
	Logger    *slog.Logger
	Interval  time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewTokenKeeper returns a stopped keeper. A non-positive interval means
// DefaultKeeperInterval.
func NewTokenKeeper(govs []Refresher, states *StateStore, logger *slog.Logger, interval time.Duration) *TokenKeeper {
	if interval <= 0 {
		interval = DefaultKeeperInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenKeeper{
		Governors: govs,
		States:    states,
		Logger:    logger,
		Interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs a first sweep immediately, then one per Interval, in the
// background. Call Stop to shut it down.
func (k *TokenKeeper) Start() {
	if !k.started.CompareAndSwap(false, true) {
		return
	}
	go k.run()
	k.Logger.Info("token keeper started", "interval", k.Interval)
}

// Stop waits for any in-progress sweep to finish. It is safe to call more
// than once, and on a keeper that was never started.
func (k *TokenKeeper) Stop() {
	k.stopOnce.Do(func() {
		close(k.stopCh)
		if !k.started.Load() {
			return
		}
		<-k.doneCh
		k.Logger.Info("token keeper stopped")
	})
}

func (k *TokenKeeper) run() {
	defer close(k.doneCh)

	ticker := time.NewTicker(k.Interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-k.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	k.Sweep(ctx)
	for {
		select {
		case <-ticker.C:
			k.Sweep(ctx)
		case <-k.stopCh:
			return
		}
	}
}

// Sweep does one pass and reports how many governors were refreshed.
// Failures are logged and left for the next pass.
func (k *TokenKeeper) Sweep(ctx context.Context) int {
	log := k.Logger.With("run_id", idx.New().String())
	refreshed := 0

	for _, g := range k.Governors {
		if !due(g) {
			continue
		}

		rctx, cancel := context.WithTimeout(ctx, keeperRefreshTimeout)
		_, err := g.Refresh(rctx)
		cancel()

		if err != nil {
			log.Warn("background token refresh failed", "integration", g.Name(), "error", err)
			continue
		}
		refreshed++
		log.Info("background token refresh succeeded", "integration", g.Name())
	}

	if k.States != nil {
		if n := k.States.Prune(); n > 0 {
			log.Debug("pruned expired oauth states", "count", n)
		}
	}
	return refreshed
}

// due: a refresh token is held and the access token is missing or inside
// the refresh skew.
func due(g Refresher) bool {
	st := g.Snapshot()
	if st.RefreshToken == "" {
		return false
	}
	return st.AccessToken == "" || g.Status().NeedsRefresh
}
