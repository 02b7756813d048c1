// Package governor owns the OAuth token pair for one upstream integration.
// It hands out valid bearer tokens, refreshing them shortly before expiry,
// and implements the code exchange and revoke flows around that state.
package governor

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
)

const (
	// DefaultSkew is how long before expiry a token gets refreshed.
	DefaultSkew = 5 * time.Minute

	// DefaultTimeout bounds each call to the provider.
	DefaultTimeout = 30 * time.Second

	// DefaultLifetime is assumed when a token response carries no expiry.
	DefaultLifetime = time.Hour

	persistTimeout = 5 * time.Second
)

// Provider describes the provider's OAuth endpoints and this app's client
// registration with it.
type Provider struct {
	Name         string
	TokenURL     string
	RevokeURL    string // optional; revoke becomes local-only when empty
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// AuthStyle selects where client credentials go. AuthStyleAutoDetect is
	// treated as AuthStyleInParams.
	AuthStyle oauth2.AuthStyle
}

// Persister stores token state outside the process. Failures are logged and
// never fail a governor operation.
type Persister interface {
	SaveToken(ctx context.Context, integration string, state domain.TokenState) error
	DeleteToken(ctx context.Context, integration string) error
}

// Observer receives one event per provider call.
type Observer interface {
	ObserveTokenCall(integration string, op Op, outcome string, elapsed time.Duration)
}

// Config wires a Governor. Provider is required, everything else defaults.
type Config struct {
	Provider        Provider
	HTTPClient      *http.Client
	Timeout         time.Duration
	Skew            time.Duration
	DefaultLifetime time.Duration
	Clock           func() time.Time
	Store           Persister
	Observer        Observer
	Logger          *slog.Logger
}

// Governor manages one TokenState. It is safe for concurrent use; refreshes
// are collapsed so concurrent callers share a single provider call.
type Governor struct {
	provider   Provider
	httpClient *http.Client
	timeout    time.Duration
	skew       time.Duration
	lifetime   time.Duration
	clock      func() time.Time
	store      Persister
	observer   Observer
	logger     *slog.Logger

	mu    sync.RWMutex
	state domain.TokenState
	gen   uint64 // bumped whenever state is replaced from outside a refresh

	// writeMu is held from a state swap until its store write completes, so
	// the store sees swaps in the same order as memory. Lock order is
	// refreshMu, writeMu, mu.
	writeMu sync.Mutex

	// refreshMu serialises provider refreshes across flights.
	refreshMu sync.Mutex
	flight    singleflight.Group
}

// New returns a Governor with an empty state.
func New(cfg Config) *Governor {
	g := &Governor{
		provider:   cfg.Provider,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		skew:       cfg.Skew,
		lifetime:   cfg.DefaultLifetime,
		clock:      cfg.Clock,
		store:      cfg.Store,
		observer:   cfg.Observer,
		logger:     cfg.Logger,
	}
	if g.httpClient == nil {
		g.httpClient = &http.Client{}
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.skew <= 0 {
		g.skew = DefaultSkew
	}
	if g.lifetime <= 0 {
		g.lifetime = DefaultLifetime
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.logger = g.logger.With("integration", g.provider.Name)
	return g
}

// Name is the integration this governor serves.
func (g *Governor) Name() string { return g.provider.Name }

// AccessToken returns a bearer token that is valid for at least the refresh
// skew, refreshing first if needed. It returns ErrUnauthenticated when no
// access token is held and an ErrRefreshFailed error when a required refresh
// did not succeed.
func (g *Governor) AccessToken(ctx context.Context) (string, error) {
	g.mu.RLock()
	st := g.state
	g.mu.RUnlock()

	if st.AccessToken == "" {
		return "", ErrUnauthenticated
	}
	if g.fresh(st) {
		return st.AccessToken, nil
	}
	return g.doRefresh(ctx, false)
}

// Refresh runs the refresh-token grant unconditionally and returns the new
// access token. The prior refresh token is kept when the provider does not
// rotate it.
func (g *Governor) Refresh(ctx context.Context) (string, error) {
	return g.doRefresh(ctx, true)
}

// Status reports the diagnostic view of the current state.
func (g *Governor) Status() domain.TokenStatus {
	return g.Snapshot().Status(g.now(), g.skew)
}

// Snapshot returns a copy of the current state.
func (g *Governor) Snapshot() domain.TokenState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Seed installs a state obtained elsewhere (environment, persisted store).
// An access token without an expiry is treated as already expired so the
// first use refreshes it.
func (g *Governor) Seed(st domain.TokenState) {
	if st.AccessToken != "" && st.ExpiresAt.IsZero() {
		st.ExpiresAt = g.now()
	}

	g.mu.Lock()
	g.state = st
	g.gen++
	g.mu.Unlock()
}

func (g *Governor) fresh(st domain.TokenState) bool {
	return st.AccessToken != "" && g.now().Before(st.ExpiresAt.Add(-g.skew))
}

// doRefresh collapses concurrent refreshes into one provider call. Forced
// and on-demand refreshes use separate flights, so a forced caller always
// gets a provider round trip of its own. The call is detached from the
// caller's cancellation so a disconnecting client does not fail everybody
// else waiting on the same result.
func (g *Governor) doRefresh(ctx context.Context, force bool) (string, error) {
	key := "refresh"
	if force {
		key = "refresh-forced"
	}
	detached := context.WithoutCancel(ctx)
	ch := g.flight.DoChan(key, func() (any, error) {
		return g.refresh(detached, force)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (g *Governor) refresh(ctx context.Context, force bool) (string, error) {
	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()

	g.mu.RLock()
	st, gen := g.state, g.gen
	g.mu.RUnlock()

	// Another flight may have finished between our caller's check and now.
	if !force && g.fresh(st) {
		return st.AccessToken, nil
	}

	if st.RefreshToken == "" {
		return "", &OAuthError{
			Op:          OpRefresh,
			Code:        CodeNoRefreshToken,
			Description: "no refresh token held; a new authorization is required",
		}
	}

	tr, err := g.requestToken(ctx, OpRefresh, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": st.RefreshToken,
	})
	if err != nil {
		g.logger.Warn("token refresh failed", "error", err)
		return "", err
	}

	next := domain.TokenState{
		AccessToken:  tr.AccessToken,
		RefreshToken: st.RefreshToken,
		ExpiresAt:    g.expiry(tr),
	}
	if tr.RefreshToken != "" {
		next.RefreshToken = tr.RefreshToken
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	g.mu.Lock()
	if g.gen != gen {
		// Exchange, Revoke or Seed replaced the state while we were out.
		// Theirs wins.
		current := g.state
		g.mu.Unlock()
		if current.AccessToken != "" {
			return current.AccessToken, nil
		}
		return "", &OAuthError{
			Op:          OpRefresh,
			Code:        CodeStateChanged,
			Description: "token state was cleared during refresh",
		}
	}
	g.state = next
	g.mu.Unlock()

	g.logger.Info("token refreshed", "expires_at", next.ExpiresAt, "rotated", tr.RefreshToken != "")
	g.persist(ctx, next)
	return next.AccessToken, nil
}

// Exchange trades an authorization code for a token pair and replaces the
// whole state with it.
func (g *Governor) Exchange(ctx context.Context, code string) (domain.TokenState, error) {
	if code == "" {
		return domain.TokenState{}, &OAuthError{
			Op:          OpExchange,
			Code:        CodeInvalidRequest,
			Description: "authorization code is required",
		}
	}

	params := map[string]string{
		"grant_type": "authorization_code",
		"code":       code,
	}
	if g.provider.RedirectURL != "" {
		params["redirect_uri"] = g.provider.RedirectURL
	}

	tr, err := g.requestToken(ctx, OpExchange, params)
	if err != nil {
		g.logger.Warn("authorization code exchange failed", "error", err)
		return domain.TokenState{}, err
	}

	next := domain.TokenState{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    g.expiry(tr),
	}

	g.writeMu.Lock()
	g.mu.Lock()
	g.state = next
	g.gen++
	g.mu.Unlock()
	g.persist(ctx, next)
	g.writeMu.Unlock()

	g.logger.Info("authorization code exchanged", "expires_at", next.ExpiresAt)
	return next, nil
}

// Revoke clears local state and asks the provider to revoke the access
// token, or the refresh token when no access token is held. Local state is
// cleared even when the provider call fails.
func (g *Governor) Revoke(ctx context.Context) error {
	g.writeMu.Lock()
	g.mu.Lock()
	st := g.state
	g.state = domain.TokenState{}
	g.gen++
	g.mu.Unlock()
	g.forget(ctx)
	g.writeMu.Unlock()

	token := st.AccessToken
	if token == "" {
		token = st.RefreshToken
	}
	if token == "" || g.provider.RevokeURL == "" {
		g.logger.Info("token state cleared locally")
		return nil
	}

	if err := g.revokeUpstream(ctx, token); err != nil {
		g.logger.Warn("upstream revoke failed; local state cleared", "error", err)
		return err
	}

	g.logger.Info("token revoked")
	return nil
}

func (g *Governor) expiry(tr TokenResponse) time.Time {
	now := g.now()
	switch {
	case tr.ExpiresIn > 0:
		return now.Add(tr.ExpiresIn)
	case !tr.ExpiresAt.IsZero():
		return tr.ExpiresAt
	default:
		return now.Add(g.lifetime)
	}
}

func (g *Governor) persist(ctx context.Context, st domain.TokenState) {
	if g.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := g.store.SaveToken(ctx, g.provider.Name, st); err != nil {
		g.logger.Error("failed to persist token state", "error", err)
	}
}

func (g *Governor) forget(ctx context.Context) {
	if g.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := g.store.DeleteToken(ctx, g.provider.Name); err != nil {
		g.logger.Error("failed to delete persisted token state", "error", err)
	}
}

func (g *Governor) observe(op Op, outcome string, started time.Time) {
	if g.observer == nil {
		return
	}
	g.observer.ObserveTokenCall(g.provider.Name, op, outcome, time.Since(started))
}

func (g *Governor) now() time.Time {
	if g.clock != nil {
		return g.clock()
	}
	return time.Now().UTC()
}
