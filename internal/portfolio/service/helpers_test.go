package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/subham12r/portfolio/internal/portfolio/backoff"
	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/upstream"
	"github.com/subham12r/portfolio/pkg/slogx"
)

type fakeGov struct {
	name string

	mu           sync.Mutex
	state        domain.TokenState
	status       domain.TokenStatus
	codes        []string
	refreshCalls int
	refreshErr   error
	exchangeErr  error
	revoked      bool
}

func (f *fakeGov) Name() string { return f.name }

func (f *fakeGov) Status() domain.TokenStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeGov) Snapshot() domain.TokenState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeGov) Refresh(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.state.AccessToken = "refreshed"
	f.status = domain.TokenStatus{Authorized: true, HasRefreshToken: true}
	return "refreshed", nil
}

func (f *fakeGov) Exchange(_ context.Context, code string) (domain.TokenState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	if f.exchangeErr != nil {
		return domain.TokenState{}, f.exchangeErr
	}
	f.state = domain.TokenState{AccessToken: "at", RefreshToken: "rt"}
	f.status = domain.TokenStatus{Authorized: true, HasRefreshToken: true}
	return f.state, nil
}

func (f *fakeGov) Revoke(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = true
	f.state = domain.TokenState{}
	f.status = domain.TokenStatus{}
	return nil
}

func (f *fakeGov) AccessToken(context.Context) (string, error) { return "at", nil }

// newUpstream starts handler and returns a client pointed at base+prefix.
func newUpstream(t *testing.T, name, prefix string, handler http.HandlerFunc) *upstream.Client {
	t.Helper()
	if handler == nil {
		handler = http.NotFound
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &upstream.Client{
		Name:       name,
		BaseURL:    srv.URL + prefix,
		HTTPClient: srv.Client(),
		Tokens:     &fakeGov{name: name},
		Guard:      backoff.New(backoff.Config{}),
		Logger:     slogx.Discard(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
