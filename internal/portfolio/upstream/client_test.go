package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subham12r/portfolio/internal/portfolio/backoff"
	"github.com/subham12r/portfolio/internal/portfolio/upstream"
	"github.com/subham12r/portfolio/pkg/slogx"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(context.Context) (string, error) { return s.token, s.err }

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	windows  []time.Duration
}

func (o *recordingObserver) ObserveUpstreamCall(_, outcome string, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveBackoff(_ string, window time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.windows = append(o.windows, window)
}

type fixture struct {
	client *upstream.Client
	guard  *backoff.Guard
	clock  *fakeClock
	obs    *recordingObserver
	hits   *atomic.Int32
	status *atomic.Int32
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	f := &fixture{
		clock:  &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		obs:    &recordingObserver{},
		hits:   &atomic.Int32{},
		status: &atomic.Int32{},
	}
	f.status.Store(http.StatusOK)

	if handler == nil {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(int(f.status.Load()))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	f.guard = backoff.New(backoff.Config{Clock: f.clock.Now})
	f.client = &upstream.Client{
		Name:       "wakatime",
		BaseURL:    srv.URL + "/api/v1",
		HTTPClient: srv.Client(),
		Tokens:     staticTokens{token: "at-1"},
		Guard:      f.guard,
		Observer:   f.obs,
		Logger:     slogx.Discard(),
	}
	return f
}

func (f *fixture) call(t *testing.T) error {
	t.Helper()
	_, err := f.client.Do(context.Background(), upstream.Request{Path: "/users/current/stats/last_7_days"})
	return err
}

func TestClient_Success(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath, gotAccept string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"data":{"total":1}}`))
	})

	resp, err := f.client.Do(context.Background(), upstream.Request{
		Path:  "users/current/stats/last_7_days",
		Query: url.Values{"timeout": {"15"}},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"data":{"total":1}}`, string(resp.Body))

	require.Equal(t, "Bearer at-1", gotAuth)
	require.Equal(t, "/api/v1/users/current/stats/last_7_days", gotPath)
	require.Equal(t, "application/json", gotAccept)
	require.Equal(t, []string{"ok"}, f.obs.outcomes)
}

func TestClient_ThrottleEscalatesAndShortCircuits(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.status.Store(http.StatusTooManyRequests)

	// Each call waits out the previous window so it actually reaches upstream.
	for i, want := range []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute} {
		err := f.call(t)

		var rl *upstream.RateLimitedError
		require.ErrorAs(t, err, &rl, "call %d", i+1)
		require.False(t, rl.ShortCircuited)
		require.Equal(t, want, rl.RetryAfter)

		if i < 2 {
			f.clock.Advance(want)
		}
	}
	require.EqualValues(t, 3, f.hits.Load())

	err := f.call(t)
	var rl *upstream.RateLimitedError
	require.ErrorAs(t, err, &rl)
	require.True(t, rl.ShortCircuited)
	require.Equal(t, 4*time.Minute, rl.RetryAfter)
	require.EqualValues(t, 3, f.hits.Load(), "short-circuit must not reach upstream")

	require.Equal(t, []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}, f.obs.windows)
	require.Equal(t, "short_circuit", f.obs.outcomes[len(f.obs.outcomes)-1])
}

func TestClient_SuccessResetsEscalation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.status.Store(http.StatusTooManyRequests)

	for _, d := range []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute} {
		require.Error(t, f.call(t))
		f.clock.Advance(d)
	}

	f.status.Store(http.StatusOK)
	require.NoError(t, f.call(t))
	require.Zero(t, f.guard.Snapshot().Consecutive429Count)

	f.status.Store(http.StatusTooManyRequests)
	err := f.call(t)

	var rl *upstream.RateLimitedError
	require.ErrorAs(t, err, &rl)
	require.Equal(t, time.Minute, rl.RetryAfter)
}

func TestClient_OtherErrorsLeaveGuardAlone(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	// One earlier throttle that has already expired.
	f.guard.RecordThrottled()
	f.clock.Advance(time.Minute)

	err := f.call(t)

	var ue *upstream.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusInternalServerError, ue.StatusCode)
	require.JSONEq(t, `{"error":"boom"}`, string(ue.Body))

	snap := f.guard.Snapshot()
	require.Equal(t, 1, snap.Consecutive429Count)
	require.False(t, f.guard.ShouldBackOff())
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	f.client.Timeout = 50 * time.Millisecond

	err := f.call(t)
	require.ErrorIs(t, err, upstream.ErrTimeout)
	require.Zero(t, f.guard.Snapshot().Consecutive429Count)
}

func TestClient_CallerCancel(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client.Do(ctx, upstream.Request{Path: "/x"})
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, upstream.ErrTimeout)
}

func TestClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := &upstream.Client{Name: "spotify", BaseURL: base, Logger: slogx.Discard()}
	_, err := c.Do(context.Background(), upstream.Request{Path: "/me"})

	var ue *upstream.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Zero(t, ue.StatusCode)
	require.Error(t, ue.Err)
}

func TestClient_TokenErrorPassesThrough(t *testing.T) {
	t.Parallel()

	errNoToken := errors.New("no token")
	f := newFixture(t, nil)
	f.client.Tokens = staticTokens{err: errNoToken}

	err := f.call(t)
	require.ErrorIs(t, err, errNoToken)
	require.Zero(t, f.hits.Load())
}

func TestClient_GetJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		var out struct {
			OK bool `json:"ok"`
		}
		status, err := f.client.GetJSON(context.Background(), "/x", nil, &out)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
		require.True(t, out.OK)
	})

	t.Run("no content", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		var out map[string]any
		status, err := f.client.GetJSON(context.Background(), "/x", nil, &out)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, status)
		require.Nil(t, out)
	})

	t.Run("upstream status surfaces", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		f.status.Store(http.StatusNotFound)
		status, err := f.client.GetJSON(context.Background(), "/x", nil, nil)
		require.Error(t, err)
		require.Equal(t, http.StatusNotFound, status)
	})
}
