package portfolio_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subham12r/portfolio/internal/portfolio/app"
	"github.com/subham12r/portfolio/pkg/httpx"
	"github.com/subham12r/portfolio/pkg/jwtx"
	"github.com/subham12r/portfolio/pkg/portfoliosdk"
)

/*
 * The portfolio backend runs in-process behind httptest, wired to fake
 * WakaTime, Spotify and Twitter servers. Tests talk to it through the SDK.
 */

const (
	adminSecret = "e2e-admin-secret-0123456789abcdef"
	adminIssuer = "portfolio-e2e"

	wakatimeClientID = "waka-client"
	spotifyClientID  = "spotify-client"
	spotifySecret    = "spotify-secret"
	spotifySeed      = "spotify-seed-refresh"
)

// fakeWakaTime issues numbered tokens and serves stats to whoever holds the
// latest one.
type fakeWakaTime struct {
	mu      sync.Mutex
	issued  int
	current string
	revoked []string

	throttle  atomic.Bool
	statsHits atomic.Int32
}

func (f *fakeWakaTime) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("client_id") != wakatimeClientID {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
			return
		}

		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "good-code" {
				w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("error=invalid_grant&error_description=unknown+code"))
				return
			}
		case "refresh_token":
			if r.PostForm.Get("refresh_token") != "waka-rt" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
				return
			}
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
			return
		}

		f.mu.Lock()
		f.issued++
		f.current = "waka-at-" + strconv.Itoa(f.issued)
		token := f.current
		f.mu.Unlock()

		// WakaTime answers form-encoded.
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		_, _ = w.Write([]byte("access_token=" + token + "&refresh_token=waka-rt&token_type=bearer&expires_in=3600&scope=read_stats"))
	})

	mux.HandleFunc("POST /oauth/revoke", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.revoked = append(f.revoked, r.PostForm.Get("token"))
		f.current = ""
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/v1/users/current/stats/{range}", func(w http.ResponseWriter, r *http.Request) {
		f.statsHits.Add(1)
		if f.throttle.Load() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if !f.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"range": r.PathValue("range"), "human_readable_total": "12 hrs 3 mins"},
		})
	})

	return mux
}

func (f *fakeWakaTime) authorized(r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current != "" && r.Header.Get("Authorization") == "Bearer "+f.current
}

func (f *fakeWakaTime) revokedTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.revoked...)
}

// fakeSpotify refreshes the seeded token with client credentials in the
// Authorization header and reports one playing track.
func fakeSpotify() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		if !ok || id != spotifyClientID || secret != spotifySecret {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
			return
		}
		if err := r.ParseForm(); err != nil ||
			r.PostForm.Get("grant_type") != "refresh_token" ||
			r.PostForm.Get("refresh_token") != spotifySeed {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
			return
		}

		// Spotify omits refresh_token when it does not rotate it.
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "spotify-at",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("GET /v1/me/player/currently-playing", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer spotify-at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"is_playing":  true,
			"progress_ms": 1000,
			"item": map[string]any{
				"name":          "Teardrop",
				"duration_ms":   330000,
				"external_urls": map[string]string{"spotify": "https://open.spotify.com/track/1"},
				"artists":       []map[string]string{{"name": "Massive Attack"}},
				"album": map[string]any{
					"name":   "Mezzanine",
					"images": []map[string]string{{"url": "https://i.scdn.co/image/1"}},
				},
			},
		})
	})

	return mux
}

func fakeTwitter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"url":           r.URL.Query().Get("url"),
			"author_name":   "Go",
			"author_url":    "https://twitter.com/golang",
			"html":          "<blockquote>gopher</blockquote>",
			"type":          "rich",
			"provider_name": "Twitter",
			"provider_url":  "https://twitter.com",
			"version":       "1.0",
		})
	})
}

type env struct {
	app      *app.Application
	baseURL  string
	wakatime *fakeWakaTime
	admin    *portfoliosdk.Client
	public   *portfoliosdk.Client
}

// setupPortfolio starts the app against fresh fakes.
func setupPortfolio(t *testing.T) *env {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	waka := &fakeWakaTime{}
	wakaSrv := httptest.NewServer(waka.handler())
	t.Cleanup(wakaSrv.Close)

	spotifySrv := httptest.NewServer(fakeSpotify())
	t.Cleanup(spotifySrv.Close)

	twitterSrv := httptest.NewServer(fakeTwitter())
	t.Cleanup(twitterSrv.Close)

	cfg := app.LoadConfig()
	cfg.AdminJWTSecret = adminSecret
	cfg.AdminJWTIssuer = adminIssuer

	cfg.WakaTime.ClientID = wakatimeClientID
	cfg.WakaTime.ClientSecret = "waka-secret"
	cfg.WakaTime.AuthURL = wakaSrv.URL + "/oauth/authorize"
	cfg.WakaTime.TokenURL = wakaSrv.URL + "/oauth/token"
	cfg.WakaTime.RevokeURL = wakaSrv.URL + "/oauth/revoke"
	cfg.WakaTime.APIURL = wakaSrv.URL + "/api/v1"

	cfg.Spotify.ClientID = spotifyClientID
	cfg.Spotify.ClientSecret = spotifySecret
	cfg.Spotify.RefreshToken = spotifySeed
	cfg.Spotify.TokenURL = spotifySrv.URL + "/api/token"
	cfg.Spotify.APIURL = spotifySrv.URL + "/v1"

	cfg.Twitter.OEmbedURL = twitterSrv.URL + "/oembed"

	cfg.UpstreamTimeout = 5 * time.Second

	// Tests make many rapid requests from one IP.
	generous := httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
	cfg.RateLimits.Strict = generous
	cfg.RateLimits.Moderate = generous
	cfg.RateLimits.Lenient = generous

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = application.Shutdown()
	})

	return &env{
		app:      application,
		baseURL:  srv.URL,
		wakatime: waka,
		admin:    portfoliosdk.NewClient(srv.URL, mintAdminToken(t)),
		public:   portfoliosdk.NewClient(srv.URL, ""),
	}
}

func mintAdminToken(t *testing.T) string {
	t.Helper()

	signer, err := jwtx.NewHS256([]byte(adminSecret), adminIssuer)
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewClaims("owner", adminIssuer, []string{jwtx.ScopeAdmin}, time.Hour, time.Now()))
	require.NoError(t, err)
	return token
}

// authorizeWakaTime runs the consent round trip: fetch the authorize URL,
// then hit the callback the provider would redirect to.
func authorizeWakaTime(t *testing.T, e *env) {
	t.Helper()

	auth, err := e.admin.WakaTimeAuthorizeURL(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, auth.State)

	resp := callback(t, e, auth.State, "good-code")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func callback(t *testing.T, e *env, state, code string) *http.Response {
	t.Helper()

	target := e.baseURL + "/v1/wakatime/callback?" + url.Values{"state": {state}, "code": {code}}.Encode()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, target, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func requireAPIError(t *testing.T, err error, status int, code string) *portfoliosdk.APIError {
	t.Helper()

	var apiErr *portfoliosdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	if code != "" {
		require.Equal(t, code, apiErr.Code)
	}
	return apiErr
}
