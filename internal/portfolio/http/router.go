// Package http exposes the portfolio services over HTTP.
package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/subham12r/portfolio/api/portfolio" // Swagger docs
	"github.com/subham12r/portfolio/internal/portfolio/metrics"
	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/internal/portfolio/store"
	"github.com/subham12r/portfolio/pkg/httpx"
	"github.com/subham12r/portfolio/pkg/jwtx"
	"github.com/subham12r/portfolio/pkg/slogx"
)

// RateLimits holds the inbound per-IP profiles the routes use.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
	Public   httpx.RateLimitConfig
}

// DefaultRateLimits are the httpx profiles unchanged.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
		Public:   httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *metrics.Metrics

	Limits          RateLimits
	WakaTimeService *service.WakaTimeService
	SpotifyService  *service.SpotifyService
	TwitterService  *service.TwitterService
}

// NewRouter returns a Router with default limits. Set the services, then
// call ApplyRoutes. m may be nil to run without metrics.
func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Request logging is outermost so the metrics middleware sees the same
	// *http.Request the mux annotates with its pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if m != nil {
		r.middlewares = append(r.middlewares, m.HTTPMiddleware)
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerWakaTime()
	r.registerSpotify()
	r.registerTwitter()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Portfolio Backend API
//	@version		0.1.0
//	@description	Proxies WakaTime, Spotify and Twitter data for a personal portfolio site.
//	@description	OAuth tokens are held and refreshed server-side and upstream throttling is absorbed with exponential backoff.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin JWT with the portfolio:admin scope. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// admin wraps h with a strict per-IP limit ahead of bearer verification
// and the admin scope check, and a per-subject limit behind them.
func (r *Router) admin(h http.Handler) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByIP(r.Limits.Strict),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(jwtx.ScopeAdmin),
		httpx.RateLimitBySubject(r.Limits.Moderate),
	)
}

func (r *Router) registerSystem() {
	var integrations []StatusReporter
	if r.WakaTimeService != nil {
		integrations = append(integrations, r.WakaTimeService)
	}
	if r.SpotifyService != nil {
		integrations = append(integrations, r.SpotifyService)
	}

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, integrations),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}

func (r *Router) registerWakaTime() {
	if r.WakaTimeService == nil {
		return
	}
	h := &WakaTimeHandler{Service: r.WakaTimeService}

	// Owner endpoints
	r.Mux.Handle("GET /v1/wakatime/authorize", r.admin(http.HandlerFunc(h.HandleAuthorize)))
	r.Mux.Handle("POST /v1/wakatime/refresh", r.admin(http.HandlerFunc(h.HandleRefresh)))
	r.Mux.Handle("POST /v1/wakatime/revoke", r.admin(http.HandlerFunc(h.HandleRevoke)))

	// The callback is authenticated by its single-use state.
	r.Mux.Handle("GET /v1/wakatime/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)

	r.Mux.Handle("GET /v1/wakatime/status",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)

	// Widget data - public limit, the upstream backoff guard does the rest
	public := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(r.Limits.Public))
	}
	r.Mux.Handle("GET /v1/wakatime/stats/{range}", public(h.HandleStats))
	r.Mux.Handle("GET /v1/wakatime/all-time", public(h.HandleAllTime))
	r.Mux.Handle("GET /v1/wakatime/today", public(h.HandleToday))
}

func (r *Router) registerSpotify() {
	if r.SpotifyService == nil {
		return
	}
	h := &SpotifyHandler{Service: r.SpotifyService}

	r.Mux.Handle("GET /v1/spotify/now-playing",
		httpx.Chain(http.HandlerFunc(h.HandleNowPlaying),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /v1/spotify/recently-played",
		httpx.Chain(http.HandlerFunc(h.HandleRecentlyPlayed),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /v1/spotify/status",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}

func (r *Router) registerTwitter() {
	if r.TwitterService == nil {
		return
	}
	r.Mux.Handle("GET /v1/twitter/oembed",
		httpx.Chain(&TwitterHandler{Service: r.TwitterService},
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
}
