package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"

	"github.com/subham12r/portfolio/internal/portfolio/backoff"
	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/governor"
	httpapi "github.com/subham12r/portfolio/internal/portfolio/http"
	"github.com/subham12r/portfolio/internal/portfolio/metrics"
	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/internal/portfolio/store"
	"github.com/subham12r/portfolio/internal/portfolio/store/drivers/memory"
	"github.com/subham12r/portfolio/internal/portfolio/store/drivers/redis"
	"github.com/subham12r/portfolio/internal/portfolio/store/drivers/sqlite"
	"github.com/subham12r/portfolio/internal/portfolio/upstream"
	"github.com/subham12r/portfolio/pkg/cryptox"
	"github.com/subham12r/portfolio/pkg/jwtx"
	"github.com/subham12r/portfolio/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	IntegrationWakaTime = "wakatime"
	IntegrationSpotify  = "spotify"
	IntegrationTwitter  = "twitter"

	seedTimeout = 5 * time.Second
)

// Application encapsulates the portfolio backend with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	store    store.Store
	metrics  *metrics.Metrics
	verifier *jwtx.HS256

	// Token governors, one per OAuth integration
	wakatimeGov *governor.Governor
	spotifyGov  *governor.Governor

	// Services
	states          *service.StateStore
	wakatimeService *service.WakaTimeService
	spotifyService  *service.SpotifyService
	twitterService  *service.TwitterService
	keeper          *service.TokenKeeper

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "portfolio",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initVerifier(); err != nil {
		_ = app.store.Close()
		return nil, err
	}

	app.initGovernors()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mainly for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start the background token keeper
	app.keeper.Start()

	app.logger.Info("portfolio backend starting", "port", app.cfg.Port, "version", BuildVersion, "store", app.cfg.StoreDriver)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		app.keeper.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// StartKeeper runs the token keeper without the HTTP server.
func (app *Application) StartKeeper() { app.keeper.Start() }

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portfolio backend...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the token keeper
	app.keeper.Stop()

	// Close the token store
	if err := app.store.Close(); err != nil {
		app.logger.Error("error closing token store", "error", err)
		return err
	}

	app.logger.Info("portfolio backend stopped")
	return nil
}

// initStore opens the configured token store
func (app *Application) initStore() error {
	codec, err := app.newCodec()
	if err != nil {
		return err
	}

	switch app.cfg.StoreDriver {
	case StoreSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn, codec)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
		app.store = db

	case StoreRedis:
		rdb, err := redis.Open(app.cfg.RedisURL, codec)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.store = rdb

	default:
		app.store = memory.NewStore()
	}

	return nil
}

// newCodec derives the at-rest sealing key. Without a configured key the
// process still works, but sealed rows cannot be read after a restart.
func (app *Application) newCodec() (*store.Codec, error) {
	if app.cfg.TokenEncryptionKey != "" {
		sealer, err := cryptox.NewSealer([]byte(app.cfg.TokenEncryptionKey), store.SealerInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to derive token encryption key: %w", err)
		}
		return store.NewCodec(sealer), nil
	}

	sealer, err := cryptox.NewEphemeralSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token encryption key: %w", err)
	}
	if app.cfg.StoreDriver != StoreMemory {
		app.logger.Warn("TOKEN_ENCRYPTION_KEY not set, persisted tokens will be unreadable after restart")
	}
	return store.NewCodec(sealer), nil
}

// initVerifier sets up admin JWT verification. Without a secret a random
// one is used, so no externally minted token can pass.
func (app *Application) initVerifier() error {
	secret := []byte(app.cfg.AdminJWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate admin secret: %w", err)
		}
		app.logger.Warn("ADMIN_JWT_SECRET not set, admin endpoints are disabled")
	}

	verifier, err := jwtx.NewHS256(secret, app.cfg.AdminJWTIssuer)
	if err != nil {
		return fmt.Errorf("failed to initialize admin verifier: %w", err)
	}
	app.verifier = verifier
	return nil
}

// initGovernors builds one governor per OAuth integration and seeds it,
// preferring persisted state over environment seeds.
func (app *Application) initGovernors() {
	// No client-level timeout; every call carries its own context deadline.
	httpClient := &http.Client{}

	app.wakatimeGov = governor.New(governor.Config{
		Provider: governor.Provider{
			Name:         IntegrationWakaTime,
			TokenURL:     app.cfg.WakaTime.TokenURL,
			RevokeURL:    app.cfg.WakaTime.RevokeURL,
			ClientID:     app.cfg.WakaTime.ClientID,
			ClientSecret: app.cfg.WakaTime.ClientSecret,
			RedirectURL:  app.cfg.WakaTime.RedirectURI,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		HTTPClient: httpClient,
		Timeout:    app.cfg.UpstreamTimeout,
		Skew:       app.cfg.TokenRefreshSkew,
		Store:      app.store.Tokens(),
		Observer:   app.metrics,
		Logger:     app.logger,
	})
	app.seed(app.wakatimeGov, domain.TokenState{
		AccessToken:  app.cfg.WakaTime.AccessToken,
		RefreshToken: app.cfg.WakaTime.RefreshToken,
		ExpiresAt:    app.cfg.WakaTime.TokenExpiresAt,
	})

	app.spotifyGov = governor.New(governor.Config{
		Provider: governor.Provider{
			Name:         IntegrationSpotify,
			TokenURL:     app.cfg.Spotify.TokenURL,
			ClientID:     app.cfg.Spotify.ClientID,
			ClientSecret: app.cfg.Spotify.ClientSecret,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		HTTPClient: httpClient,
		Timeout:    app.cfg.UpstreamTimeout,
		Skew:       app.cfg.TokenRefreshSkew,
		Store:      app.store.Tokens(),
		Observer:   app.metrics,
		Logger:     app.logger,
	})
	app.seed(app.spotifyGov, domain.TokenState{RefreshToken: app.cfg.Spotify.RefreshToken})
}

func (app *Application) seed(gov *governor.Governor, fromEnv domain.TokenState) {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	log := app.logger.With("integration", gov.Name())

	persisted, err := app.store.Tokens().GetToken(ctx, gov.Name())
	switch {
	case err == nil && !persisted.IsZero():
		gov.Seed(persisted)
		log.Info("token state restored from store")
		return
	case err != nil && !errors.Is(err, store.ErrNotFound):
		log.Warn("failed to load persisted token, falling back to environment", "error", err)
	}

	if fromEnv.IsZero() {
		log.Info("integration not authorized")
		return
	}
	gov.Seed(fromEnv)
	log.Info("token state seeded from environment", "has_refresh_token", fromEnv.RefreshToken != "")
}

// newClient builds an upstream client with its own backoff guard. tokens is
// nil for unauthenticated APIs.
func (app *Application) newClient(name, baseURL string, tokens upstream.TokenSource) *upstream.Client {
	return &upstream.Client{
		Name:       name,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		Tokens:     tokens,
		Guard: backoff.New(backoff.Config{
			MaxBackoff: app.cfg.BackoffMax,
			DecayAfter: app.cfg.BackoffDecay,
		}),
		Timeout:  app.cfg.UpstreamTimeout,
		Observer: app.metrics,
		Logger:   app.logger,
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.states = service.NewStateStore(service.DefaultStateTTL, nil)

	app.wakatimeService = service.NewWakaTimeService(
		app.wakatimeGov,
		app.newClient(IntegrationWakaTime, app.cfg.WakaTime.APIURL, app.wakatimeGov),
		oauth2.Config{
			ClientID:     app.cfg.WakaTime.ClientID,
			ClientSecret: app.cfg.WakaTime.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   app.cfg.WakaTime.AuthURL,
				TokenURL:  app.cfg.WakaTime.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: app.cfg.WakaTime.RedirectURI,
			Scopes:      app.cfg.WakaTime.Scopes,
		},
		app.states,
	)

	app.spotifyService = service.NewSpotifyService(
		app.spotifyGov,
		app.newClient(IntegrationSpotify, app.cfg.Spotify.APIURL, app.spotifyGov),
	)

	app.twitterService = service.NewTwitterService(
		app.newClient(IntegrationTwitter, app.cfg.Twitter.OEmbedURL, nil),
	)

	app.keeper = service.NewTokenKeeper(
		[]service.Refresher{app.wakatimeGov, app.spotifyGov},
		app.states,
		app.logger,
		app.cfg.KeeperInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.store,
		app.metrics,
		app.logger,
	)

	// Wire services to router
	router.Limits = app.cfg.RateLimits
	router.WakaTimeService = app.wakatimeService
	router.SpotifyService = app.spotifyService
	router.TwitterService = app.twitterService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
