package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/subham12r/portfolio/internal/portfolio/backoff"
	"github.com/subham12r/portfolio/internal/portfolio/governor"
	httpapi "github.com/subham12r/portfolio/internal/portfolio/http"
	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/pkg/httpx"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type WakaTimeConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string   // Optional: defaults to http://localhost:{PORT}/v1/wakatime/callback
	Scopes       []string // Optional: comma or space separated (default: read_stats)
	AuthURL      string
	TokenURL     string
	RevokeURL    string // Optional: empty makes revoke local-only
	APIURL       string

	// Seeds, used only when the store holds nothing for WakaTime.
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt time.Time
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string // Seed, used only when the store holds nothing for Spotify
	TokenURL     string
	APIURL       string
}

type TwitterConfig struct {
	OEmbedURL string
}

type Config struct {
	Port                int           // HTTP server port (default: 8080)
	Env                 string        // Environment (development, production) (default: development)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	UpstreamTimeout  time.Duration // Bound on every outbound call (default: 30s)
	TokenRefreshSkew time.Duration // Refresh this long before expiry (default: 5m)
	BackoffMax       time.Duration // Longest single cool-down (default: 10m)
	BackoffDecay     time.Duration // Idle time per consecutive-429 decrement (default: 30m)
	KeeperInterval   time.Duration // Background refresh interval (default: 5m)

	StoreDriver        string // memory, sqlite or redis (default: memory)
	DatabaseFile       string // SQLite file (default: portfolio.db)
	RedisURL           string // Required for the redis driver
	TokenEncryptionKey string // Optional: without it persisted tokens do not survive a restart

	AdminJWTSecret string // Optional: without it admin endpoints reject every token
	AdminJWTIssuer string // Default: portfolio

	WakaTime WakaTimeConfig
	Spotify  SpotifyConfig
	Twitter  TwitterConfig

	RateLimits httpapi.RateLimits

	loadErrs []error
}

func LoadConfig() Config {
	cfg := Config{
		Port:                getEnvIntOrDefault("PORT", 8080),
		Env:                 getEnvOrDefault("ENV", "development"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		UpstreamTimeout:  getEnvDurationOrDefault("UPSTREAM_TIMEOUT", governor.DefaultTimeout),
		TokenRefreshSkew: getEnvDurationOrDefault("TOKEN_REFRESH_SKEW", governor.DefaultSkew),
		BackoffMax:       getEnvDurationOrDefault("BACKOFF_MAX", backoff.DefaultMaxBackoff),
		BackoffDecay:     getEnvDurationOrDefault("BACKOFF_DECAY", backoff.DefaultDecayAfter),
		KeeperInterval:   getEnvDurationOrDefault("TOKEN_KEEPER_INTERVAL", service.DefaultKeeperInterval),

		StoreDriver:        getEnvOrDefault("STORE_DRIVER", StoreMemory),
		DatabaseFile:       getEnvOrDefault("DATABASE_FILE", "portfolio.db"),
		RedisURL:           os.Getenv("REDIS_URL"),
		TokenEncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),

		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		AdminJWTIssuer: getEnvOrDefault("ADMIN_JWT_ISSUER", "portfolio"),

		WakaTime: WakaTimeConfig{
			ClientID:     os.Getenv("WAKATIME_CLIENT_ID"),
			ClientSecret: os.Getenv("WAKATIME_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("WAKATIME_REDIRECT_URI"),
			Scopes:       httpx.SplitList(getEnvOrDefault("WAKATIME_SCOPES", "read_stats")),
			AuthURL:      getEnvOrDefault("WAKATIME_AUTH_URL", "https://wakatime.com/oauth/authorize"),
			TokenURL:     getEnvOrDefault("WAKATIME_TOKEN_URL", "https://wakatime.com/oauth/token"),
			RevokeURL:    getEnvOrDefault("WAKATIME_REVOKE_URL", "https://wakatime.com/oauth/revoke"),
			APIURL:       getEnvOrDefault("WAKATIME_API_URL", "https://wakatime.com/api/v1"),
			AccessToken:  os.Getenv("WAKATIME_ACCESS_TOKEN"),
			RefreshToken: os.Getenv("WAKATIME_REFRESH_TOKEN"),
		},
		Spotify: SpotifyConfig{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			RefreshToken: os.Getenv("SPOTIFY_REFRESH_TOKEN"),
			TokenURL:     getEnvOrDefault("SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),
			APIURL:       getEnvOrDefault("SPOTIFY_API_URL", "https://api.spotify.com/v1"),
		},
		Twitter: TwitterConfig{
			OEmbedURL: getEnvOrDefault("TWITTER_OEMBED_URL", "https://publish.twitter.com/oembed"),
		},

		RateLimits: httpapi.RateLimits{
			Strict:   httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit, os.Getenv),
			Moderate: httpx.ParseRateLimitFromEnv("MODERATE", httpx.ModerateLimit, os.Getenv),
			Lenient:  httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit, os.Getenv),
			Public:   httpx.ParseRateLimitFromEnv("PUBLIC", httpx.PublicLimit, os.Getenv),
		},
	}

	if raw := os.Getenv("WAKATIME_TOKEN_EXPIRES_AT"); raw != "" {
		exp, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			cfg.loadErrs = append(cfg.loadErrs, fmt.Errorf("WAKATIME_TOKEN_EXPIRES_AT must be RFC 3339: %w", err))
		}
		cfg.WakaTime.TokenExpiresAt = exp
	}

	if cfg.WakaTime.RedirectURI == "" {
		cfg.WakaTime.RedirectURI = fmt.Sprintf("http://localhost:%d/v1/wakatime/callback", cfg.Port)
	}

	return cfg
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	errs := append([]error(nil), c.loadErrs...)

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("DATABASE_FILE is required for the sqlite store"))
		}
	case StoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q (want memory, sqlite or redis)", c.StoreDriver))
	}

	if c.AdminJWTSecret != "" && len(c.AdminJWTSecret) < 32 {
		errs = append(errs, errors.New("ADMIN_JWT_SECRET must be at least 32 bytes"))
	}

	for name, d := range map[string]time.Duration{
		"SHUTDOWN_GRACE_PERIOD": c.ShutdownGracePeriod,
		"UPSTREAM_TIMEOUT":      c.UpstreamTimeout,
		"TOKEN_REFRESH_SKEW":    c.TokenRefreshSkew,
		"BACKOFF_MAX":           c.BackoffMax,
		"BACKOFF_DECAY":         c.BackoffDecay,
		"TOKEN_KEEPER_INTERVAL": c.KeeperInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}

	if c.WakaTime.RefreshToken != "" && c.WakaTime.ClientID == "" {
		errs = append(errs, errors.New("WAKATIME_REFRESH_TOKEN is set but WAKATIME_CLIENT_ID is not"))
	}
	if c.Spotify.RefreshToken != "" && c.Spotify.ClientID == "" {
		errs = append(errs, errors.New("SPOTIFY_REFRESH_TOKEN is set but SPOTIFY_CLIENT_ID is not"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
