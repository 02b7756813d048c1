package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subham12r/portfolio/pkg/httpx"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, "portfolio", cfg.AdminJWTIssuer)
	require.Equal(t, []string{"read_stats"}, cfg.WakaTime.Scopes)
	require.Equal(t, "http://localhost:8080/v1/wakatime/callback", cfg.WakaTime.RedirectURI)
	require.Equal(t, "https://wakatime.com/oauth/token", cfg.WakaTime.TokenURL)
	require.Equal(t, "https://accounts.spotify.com/api/token", cfg.Spotify.TokenURL)
	require.Equal(t, 10*time.Minute, cfg.BackoffMax)
	require.Equal(t, 30*time.Minute, cfg.BackoffDecay)
	require.Equal(t, httpx.StrictLimit, cfg.RateLimits.Strict)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DATABASE_FILE", "/tmp/p.db")
	t.Setenv("BACKOFF_MAX", "15")
	t.Setenv("TOKEN_REFRESH_SKEW", "90s")
	t.Setenv("WAKATIME_CLIENT_ID", "cid")
	t.Setenv("WAKATIME_SCOPES", "read_stats, read_summaries")
	t.Setenv("WAKATIME_REFRESH_TOKEN", "rt")
	t.Setenv("WAKATIME_TOKEN_EXPIRES_AT", "2026-01-02T03:04:05Z")
	t.Setenv("RATELIMIT_PUBLIC_REQUESTS", "7")

	cfg := LoadConfig()

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "http://localhost:9090/v1/wakatime/callback", cfg.WakaTime.RedirectURI)
	require.Equal(t, 15*time.Minute, cfg.BackoffMax)
	require.Equal(t, 90*time.Second, cfg.TokenRefreshSkew)
	require.Equal(t, []string{"read_stats", "read_summaries"}, cfg.WakaTime.Scopes)
	require.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), cfg.WakaTime.TokenExpiresAt)
	require.Equal(t, 7, cfg.RateLimits.Public.RequestsPerWindow)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "postgres"}, "unknown STORE_DRIVER"},
		{"redis without url", map[string]string{"STORE_DRIVER": "redis"}, "REDIS_URL is required"},
		{"short admin secret", map[string]string{"ADMIN_JWT_SECRET": "short"}, "at least 32 bytes"},
		{"bad expiry", map[string]string{"WAKATIME_TOKEN_EXPIRES_AT": "tomorrow"}, "RFC 3339"},
		{"port out of range", map[string]string{"PORT": "70000"}, "out of range"},
		{"refresh without client", map[string]string{"SPOTIFY_REFRESH_TOKEN": "rt"}, "SPOTIFY_CLIENT_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := LoadConfig().Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsEverything(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("ADMIN_JWT_SECRET", "short")

	err := LoadConfig().Validate()
	require.ErrorContains(t, err, "REDIS_URL")
	require.ErrorContains(t, err, "ADMIN_JWT_SECRET")
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("D_DURATION", "45s")
	t.Setenv("D_MINUTES", "3")
	t.Setenv("D_JUNK", "soon")

	require.Equal(t, 45*time.Second, getEnvDurationOrDefault("D_DURATION", time.Hour))
	require.Equal(t, 3*time.Minute, getEnvDurationOrDefault("D_MINUTES", time.Hour))
	require.Equal(t, time.Hour, getEnvDurationOrDefault("D_JUNK", time.Hour))
	require.Equal(t, time.Hour, getEnvDurationOrDefault("D_UNSET", time.Hour))
}
