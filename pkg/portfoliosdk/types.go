package portfoliosdk

import "time"

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`

	// Reason is the provider's OAuth error code, for exchange and refresh
	// failures.
	Reason string `json:"reason,omitempty"`

	// UpstreamStatus and UpstreamBody describe a failed proxied call.
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`

	RetryAfterSeconds int `json:"retry_after_seconds,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports dependency status for /readyz. Integrations are
// informational: an unauthorized integration does not make the service
// unready.
type HealthChecks struct {
	Store        string                 `json:"store"`
	Integrations map[string]TokenStatus `json:"integrations,omitempty"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenStatus describes the credential held for an integration. Token
// values themselves are never exposed.
type TokenStatus struct {
	Authorized      bool       `json:"authorized"`
	IsExpired       bool       `json:"is_expired"`
	NeedsRefresh    bool       `json:"needs_refresh"`
	HasRefreshToken bool       `json:"has_refresh_token"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// RateLimitState is the upstream backoff view.
type RateLimitState struct {
	Consecutive429Count int        `json:"consecutive_429_count"`
	BackoffUntil        *time.Time `json:"backoff_until,omitempty"`
	LastThrottledAt     *time.Time `json:"last_throttled_at,omitempty"`
}

// IntegrationStatus is returned by the /v1/{integration}/status endpoints.
type IntegrationStatus struct {
	Integration string         `json:"integration"`
	Token       TokenStatus    `json:"token"`
	RateLimit   RateLimitState `json:"rate_limit"`
}

// AuthorizeURLResponse is returned by GET /v1/wakatime/authorize.
type AuthorizeURLResponse struct {
	AuthorizeURL string    `json:"authorize_url"`
	State        string    `json:"state"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ============================================================================
// Widget Types
// ============================================================================

// NowPlaying is returned by GET /v1/spotify/now-playing.
type NowPlaying struct {
	IsPlaying     bool   `json:"isPlaying"`
	Title         string `json:"title,omitempty"`
	Artist        string `json:"artist,omitempty"`
	Album         string `json:"album,omitempty"`
	AlbumImageURL string `json:"albumImageUrl,omitempty"`
	SongURL       string `json:"songUrl,omitempty"`
	ProgressMs    int    `json:"progressMs,omitempty"`
	DurationMs    int    `json:"durationMs,omitempty"`
}

// Track is one entry of GET /v1/spotify/recently-played.
type Track struct {
	Title         string    `json:"title"`
	Artist        string    `json:"artist"`
	Album         string    `json:"album"`
	AlbumImageURL string    `json:"albumImageUrl,omitempty"`
	SongURL       string    `json:"songUrl,omitempty"`
	PlayedAt      time.Time `json:"playedAt"`
}

// RecentlyPlayedResponse wraps the track list.
type RecentlyPlayedResponse struct {
	Tracks []Track `json:"tracks"`
}

// OEmbedOptions are the optional GET /v1/twitter/oembed parameters.
type OEmbedOptions struct {
	Theme      string
	OmitScript bool
}

// OEmbed is returned by GET /v1/twitter/oembed.
type OEmbed struct {
	URL          string `json:"url"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	HTML         string `json:"html"`
	Width        int    `json:"width,omitempty"`
	Height       *int   `json:"height,omitempty"`
	Type         string `json:"type"`
	CacheAge     string `json:"cache_age,omitempty"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	Version      string `json:"version"`
}
