package domain

import "time"

// RateLimitState tracks how hard an upstream has been throttling us.
type RateLimitState struct {
	Consecutive429Count int        `json:"consecutive_429_count"`
	BackoffUntil        *time.Time `json:"backoff_until,omitempty"`
	LastThrottledAt     *time.Time `json:"last_throttled_at,omitempty"` // basis for idle decay
}

