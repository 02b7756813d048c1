package upstream

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when an upstream call exceeded the client timeout.
// Cancellation by the caller is reported as the caller's own context error.
var ErrTimeout = errors.New("upstream: request timed out")

// RateLimitedError means the call was not made, or was rejected with a 429,
// and the integration is cooling down for RetryAfter.
type RateLimitedError struct {
	Integration string
	RetryAfter  time.Duration

	// ShortCircuited is true when no request was sent because a cool-down
	// was already running.
	ShortCircuited bool
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("upstream: %s rate limited, retry after %s", e.Integration, e.RetryAfter.Round(time.Second))
}

// UpstreamError is a non-2xx, non-429 reply, or a transport failure when
// StatusCode is 0.
type UpstreamError struct {
	Integration string
	StatusCode  int
	Body        []byte
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream: %s unreachable: %v", e.Integration, e.Err)
	}
	return fmt.Sprintf("upstream: %s returned HTTP %d", e.Integration, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
