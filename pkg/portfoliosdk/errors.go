package portfoliosdk

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

// Error codes the server puts in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeInsufficientScope    = "insufficient_scope"
	ErrorCodeNotAuthorized        = "not_authorized"
	ErrorCodeRefreshFailed        = "refresh_failed"
	ErrorCodeExchangeFailed       = "exchange_failed"
	ErrorCodeRevokeUpstreamFailed = "revoke_upstream_failed"
	ErrorCodeRateLimited          = "rate_limited"
	ErrorCodeUpstreamError        = "upstream_error"
	ErrorCodeUpstreamTimeout      = "upstream_timeout"
	ErrorCodeServerError          = "server_error"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode  int
	Code        string
	Description string

	// Reason is the provider's OAuth error code, when there was one.
	Reason string

	// RetryAfter is set for 429 replies.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("portfolio api: HTTP %d %s", e.StatusCode, e.Code)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// parseErrorResponse turns a non-2xx reply into an *APIError. A body that
// is not an ErrorResponse falls back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errResp.Error
		apiErr.Description = errResp.ErrorDescription
		apiErr.Reason = errResp.Reason
		if apiErr.RetryAfter == 0 && errResp.RetryAfterSeconds > 0 {
			apiErr.RetryAfter = time.Duration(errResp.RetryAfterSeconds) * time.Second
		}
		return apiErr
	}

	apiErr.Code = ErrorCodeServerError
	apiErr.Description = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	return apiErr
}

// parseRetryAfter reads delta-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return time.Duration(math.Ceil(d.Seconds())) * time.Second
		}
	}
	return 0
}
