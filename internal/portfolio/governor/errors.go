package governor

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means no access token has been obtained yet, or the
	// state was cleared by a revoke.
	ErrUnauthenticated = errors.New("governor: not authenticated")

	// ErrExchangeFailed means the authorization-code exchange did not yield
	// a usable token.
	ErrExchangeFailed = errors.New("governor: code exchange failed")

	// ErrRefreshFailed means a refresh was needed but could not be done. The
	// stale token is never handed out in this case.
	ErrRefreshFailed = errors.New("governor: token refresh failed")

	// ErrRevokeUpstreamFailed means the provider rejected or never answered
	// the revoke call. Local state is cleared regardless.
	ErrRevokeUpstreamFailed = errors.New("governor: upstream revoke failed")

	// ErrUnrecognisedTokenResponse is returned by ParseTokenResponse when the
	// body is neither a JSON nor a form-encoded token document.
	ErrUnrecognisedTokenResponse = errors.New("governor: unrecognised token response")
)

// Op names the governor operation an OAuthError came from.
type Op string

const (
	OpExchange Op = "exchange"
	OpRefresh  Op = "refresh"
	OpRevoke   Op = "revoke"
)

// Error codes used when the provider did not send one of its own.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeInvalidResponse = "invalid_response"
	CodeNoRefreshToken  = "no_refresh_token"
	CodeUnreachable     = "unreachable"
	CodeStateChanged    = "state_changed"
)

// OAuthError carries the provider detail behind a failed governor operation.
// It matches its operation sentinel (ErrExchangeFailed, ErrRefreshFailed or
// ErrRevokeUpstreamFailed) with errors.Is, as well as any underlying cause.
type OAuthError struct {
	Op Op

	// StatusCode is the provider's HTTP status, or 0 when no response was
	// received.
	StatusCode int

	// Code is the provider's "error" field (e.g. "invalid_grant") or one of
	// the Code* constants above.
	Code string

	Description string

	// Err is the transport or parse error, if any.
	Err error
}

func (e *OAuthError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.sentinel(), e.Code)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d %s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OAuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

// Reason is the most specific machine-readable cause, suitable for
// surfacing to callers.
func (e *OAuthError) Reason() string {
	return e.Code
}

func (e *OAuthError) sentinel() error {
	switch e.Op {
	case OpExchange:
		return ErrExchangeFailed
	case OpRefresh:
		return ErrRefreshFailed
	default:
		return ErrRevokeUpstreamFailed
	}
}
