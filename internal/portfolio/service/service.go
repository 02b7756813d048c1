// Package service holds the integration use cases the HTTP layer exposes:
// WakaTime OAuth and stats, Spotify playback, Twitter embeds, OAuth state
// nonces and the background token keeper.
package service

import (
	"context"
	"errors"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
)

var (
	ErrInvalidState    = errors.New("service: invalid or expired oauth state")
	ErrInvalidRange    = errors.New("service: unsupported stats range")
	ErrInvalidTweetURL = errors.New("service: not a twitter.com or x.com status url")
	ErrInvalidParam    = errors.New("service: invalid parameter")

	// ErrNoContent means the upstream answered 204 and there is nothing to
	// show.
	ErrNoContent = errors.New("service: upstream returned no content")
)

// TokenGovernor is the slice of governor.Governor the services rely on.
type TokenGovernor interface {
	Name() string
	Status() domain.TokenStatus
	Snapshot() domain.TokenState
	Refresh(ctx context.Context) (string, error)
	Exchange(ctx context.Context, code string) (domain.TokenState, error)
	Revoke(ctx context.Context) error
}

// IntegrationStatus is what the status endpoints report: the token view and
// the backoff view side by side.
type IntegrationStatus struct {
	Integration string                `json:"integration"`
	Token       domain.TokenStatus    `json:"token"`
	RateLimit   domain.RateLimitState `json:"rate_limit"`
}
