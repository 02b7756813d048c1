package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"golang.org/x/oauth2"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/upstream"
)

// StatsRanges are the ranges WakaTime computes stats for.
var StatsRanges = []string{"last_7_days", "last_30_days", "last_6_months", "last_year", "all_time"}

// AuthorizeRequest is what the owner follows to (re)authorize WakaTime.
type AuthorizeRequest struct {
	URL       string    `json:"authorize_url"`
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expires_at"`
}

type WakaTimeService struct {
	gov    TokenGovernor
	client *upstream.Client
	oauth  oauth2.Config
	states *StateStore
}

// NewWakaTimeService wires the service. oauth supplies the client ID,
// authorize endpoint, redirect URL and scopes for AuthorizeURL; token calls
// go through gov.
func NewWakaTimeService(gov TokenGovernor, client *upstream.Client, oauth oauth2.Config, states *StateStore) *WakaTimeService {
	return &WakaTimeService{gov: gov, client: client, oauth: oauth, states: states}
}

func (s *WakaTimeService) AuthorizeURL(_ context.Context) (AuthorizeRequest, error) {
	state, exp, err := s.states.Issue()
	if err != nil {
		return AuthorizeRequest{}, fmt.Errorf("wakatime: issue state: %w", err)
	}
	return AuthorizeRequest{
		URL:       s.oauth.AuthCodeURL(state),
		State:     state,
		ExpiresAt: exp,
	}, nil
}

// Callback completes the authorization-code flow.
func (s *WakaTimeService) Callback(ctx context.Context, state, code string) (domain.TokenStatus, error) {
	if !s.states.Consume(state) {
		return domain.TokenStatus{}, ErrInvalidState
	}
	if _, err := s.gov.Exchange(ctx, code); err != nil {
		return domain.TokenStatus{}, err
	}
	return s.gov.Status(), nil
}

func (s *WakaTimeService) Status() IntegrationStatus {
	return IntegrationStatus{
		Integration: s.gov.Name(),
		Token:       s.gov.Status(),
		RateLimit:   s.client.Guard.Snapshot(),
	}
}

func (s *WakaTimeService) Refresh(ctx context.Context) (domain.TokenStatus, error) {
	if _, err := s.gov.Refresh(ctx); err != nil {
		return domain.TokenStatus{}, err
	}
	return s.gov.Status(), nil
}

func (s *WakaTimeService) Revoke(ctx context.Context) error {
	return s.gov.Revoke(ctx)
}

// Stats returns the stats document for rangeName.
func (s *WakaTimeService) Stats(ctx context.Context, rangeName string) (json.RawMessage, error) {
	if !slices.Contains(StatsRanges, rangeName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, rangeName)
	}
	return s.data(ctx, "/users/current/stats/"+rangeName)
}

// AllTimeSinceToday is the total coding time since the account was created.
func (s *WakaTimeService) AllTimeSinceToday(ctx context.Context) (json.RawMessage, error) {
	return s.data(ctx, "/users/current/all_time_since_today")
}

// StatusBarToday is today's summary as shown in editor status bars.
func (s *WakaTimeService) StatusBarToday(ctx context.Context) (json.RawMessage, error) {
	return s.data(ctx, "/users/current/status_bar/today")
}

// data GETs path and unwraps WakaTime's {"data": ...} envelope. A body
// without the envelope is passed through as is.
func (s *WakaTimeService) data(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := s.client.Do(ctx, upstream.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent || len(resp.Body) == 0 {
		return nil, ErrNoContent
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("wakatime: decode %s: %w", path, err)
	}
	if len(env.Data) == 0 {
		return json.RawMessage(resp.Body), nil
	}
	return env.Data, nil
}
