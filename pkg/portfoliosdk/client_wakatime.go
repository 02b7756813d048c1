package portfoliosdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// WakaTimeAuthorizeURL starts the owner authorization flow. Requires the
// admin token.
func (c *Client) WakaTimeAuthorizeURL(ctx context.Context) (*AuthorizeURLResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/wakatime/authorize", nil, true)
	if err != nil {
		return nil, err
	}

	var out AuthorizeURLResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WakaTimeStatus returns the token and backoff status.
func (c *Client) WakaTimeStatus(ctx context.Context) (*IntegrationStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/wakatime/status", nil, false)
	if err != nil {
		return nil, err
	}

	var out IntegrationStatus
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WakaTimeRefresh forces a token refresh. Requires the admin token.
func (c *Client) WakaTimeRefresh(ctx context.Context) (*TokenStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wakatime/refresh", nil, true)
	if err != nil {
		return nil, err
	}

	var out TokenStatus
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WakaTimeRevoke revokes the token upstream and clears it locally. An
// *APIError with code revoke_upstream_failed still means the local copy is
// gone. Requires the admin token.
func (c *Client) WakaTimeRevoke(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wakatime/revoke", nil, true)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// WakaTimeStats returns the raw stats document for a range such as
// "last_7_days" or "all_time".
func (c *Client) WakaTimeStats(ctx context.Context, rangeName string) (json.RawMessage, error) {
	return c.wakaTimeData(ctx, "/v1/wakatime/stats/"+url.PathEscape(rangeName))
}

// WakaTimeAllTime returns the all-time-since-today document.
func (c *Client) WakaTimeAllTime(ctx context.Context) (json.RawMessage, error) {
	return c.wakaTimeData(ctx, "/v1/wakatime/all-time")
}

// WakaTimeToday returns today's status bar summary.
func (c *Client) WakaTimeToday(ctx context.Context) (json.RawMessage, error) {
	return c.wakaTimeData(ctx, "/v1/wakatime/today")
}

func (c *Client) wakaTimeData(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}

	var out json.RawMessage
	if err := decodeJSON(resp, &out); err != nil {
		if errors.Is(err, errNoContent) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}
