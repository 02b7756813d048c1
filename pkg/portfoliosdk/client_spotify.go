package portfoliosdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

// SpotifyNowPlaying returns the current track. Nothing playing is reported
// as IsPlaying false, not as an error.
func (c *Client) SpotifyNowPlaying(ctx context.Context) (*NowPlaying, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/spotify/now-playing", nil, false)
	if err != nil {
		return nil, err
	}

	var out NowPlaying
	if err := decodeJSON(resp, &out); err != nil {
		if errors.Is(err, errNoContent) {
			return &NowPlaying{}, nil
		}
		return nil, err
	}
	return &out, nil
}

// SpotifyRecentlyPlayed returns up to limit tracks. Zero uses the server
// default.
func (c *Client) SpotifyRecentlyPlayed(ctx context.Context, limit int) ([]Track, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/spotify/recently-played", q, false)
	if err != nil {
		return nil, err
	}

	var out RecentlyPlayedResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out.Tracks, nil
}

// SpotifyStatus returns the token and backoff status.
func (c *Client) SpotifyStatus(ctx context.Context) (*IntegrationStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/spotify/status", nil, false)
	if err != nil {
		return nil, err
	}

	var out IntegrationStatus
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
