// Package upstream issues proxied calls to a third-party API under the
// backoff guard, with bearer credentials from a token source.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/subham12r/portfolio/internal/portfolio/backoff"
	"github.com/subham12r/portfolio/pkg/slogx"
)

const (
	// DefaultTimeout bounds every upstream call.
	DefaultTimeout = 30 * time.Second

	maxBody = 1 << 20
)

// TokenSource supplies bearer tokens. The governor implements it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Observer receives one event per Do call.
type Observer interface {
	ObserveUpstreamCall(integration, outcome string, status int, elapsed time.Duration)
	ObserveBackoff(integration string, window time.Duration)
}

// Request describes a proxied call. Path is joined onto the client BaseURL
// unless it is already absolute; an empty Path targets BaseURL itself.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   io.Reader
}

// Response is a fully read upstream reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client calls one upstream integration.
type Client struct {
	Name       string
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource // nil for unauthenticated APIs
	Guard      *backoff.Guard
	Timeout    time.Duration
	Observer   Observer
	Logger     *slog.Logger
}

// Do runs the call protocol:
//
//  1. short-circuit with a RateLimitedError while the guard is cooling down
//  2. fetch a bearer token and send the request
//  3. on 429 record the throttle and return a RateLimitedError
//  4. on any other non-2xx return an UpstreamError, guard untouched
//  5. on 2xx record success and return the response
func (c *Client) Do(ctx context.Context, in Request) (*Response, error) {
	started := time.Now()
	log := c.log(ctx)

	if c.Guard != nil {
		if left := c.Guard.Remaining(); left > 0 {
			c.observe("short_circuit", 0, started)
			return nil, &RateLimitedError{Integration: c.Name, RetryAfter: left, ShortCircuited: true}
		}
	}

	req, err := c.newRequest(ctx, in)
	if err != nil {
		return nil, err
	}

	if c.Tokens != nil {
		token, err := c.Tokens.AccessToken(ctx)
		if err != nil {
			c.observe("no_token", 0, started)
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.httpClient().Do(req.WithContext(callCtx))
	if err != nil {
		return nil, c.transportError(ctx, callCtx, err, started)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, c.transportError(ctx, callCtx, err, started)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		left := time.Duration(0)
		if c.Guard != nil {
			c.Guard.RecordThrottled()
			left = c.Guard.Remaining()
			if c.Observer != nil {
				c.Observer.ObserveBackoff(c.Name, left)
			}
		}
		log.Warn("upstream throttled",
			"integration", c.Name,
			"path", req.URL.Path,
			"backoff", left,
			"retry_after_header", resp.Header.Get("Retry-After"),
		)
		c.observe("throttled", resp.StatusCode, started)
		return nil, &RateLimitedError{Integration: c.Name, RetryAfter: left}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		log.Warn("upstream error",
			"integration", c.Name,
			"path", req.URL.Path,
			"status", resp.StatusCode,
		)
		c.observe("error", resp.StatusCode, started)
		return nil, &UpstreamError{Integration: c.Name, StatusCode: resp.StatusCode, Body: body}
	}

	if c.Guard != nil {
		c.Guard.RecordSuccess()
	}
	c.observe("ok", resp.StatusCode, started)
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// GetJSON issues a GET and decodes a 2xx body into out. A 204 leaves out
// untouched. The upstream status is returned either way.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) (int, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return ue.StatusCode, err
		}
		return 0, err
	}

	if resp.StatusCode == http.StatusNoContent || len(resp.Body) == 0 || out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("upstream: %s: failed to decode response: %w", c.Name, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, in Request) (*http.Request, error) {
	method := in.Method
	if method == "" {
		method = http.MethodGet
	}

	target := in.Path
	switch {
	case target == "":
		target = c.BaseURL
	case !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://"):
		target = strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(in.Path, "/")
	}
	if len(in.Query) > 0 {
		target += "?" + in.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, in.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream: %s: failed to create request: %w", c.Name, err)
	}
	for k, vs := range in.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return req, nil
}

// transportError separates our own timeout from caller cancellation and
// plain network failure.
func (c *Client) transportError(parent, callCtx context.Context, err error, started time.Time) error {
	switch {
	case parent.Err() != nil:
		c.observe("canceled", 0, started)
		return parent.Err()
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		c.observe("timeout", 0, started)
		return fmt.Errorf("%w: %s after %s", ErrTimeout, c.Name, time.Since(started).Round(time.Millisecond))
	default:
		c.observe("unreachable", 0, started)
		return &UpstreamError{Integration: c.Name, Err: err}
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// log prefers the request logger so request IDs follow the call.
func (c *Client) log(ctx context.Context) *slog.Logger {
	fallback := c.Logger
	if fallback == nil {
		fallback = slog.Default()
	}
	return slogx.FromContextOr(ctx, fallback)
}

func (c *Client) observe(outcome string, status int, started time.Time) {
	if c.Observer == nil {
		return
	}
	c.Observer.ObserveUpstreamCall(c.Name, outcome, status, time.Since(started))
}
