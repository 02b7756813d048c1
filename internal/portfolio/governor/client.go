package governor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// maxTokenBody caps how much of a provider reply we read.
const maxTokenBody = 1 << 20

// requestToken POSTs a grant to the token endpoint and decodes the reply.
// Every failure comes back as an *OAuthError tagged with op.
func (g *Governor) requestToken(ctx context.Context, op Op, params map[string]string) (TokenResponse, error) {
	started := time.Now()

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	resp, body, err := g.post(ctx, g.provider.TokenURL, form)
	if err != nil {
		g.observe(op, "unreachable", started)
		return TokenResponse{}, &OAuthError{Op: op, Code: CodeUnreachable, Description: "token endpoint unreachable", Err: err}
	}

	tr, parseErr := ParseTokenResponse(resp.Header.Get("Content-Type"), body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.observe(op, "rejected", started)
		oe := &OAuthError{Op: op, StatusCode: resp.StatusCode}
		if parseErr == nil && tr.Error != "" {
			oe.Code, oe.Description = tr.Error, tr.ErrorDescription
		} else {
			oe.Code, oe.Description = CodeInvalidResponse, snippet(body)
		}
		return TokenResponse{}, oe
	}

	switch {
	case parseErr != nil:
		g.observe(op, "malformed", started)
		return TokenResponse{}, &OAuthError{
			Op: op, StatusCode: resp.StatusCode, Code: CodeInvalidResponse,
			Description: "could not decode token response", Err: parseErr,
		}
	case tr.Error != "":
		// A 200 carrying an error document. Seen in the wild.
		g.observe(op, "rejected", started)
		return TokenResponse{}, &OAuthError{
			Op: op, StatusCode: resp.StatusCode, Code: tr.Error, Description: tr.ErrorDescription,
		}
	case tr.AccessToken == "":
		g.observe(op, "malformed", started)
		return TokenResponse{}, &OAuthError{
			Op: op, StatusCode: resp.StatusCode, Code: CodeInvalidResponse,
			Description: "token response has no access_token",
		}
	}

	g.observe(op, "ok", started)
	return tr, nil
}

// revokeUpstream posts the token to the revoke endpoint.
func (g *Governor) revokeUpstream(ctx context.Context, token string) error {
	started := time.Now()

	resp, body, err := g.post(ctx, g.provider.RevokeURL, url.Values{"token": {token}})
	if err != nil {
		g.observe(OpRevoke, "unreachable", started)
		return &OAuthError{Op: OpRevoke, Code: CodeUnreachable, Description: "revoke endpoint unreachable", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.observe(OpRevoke, "rejected", started)
		oe := &OAuthError{Op: OpRevoke, StatusCode: resp.StatusCode, Code: CodeInvalidResponse, Description: snippet(body)}
		if tr, perr := ParseTokenResponse(resp.Header.Get("Content-Type"), body); perr == nil && tr.Error != "" {
			oe.Code, oe.Description = tr.Error, tr.ErrorDescription
		}
		return oe
	}

	g.observe(OpRevoke, "ok", started)
	return nil
}

// post sends a form with client credentials attached per the provider's
// auth style, bounded by the governor timeout.
func (g *Governor) post(ctx context.Context, endpoint string, form url.Values) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	inHeader := g.provider.AuthStyle == oauth2.AuthStyleInHeader
	if !inHeader {
		form.Set("client_id", g.provider.ClientID)
		if g.provider.ClientSecret != "" {
			form.Set("client_secret", g.provider.ClientSecret)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if inHeader {
		req.SetBasicAuth(url.QueryEscape(g.provider.ClientID), url.QueryEscape(g.provider.ClientSecret))
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("provider did not answer within %s: %w", g.timeout, context.DeadlineExceeded)
		}
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenBody))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256] + "..."
	}
	if s == "" {
		return "empty response body"
	}
	return s
}
