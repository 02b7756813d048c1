package governor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenResponse is a decoded token endpoint reply. Either AccessToken or
// Error is set.
type TokenResponse struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	Scope            string
	ExpiresIn        time.Duration // zero when the provider did not say
	ExpiresAt        time.Time     // some providers send an absolute expiry as well
	Error            string
	ErrorDescription string
}

// ParseTokenResponse decodes a token endpoint body. Providers disagree on
// whether they answer in JSON or form encoding, and some label one as the
// other, so the declared content type is tried first and the alternate
// format second. A parse only counts if it yields an access_token or an
// error field.
func ParseTokenResponse(contentType string, body []byte) (TokenResponse, error) {
	decoders := []func([]byte) (TokenResponse, error){decodeJSONToken, decodeFormToken}
	if isFormContentType(contentType) {
		decoders = []func([]byte) (TokenResponse, error){decodeFormToken, decodeJSONToken}
	}

	var errs []error
	for _, decode := range decoders {
		tr, err := decode(body)
		if err == nil {
			return tr, nil
		}
		errs = append(errs, err)
	}
	return TokenResponse{}, fmt.Errorf("%w: %w", ErrUnrecognisedTokenResponse, errors.Join(errs...))
}

func isFormContentType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "text/plain"
}

type jsonToken struct {
	AccessToken      string          `json:"access_token"`
	RefreshToken     string          `json:"refresh_token"`
	TokenType        string          `json:"token_type"`
	Scope            string          `json:"scope"`
	ExpiresIn        json.RawMessage `json:"expires_in"`
	ExpiresAt        string          `json:"expires_at"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeJSONToken(body []byte) (TokenResponse, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return TokenResponse{}, errors.New("json: body is not an object")
	}

	var raw jsonToken
	if err := json.Unmarshal(body, &raw); err != nil {
		return TokenResponse{}, fmt.Errorf("json: %w", err)
	}

	expiresIn, err := parseExpiresIn(strings.Trim(string(raw.ExpiresIn), `"`))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("json: %w", err)
	}

	tr := TokenResponse{
		AccessToken:      raw.AccessToken,
		RefreshToken:     raw.RefreshToken,
		TokenType:        raw.TokenType,
		Scope:            raw.Scope,
		ExpiresIn:        expiresIn,
		ExpiresAt:        parseExpiresAt(raw.ExpiresAt),
		Error:            raw.Error,
		ErrorDescription: raw.ErrorDescription,
	}
	if tr.AccessToken == "" && tr.Error == "" {
		return TokenResponse{}, errors.New("json: neither access_token nor error present")
	}
	return tr, nil
}

func decodeFormToken(body []byte) (TokenResponse, error) {
	vals, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("form: %w", err)
	}

	expiresIn, err := parseExpiresIn(vals.Get("expires_in"))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("form: %w", err)
	}

	tr := TokenResponse{
		AccessToken:      vals.Get("access_token"),
		RefreshToken:     vals.Get("refresh_token"),
		TokenType:        vals.Get("token_type"),
		Scope:            vals.Get("scope"),
		ExpiresIn:        expiresIn,
		ExpiresAt:        parseExpiresAt(vals.Get("expires_at")),
		Error:            vals.Get("error"),
		ErrorDescription: vals.Get("error_description"),
	}
	if tr.AccessToken == "" && tr.Error == "" {
		return TokenResponse{}, errors.New("form: neither access_token nor error present")
	}
	return tr, nil
}

// maxExpiresIn caps provider lifetimes well below the time.Duration range.
const maxExpiresIn = 10 * 365 * 24 * time.Hour

// parseExpiresIn accepts whole or fractional seconds. Empty or "null" means
// the provider did not say.
func parseExpiresIn(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return 0, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expires_in %q", s)
	}
	if secs <= 0 {
		return 0, nil
	}
	if secs >= maxExpiresIn.Seconds() {
		return maxExpiresIn, nil
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func parseExpiresAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
