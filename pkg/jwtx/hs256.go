package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 32

// Signer signs admin tokens.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies with one shared secret. The service only
// verifies; the owner CLI signs with the same secret.
type HS256 struct {
	secret []byte
	issuer string
	leeway time.Duration
	clock  func() time.Time
}

// HS256Option tunes an HS256.
type HS256Option func(*HS256)

// WithClock injects the verification clock.
func WithClock(now func() time.Time) HS256Option {
	return func(h *HS256) { h.clock = now }
}

// NewHS256 returns a signer/verifier bound to secret. An empty issuer
// disables the issuer check.
func NewHS256(secret []byte, issuer string, opts ...HS256Option) (*HS256, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	h := &HS256{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		leeway: 30 * time.Second,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *HS256) Sign(c Claims) (string, error) {
	if c.Issuer == "" {
		c.Issuer = h.issuer
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	s, err := t.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return s, nil
}

// Verify checks the signature and algorithm, then exp (required), nbf and
// issuer against the injected clock.
func (h *HS256) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing exp", ErrMalformed)
	}
	if err := claims.ValidateTimes(h.clock(), h.leeway); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
