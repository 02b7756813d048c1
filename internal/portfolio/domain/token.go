package domain

import "time"

// TokenState is the OAuth credential pair held for a single integration.
// A non-empty AccessToken always carries a non-zero ExpiresAt.
type TokenState struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// IsZero reports whether no credential of any kind is held.
func (t TokenState) IsZero() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Status derives the diagnostic view of the state at the given instant. A
// token is considered in need of refresh once now is within skew of expiry.
func (t TokenState) Status(now time.Time, skew time.Duration) TokenStatus {
	s := TokenStatus{
		Authorized:      t.AccessToken != "",
		HasRefreshToken: t.RefreshToken != "",
	}
	if !s.Authorized {
		return s
	}

	exp := t.ExpiresAt
	s.ExpiresAt = &exp
	s.IsExpired = !now.Before(exp)
	s.NeedsRefresh = !now.Before(exp.Add(-skew))
	return s
}

// TokenStatus is what the status query reports for an integration.
type TokenStatus struct {
	Authorized      bool       `json:"authorized"`
	IsExpired       bool       `json:"is_expired"`
	NeedsRefresh    bool       `json:"needs_refresh"`
	HasRefreshToken bool       `json:"has_refresh_token"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}
