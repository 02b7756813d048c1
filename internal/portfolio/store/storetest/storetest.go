// Package storetest is a conformance suite every store driver runs.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/store"
)

// RunTokens exercises the Tokens contract against s.
func RunTokens(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	tokens := s.Tokens()

	require.NoError(t, s.Ping(ctx))

	_, err := tokens.GetToken(ctx, domain.IntegrationWakaTime)
	require.ErrorIs(t, err, store.ErrNotFound)

	first := domain.TokenState{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, tokens.SaveToken(ctx, domain.IntegrationWakaTime, first))

	got, err := tokens.GetToken(ctx, domain.IntegrationWakaTime)
	require.NoError(t, err)
	require.Equal(t, first.AccessToken, got.AccessToken)
	require.Equal(t, first.RefreshToken, got.RefreshToken)
	require.True(t, first.ExpiresAt.Equal(got.ExpiresAt))

	// Overwrite.
	second := domain.TokenState{RefreshToken: "rt-2"}
	require.NoError(t, tokens.SaveToken(ctx, domain.IntegrationWakaTime, second))
	got, err = tokens.GetToken(ctx, domain.IntegrationWakaTime)
	require.NoError(t, err)
	require.Equal(t, "", got.AccessToken)
	require.Equal(t, "rt-2", got.RefreshToken)
	require.True(t, got.ExpiresAt.IsZero())

	// Integrations are independent.
	_, err = tokens.GetToken(ctx, domain.IntegrationSpotify)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, tokens.DeleteToken(ctx, domain.IntegrationWakaTime))
	_, err = tokens.GetToken(ctx, domain.IntegrationWakaTime)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, tokens.DeleteToken(ctx, domain.IntegrationWakaTime), "deleting nothing is fine")
}
