package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/service"
)

const currentlyPlaying = `{
  "is_playing": true,
  "progress_ms": 61000,
  "item": {
    "name": "Song",
    "duration_ms": 200000,
    "external_urls": {"spotify": "https://open.spotify.com/track/1"},
    "artists": [{"name": "A"}, {"name": "B"}],
    "album": {"name": "Album", "images": [{"url": "https://i.scdn.co/large"}, {"url": "https://i.scdn.co/small"}]}
  }
}`

func TestSpotify_NowPlaying(t *testing.T) {
	t.Parallel()

	t.Run("playing", func(t *testing.T) {
		t.Parallel()

		client := newUpstream(t, domain.IntegrationSpotify, "/v1", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/me/player/currently-playing", r.URL.Path)
			require.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, currentlyPlaying)
		})
		svc := service.NewSpotifyService(&fakeGov{name: domain.IntegrationSpotify}, client)

		np, err := svc.NowPlaying(context.Background())
		require.NoError(t, err)
		require.Equal(t, service.NowPlaying{
			IsPlaying:     true,
			Title:         "Song",
			Artist:        "A, B",
			Album:         "Album",
			AlbumImageURL: "https://i.scdn.co/large",
			SongURL:       "https://open.spotify.com/track/1",
			ProgressMs:    61000,
			DurationMs:    200000,
		}, np)
	})

	t.Run("nothing playing", func(t *testing.T) {
		t.Parallel()

		client := newUpstream(t, domain.IntegrationSpotify, "/v1", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		svc := service.NewSpotifyService(&fakeGov{name: domain.IntegrationSpotify}, client)

		np, err := svc.NowPlaying(context.Background())
		require.NoError(t, err)
		require.Equal(t, service.NowPlaying{IsPlaying: false}, np)
	})

	t.Run("no item", func(t *testing.T) {
		t.Parallel()

		client := newUpstream(t, domain.IntegrationSpotify, "/v1", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"is_playing":true,"item":null,"currently_playing_type":"ad"}`)
		})
		svc := service.NewSpotifyService(&fakeGov{name: domain.IntegrationSpotify}, client)

		np, err := svc.NowPlaying(context.Background())
		require.NoError(t, err)
		require.False(t, np.IsPlaying)
	})
}

func TestSpotify_RecentlyPlayed(t *testing.T) {
	t.Parallel()

	var gotLimit string
	client := newUpstream(t, domain.IntegrationSpotify, "/v1", func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		writeJSON(w, http.StatusOK, `{"items":[{"played_at":"2025-03-01T10:00:00Z","track":{"name":"T","artists":[{"name":"A"}],"album":{"name":"Al"}}}]}`)
	})
	svc := service.NewSpotifyService(&fakeGov{name: domain.IntegrationSpotify}, client)

	tracks, err := svc.RecentlyPlayed(context.Background(), 500)
	require.NoError(t, err)
	require.Equal(t, "50", gotLimit)
	require.Equal(t, []service.Track{{
		Title:    "T",
		Artist:   "A",
		Album:    "Al",
		PlayedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}}, tracks)
}

func TestClampRecentLimit(t *testing.T) {
	t.Parallel()

	cases := map[int]int{-5: 10, 0: 10, 1: 1, 25: 25, 50: 50, 51: 50}
	for in, want := range cases {
		require.Equal(t, want, service.ClampRecentLimit(in), "limit %d", in)
	}
}
