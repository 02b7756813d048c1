package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/subham12r/portfolio/internal/portfolio/upstream"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

// NowPlaying is the widget-friendly view of the current track.
type NowPlaying struct {
	IsPlaying     bool   `json:"isPlaying"`
	Title         string `json:"title,omitempty"`
	Artist        string `json:"artist,omitempty"`
	Album         string `json:"album,omitempty"`
	AlbumImageURL string `json:"albumImageUrl,omitempty"`
	SongURL       string `json:"songUrl,omitempty"`
	ProgressMs    int    `json:"progressMs,omitempty"`
	DurationMs    int    `json:"durationMs,omitempty"`
}

// Track is one recently played entry.
type Track struct {
	Title         string    `json:"title"`
	Artist        string    `json:"artist"`
	Album         string    `json:"album"`
	AlbumImageURL string    `json:"albumImageUrl,omitempty"`
	SongURL       string    `json:"songUrl,omitempty"`
	PlayedAt      time.Time `json:"playedAt"`
}

// Spotify wire shapes, trimmed to what we read.
type spotifyTrack struct {
	Name         string `json:"name"`
	DurationMs   int    `json:"duration_ms"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

func (t spotifyTrack) artist() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func (t spotifyTrack) image() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

type SpotifyService struct {
	gov    TokenGovernor
	client *upstream.Client
}

func NewSpotifyService(gov TokenGovernor, client *upstream.Client) *SpotifyService {
	return &SpotifyService{gov: gov, client: client}
}

func (s *SpotifyService) Status() IntegrationStatus {
	return IntegrationStatus{
		Integration: s.gov.Name(),
		Token:       s.gov.Status(),
		RateLimit:   s.client.Guard.Snapshot(),
	}
}

// NowPlaying reports the current track. Nothing playing is not an error.
func (s *SpotifyService) NowPlaying(ctx context.Context) (NowPlaying, error) {
	var body struct {
		IsPlaying  bool          `json:"is_playing"`
		ProgressMs int           `json:"progress_ms"`
		Item       *spotifyTrack `json:"item"`
	}
	status, err := s.client.GetJSON(ctx, "/me/player/currently-playing", nil, &body)
	if err != nil {
		return NowPlaying{}, err
	}
	if status == http.StatusNoContent || body.Item == nil {
		return NowPlaying{IsPlaying: false}, nil
	}

	return NowPlaying{
		IsPlaying:     body.IsPlaying,
		Title:         body.Item.Name,
		Artist:        body.Item.artist(),
		Album:         body.Item.Album.Name,
		AlbumImageURL: body.Item.image(),
		SongURL:       body.Item.ExternalURLs.Spotify,
		ProgressMs:    body.ProgressMs,
		DurationMs:    body.Item.DurationMs,
	}, nil
}

// ClampRecentLimit maps a requested limit onto 1..MaxRecentLimit, using
// DefaultRecentLimit for zero or negative values.
func ClampRecentLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultRecentLimit
	case n > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return n
	}
}

func (s *SpotifyService) RecentlyPlayed(ctx context.Context, limit int) ([]Track, error) {
	var body struct {
		Items []struct {
			Track    spotifyTrack `json:"track"`
			PlayedAt time.Time    `json:"played_at"`
		} `json:"items"`
	}
	q := url.Values{"limit": {strconv.Itoa(ClampRecentLimit(limit))}}
	if _, err := s.client.GetJSON(ctx, "/me/player/recently-played", q, &body); err != nil {
		return nil, fmt.Errorf("spotify: recently played: %w", err)
	}

	tracks := make([]Track, 0, len(body.Items))
	for _, it := range body.Items {
		tracks = append(tracks, Track{
			Title:         it.Track.Name,
			Artist:        it.Track.artist(),
			Album:         it.Track.Album.Name,
			AlbumImageURL: it.Track.image(),
			SongURL:       it.Track.ExternalURLs.Spotify,
			PlayedAt:      it.PlayedAt,
		})
	}
	return tracks, nil
}
