package http

import (
	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/pkg/portfoliosdk"
)

func tokenStatusToSDK(s domain.TokenStatus) portfoliosdk.TokenStatus {
	return portfoliosdk.TokenStatus{
		Authorized:      s.Authorized,
		IsExpired:       s.IsExpired,
		NeedsRefresh:    s.NeedsRefresh,
		HasRefreshToken: s.HasRefreshToken,
		ExpiresAt:       s.ExpiresAt,
	}
}

func integrationStatusToSDK(s service.IntegrationStatus) portfoliosdk.IntegrationStatus {
	return portfoliosdk.IntegrationStatus{
		Integration: s.Integration,
		Token:       tokenStatusToSDK(s.Token),
		RateLimit: portfoliosdk.RateLimitState{
			Consecutive429Count: s.RateLimit.Consecutive429Count,
			BackoffUntil:        s.RateLimit.BackoffUntil,
			LastThrottledAt:     s.RateLimit.LastThrottledAt,
		},
	}
}

func nowPlayingToSDK(np service.NowPlaying) portfoliosdk.NowPlaying {
	return portfoliosdk.NowPlaying{
		IsPlaying:     np.IsPlaying,
		Title:         np.Title,
		Artist:        np.Artist,
		Album:         np.Album,
		AlbumImageURL: np.AlbumImageURL,
		SongURL:       np.SongURL,
		ProgressMs:    np.ProgressMs,
		DurationMs:    np.DurationMs,
	}
}

func tracksToSDK(tracks []service.Track) []portfoliosdk.Track {
	out := make([]portfoliosdk.Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, portfoliosdk.Track{
			Title:         t.Title,
			Artist:        t.Artist,
			Album:         t.Album,
			AlbumImageURL: t.AlbumImageURL,
			SongURL:       t.SongURL,
			PlayedAt:      t.PlayedAt,
		})
	}
	return out
}

func oembedToSDK(o service.OEmbed) portfoliosdk.OEmbed {
	return portfoliosdk.OEmbed{
		URL:          o.URL,
		AuthorName:   o.AuthorName,
		AuthorURL:    o.AuthorURL,
		HTML:         o.HTML,
		Width:        o.Width,
		Height:       o.Height,
		Type:         o.Type,
		CacheAge:     o.CacheAge,
		ProviderName: o.ProviderName,
		ProviderURL:  o.ProviderURL,
		Version:      o.Version,
	}
}
