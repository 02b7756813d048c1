package http

import (
	"net/http"
	"strconv"

	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/pkg/httpx"
	"github.com/subham12r/portfolio/pkg/portfoliosdk"
)

// SpotifyHandler serves the /v1/spotify endpoints.
type SpotifyHandler struct {
	Service *service.SpotifyService
}

// HandleNowPlaying handles GET /v1/spotify/now-playing
//
//	@Summary		Currently playing track
//	@Description	isPlaying is false when nothing is playing.
//	@Tags			Spotify
//	@Produce		json
//	@Success		200	{object}	portfoliosdk.NowPlaying
//	@Failure		401	{object}	portfoliosdk.ErrorResponse	"integration not authorized"
//	@Failure		429	{object}	portfoliosdk.ErrorResponse
//	@Router			/v1/spotify/now-playing [get]
func (h *SpotifyHandler) HandleNowPlaying(w http.ResponseWriter, r *http.Request) {
	np, err := h.Service.NowPlaying(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, nowPlayingToSDK(np))
}

// HandleRecentlyPlayed handles GET /v1/spotify/recently-played
//
//	@Summary		Recently played tracks
//	@Tags			Spotify
//	@Produce		json
//	@Param			limit	query		int	false	"1 to 50, default 10"
//	@Success		200		{object}	portfoliosdk.RecentlyPlayedResponse
//	@Failure		400		{object}	portfoliosdk.ErrorResponse
//	@Failure		429		{object}	portfoliosdk.ErrorResponse
//	@Router			/v1/spotify/recently-played [get]
func (h *SpotifyHandler) HandleRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeInvalidRequest(w, "limit must be an integer")
			return
		}
		limit = n
	}

	tracks, err := h.Service.RecentlyPlayed(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, portfoliosdk.RecentlyPlayedResponse{Tracks: tracksToSDK(tracks)})
}

// HandleStatus handles GET /v1/spotify/status
//
//	@Summary		Spotify integration status
//	@Tags			Spotify
//	@Produce		json
//	@Success		200	{object}	portfoliosdk.IntegrationStatus
//	@Router			/v1/spotify/status [get]
func (h *SpotifyHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, integrationStatusToSDK(h.Service.Status()))
}
