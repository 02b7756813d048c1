package http

import (
	"net/http"
	"time"

	"github.com/subham12r/portfolio/pkg/httpx"
	"github.com/subham12r/portfolio/pkg/portfoliosdk"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving. Includes uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portfoliosdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, portfoliosdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
