package http

import (
	"net/http"
	"time"

	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/internal/portfolio/store"
	"github.com/subham12r/portfolio/pkg/httpx"
	"github.com/subham12r/portfolio/pkg/portfoliosdk"
)

// StatusReporter is anything that can describe its integration.
type StatusReporter interface {
	Status() service.IntegrationStatus
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	503 when the token store is unreachable. Integration token status is reported but does not affect readiness.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portfoliosdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	portfoliosdk.HealthResponse	"store unreachable"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, st store.Store, integrations []StatusReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &portfoliosdk.HealthChecks{
			Store:        "ok",
			Integrations: make(map[string]portfoliosdk.TokenStatus, len(integrations)),
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		for _, in := range integrations {
			s := in.Status()
			checks.Integrations[s.Integration] = tokenStatusToSDK(s.Token)
		}

		httpx.WriteJSON(w, statusCode, portfoliosdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
