package http

import (
	"net/http"

	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/pkg/httpx"
	"github.com/subham12r/portfolio/pkg/portfoliosdk"
	"github.com/subham12r/portfolio/pkg/slogx"
)

// WakaTimeHandler serves the /v1/wakatime endpoints.
type WakaTimeHandler struct {
	Service *service.WakaTimeService
}

// HandleAuthorize handles GET /v1/wakatime/authorize
//
//	@Summary		Start WakaTime authorization
//	@Description	Issues a single-use state and returns the provider consent URL for the owner to visit.
//	@Tags			WakaTime
//	@Produce		json
//	@Success		200	{object}	portfoliosdk.AuthorizeURLResponse
//	@Failure		401	{object}	portfoliosdk.ErrorResponse	"missing or invalid admin token"
//	@Failure		403	{object}	portfoliosdk.ErrorResponse	"requires portfolio:admin scope"
//	@Security		BearerAuth
//	@Router			/v1/wakatime/authorize [get]
func (h *WakaTimeHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.AuthorizeURL(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("wakatime authorization started",
		"subject", httpx.SubjectFromContext(r.Context()),
		"state_expires_at", req.ExpiresAt,
	)
	httpx.WriteJSON(w, http.StatusOK, portfoliosdk.AuthorizeURLResponse{
		AuthorizeURL: req.URL,
		State:        req.State,
		ExpiresAt:    req.ExpiresAt,
	})
}

// HandleCallback handles GET /v1/wakatime/callback
//
//	@Summary		WakaTime OAuth redirect target
//	@Description	Validates the state, exchanges the code and reports the resulting token status.
//	@Tags			WakaTime
//	@Produce		json
//	@Param			code	query		string	false	"Authorization code"
//	@Param			state	query		string	true	"State from the authorize step"
//	@Param			error	query		string	false	"Provider error, e.g. access_denied"
//	@Success		200		{object}	portfoliosdk.TokenStatus
//	@Failure		400		{object}	portfoliosdk.ErrorResponse	"invalid state, denied consent or rejected code"
//	@Router			/v1/wakatime/callback [get]
func (h *WakaTimeHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		desc := "authorization was not granted: " + providerErr
		if d := q.Get("error_description"); d != "" {
			desc += ": " + d
		}
		writeInvalidRequest(w, desc)
		return
	}

	code := q.Get("code")
	if code == "" {
		writeInvalidRequest(w, "missing code")
		return
	}

	status, err := h.Service.Callback(r.Context(), q.Get("state"), code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("wakatime authorized", "expires_at", status.ExpiresAt)
	httpx.WriteJSON(w, http.StatusOK, tokenStatusToSDK(status))
}

// HandleStatus handles GET /v1/wakatime/status
//
//	@Summary		WakaTime integration status
//	@Tags			WakaTime
//	@Produce		json
//	@Success		200	{object}	portfoliosdk.IntegrationStatus
//	@Router			/v1/wakatime/status [get]
func (h *WakaTimeHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, integrationStatusToSDK(h.Service.Status()))
}

// HandleRefresh handles POST /v1/wakatime/refresh
//
//	@Summary		Force a WakaTime token refresh
//	@Tags			WakaTime
//	@Produce		json
//	@Success		200	{object}	portfoliosdk.TokenStatus
//	@Failure		401	{object}	portfoliosdk.ErrorResponse	"refresh_failed or invalid admin token"
//	@Failure		403	{object}	portfoliosdk.ErrorResponse	"requires portfolio:admin scope"
//	@Security		BearerAuth
//	@Router			/v1/wakatime/refresh [post]
func (h *WakaTimeHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.Refresh(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenStatusToSDK(status))
}

// HandleRevoke handles POST /v1/wakatime/revoke
//
//	@Summary		Revoke the WakaTime token
//	@Description	The local token is cleared even when the provider does not confirm.
//	@Tags			WakaTime
//	@Success		204
//	@Failure		502	{object}	portfoliosdk.ErrorResponse	"revoke_upstream_failed"
//	@Security		BearerAuth
//	@Router			/v1/wakatime/revoke [post]
func (h *WakaTimeHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Revoke(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	slogx.FromContext(r.Context()).Info("wakatime token revoked", "subject", httpx.SubjectFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats handles GET /v1/wakatime/stats/{range}
//
//	@Summary		WakaTime stats for a range
//	@Tags			WakaTime
//	@Produce		json
//	@Param			range	path		string	true	"Stats range"	Enums(last_7_days, last_30_days, last_6_months, last_year, all_time)
//	@Success		200		{object}	object	"WakaTime stats document"
//	@Success		204		"nothing computed yet"
//	@Failure		400		{object}	portfoliosdk.ErrorResponse
//	@Failure		429		{object}	portfoliosdk.ErrorResponse	"upstream cooling down"
//	@Failure		502		{object}	portfoliosdk.ErrorResponse
//	@Router			/v1/wakatime/stats/{range} [get]
func (h *WakaTimeHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Stats(r.Context(), r.PathValue("range"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, data)
}

// HandleAllTime handles GET /v1/wakatime/all-time
//
//	@Summary		Total coding time since account creation
//	@Tags			WakaTime
//	@Produce		json
//	@Success		200	{object}	object
//	@Failure		429	{object}	portfoliosdk.ErrorResponse
//	@Router			/v1/wakatime/all-time [get]
func (h *WakaTimeHandler) HandleAllTime(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.AllTimeSinceToday(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, data)
}

// HandleToday handles GET /v1/wakatime/today
//
//	@Summary		Today's status bar summary
//	@Tags			WakaTime
//	@Produce		json
//	@Success		200	{object}	object
//	@Failure		429	{object}	portfoliosdk.ErrorResponse
//	@Router			/v1/wakatime/today [get]
func (h *WakaTimeHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.StatusBarToday(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, data)
}
