package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/subham12r/portfolio/internal/portfolio/governor"
	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/internal/portfolio/upstream"
	"github.com/subham12r/portfolio/pkg/httpx"
	"github.com/subham12r/portfolio/pkg/portfoliosdk"
	"github.com/subham12r/portfolio/pkg/slogx"
)

const maxUpstreamBody = 512

// writeServiceError is the single place core errors become HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var (
		rl *upstream.RateLimitedError
		ue *upstream.UpstreamError
	)

	switch {
	case r.Context().Err() != nil && errors.Is(err, r.Context().Err()):
		// The client is gone; there is nobody to answer.
		log.Info("request canceled by client", "err", err)

	case errors.Is(err, service.ErrNoContent):
		w.WriteHeader(http.StatusNoContent)

	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidTweetURL),
		errors.Is(err, service.ErrInvalidParam):
		writeError(w, http.StatusBadRequest, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeInvalidRequest,
			ErrorDescription: err.Error(),
		})

	case errors.As(err, &rl):
		secs := max(int(math.Ceil(rl.RetryAfter.Seconds())), 1)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeError(w, http.StatusTooManyRequests, portfoliosdk.ErrorResponse{
			Error:             portfoliosdk.ErrorCodeRateLimited,
			ErrorDescription:  rl.Integration + " is throttling us, try again later",
			RetryAfterSeconds: secs,
		})

	case errors.Is(err, governor.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeNotAuthorized,
			ErrorDescription: "integration has not been authorized yet",
		})

	case errors.Is(err, governor.ErrRefreshFailed):
		log.Warn("token refresh failed", "err", err)
		writeError(w, http.StatusUnauthorized, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeRefreshFailed,
			ErrorDescription: "could not refresh the integration token",
			Reason:           oauthReason(err),
		})

	case errors.Is(err, governor.ErrExchangeFailed):
		log.Warn("code exchange failed", "err", err)
		writeError(w, http.StatusBadRequest, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeExchangeFailed,
			ErrorDescription: "the provider rejected the authorization code",
			Reason:           oauthReason(err),
		})

	case errors.Is(err, governor.ErrRevokeUpstreamFailed):
		log.Warn("upstream revoke failed, local token cleared", "err", err)
		writeError(w, http.StatusBadGateway, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeRevokeUpstreamFailed,
			ErrorDescription: "local token cleared but the provider did not confirm revocation",
			Reason:           oauthReason(err),
		})

	case errors.Is(err, upstream.ErrTimeout):
		log.Warn("upstream timed out", "err", err)
		writeError(w, http.StatusGatewayTimeout, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeUpstreamTimeout,
			ErrorDescription: err.Error(),
		})

	case errors.As(err, &ue):
		writeError(w, http.StatusBadGateway, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeUpstreamError,
			ErrorDescription: ue.Error(),
			UpstreamStatus:   ue.StatusCode,
			UpstreamBody:     truncate(string(ue.Body), maxUpstreamBody),
		})

	default:
		log.Error("unhandled service error", "err", err)
		writeError(w, http.StatusInternalServerError, portfoliosdk.ErrorResponse{
			Error:            portfoliosdk.ErrorCodeServerError,
			ErrorDescription: "internal server error",
		})
	}
}

func writeError(w http.ResponseWriter, status int, body portfoliosdk.ErrorResponse) {
	httpx.WriteJSON(w, status, body)
}

func writeInvalidRequest(w http.ResponseWriter, desc string) {
	writeError(w, http.StatusBadRequest, portfoliosdk.ErrorResponse{
		Error:            portfoliosdk.ErrorCodeInvalidRequest,
		ErrorDescription: desc,
	})
}

func oauthReason(err error) string {
	var oe *governor.OAuthError
	if errors.As(err, &oe) {
		return oe.Reason()
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
