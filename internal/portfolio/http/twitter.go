package http

import (
	"net/http"
	"strconv"

	"github.com/subham12r/portfolio/internal/portfolio/service"
	"github.com/subham12r/portfolio/pkg/httpx"
)

// TwitterHandler serves GET /v1/twitter/oembed.
type TwitterHandler struct {
	Service *service.TwitterService
}

// ServeHTTP godoc
//
//	@Summary		Tweet embed markup
//	@Tags			Twitter
//	@Produce		json
//	@Param			url			query		string	true	"https twitter.com or x.com status URL"
//	@Param			theme		query		string	false	"Widget theme"	Enums(light, dark)
//	@Param			omit_script	query		bool	false	"Leave out the widgets.js script tag"
//	@Success		200			{object}	portfoliosdk.OEmbed
//	@Failure		400			{object}	portfoliosdk.ErrorResponse
//	@Failure		502			{object}	portfoliosdk.ErrorResponse
//	@Router			/v1/twitter/oembed [get]
func (h *TwitterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tweetURL := q.Get("url")
	if tweetURL == "" {
		writeInvalidRequest(w, "missing url")
		return
	}

	opts := service.EmbedOptions{Theme: q.Get("theme")}
	if raw := q.Get("omit_script"); raw != "" {
		omit, err := strconv.ParseBool(raw)
		if err != nil {
			writeInvalidRequest(w, "omit_script must be a boolean")
			return
		}
		opts.OmitScript = omit
	}

	out, err := h.Service.Embed(r.Context(), tweetURL, opts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, oembedToSDK(out))
}
