package portfoliosdk

import (
	"context"
	"net/http"
	"net/url"
)

// TwitterOEmbed returns the embed markup for a tweet URL.
func (c *Client) TwitterOEmbed(ctx context.Context, tweetURL string, opts OEmbedOptions) (*OEmbed, error) {
	q := url.Values{"url": {tweetURL}}
	if opts.Theme != "" {
		q.Set("theme", opts.Theme)
	}
	if opts.OmitScript {
		q.Set("omit_script", "true")
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/twitter/oembed", q, false)
	if err != nil {
		return nil, err
	}

	var out OEmbed
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
