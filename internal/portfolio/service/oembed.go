package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/subham12r/portfolio/internal/portfolio/upstream"
)

var tweetHosts = map[string]bool{
	"twitter.com":        true,
	"www.twitter.com":    true,
	"mobile.twitter.com": true,
	"x.com":              true,
	"www.x.com":          true,
}

// EmbedOptions are forwarded to the oEmbed endpoint.
type EmbedOptions struct {
	Theme      string // "", "light" or "dark"
	OmitScript bool
}

// OEmbed is the publish.twitter.com response.
type OEmbed struct {
	URL          string `json:"url"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	HTML         string `json:"html"`
	Width        int    `json:"width,omitempty"`
	Height       *int   `json:"height,omitempty"`
	Type         string `json:"type"`
	CacheAge     string `json:"cache_age,omitempty"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	Version      string `json:"version"`
}

type TwitterService struct {
	client *upstream.Client
}

// NewTwitterService takes a client whose BaseURL is the oEmbed endpoint.
func NewTwitterService(client *upstream.Client) *TwitterService {
	return &TwitterService{client: client}
}

// ValidateTweetURL accepts https twitter.com and x.com URLs with a path.
func ValidateTweetURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" || !tweetHosts[strings.ToLower(u.Hostname())] {
		return ErrInvalidTweetURL
	}
	if strings.Trim(u.Path, "/") == "" {
		return ErrInvalidTweetURL
	}
	return nil
}

func (s *TwitterService) Embed(ctx context.Context, tweetURL string, opts EmbedOptions) (OEmbed, error) {
	if err := ValidateTweetURL(tweetURL); err != nil {
		return OEmbed{}, err
	}

	q := url.Values{"url": {strings.TrimSpace(tweetURL)}}
	switch opts.Theme {
	case "":
	case "light", "dark":
		q.Set("theme", opts.Theme)
	default:
		return OEmbed{}, fmt.Errorf("%w: theme must be light or dark", ErrInvalidParam)
	}
	if opts.OmitScript {
		q.Set("omit_script", strconv.FormatBool(true))
	}

	var out OEmbed
	if _, err := s.client.GetJSON(ctx, "", q, &out); err != nil {
		return OEmbed{}, err
	}
	return out, nil
}
