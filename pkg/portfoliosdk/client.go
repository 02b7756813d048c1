package portfoliosdk

import (
	"net/http"
	"strings"
	"time"
)

// Client calls the portfolio API. Token is the admin JWT used for owner
// endpoints; public endpoints work without it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewClient returns a Client with a 10 second HTTP timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Token: token,
	}
}
