/*
Package portfoliosdk is a client for the portfolio backend API.

# Overview

A Client talks to the public widget endpoints without credentials and to
the owner endpoints with an admin JWT (see pkg/jwtx and `portfolioctl token
mint`):

	client := portfoliosdk.NewClient("https://api.example.com", adminToken)

	// Public
	np, err := client.SpotifyNowPlaying(ctx)
	stats, err := client.WakaTimeStats(ctx, "last_7_days")

	// Owner only
	auth, err := client.WakaTimeAuthorizeURL(ctx)
	fmt.Println("visit", auth.AuthorizeURL)

# Errors

Every non-2xx reply decodes into an *APIError. Throttled calls carry the
server's Retry-After:

	_, err := client.WakaTimeStats(ctx, "all_time")
	var apiErr *portfoliosdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == portfoliosdk.ErrorCodeRateLimited {
		time.Sleep(apiErr.RetryAfter)
	}

A 204 from a proxied endpoint means the upstream had nothing to show. The
corresponding method returns a nil result and a nil error.
*/
package portfoliosdk
