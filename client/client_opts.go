package client

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for API and token requests. Its
// transport is wrapped to add the access token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.base = hc
	}
}

// WithTokenSource sets the source of access tokens, bypassing the
// authentication settings in Config.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithKeyReader sets how the JWT private key is loaded.
// Defaults to os.ReadFile.
func WithKeyReader(r KeyReader) Option {
	return func(c *Client) {
		c.readKey = r
	}
}

// WithUserAgent sets the User-Agent header for requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}
