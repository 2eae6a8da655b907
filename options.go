package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/numopay/client-go/internal/signing"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.numopay.com"

// DefaultVersion is the access-token protocol version sent by default.
const DefaultVersion = signing.DefaultVersion

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the *http.Client used for requests. Timeouts, proxies
// and connection reuse are configured there; the client adds none of its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock sets the time source used to timestamp access tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.clock = now
	}
}

// WithVersion overrides the access-token protocol version. It must match what
// the server expects.
func WithVersion(v string) Option {
	return func(c *Client) {
		c.version = v
	}
}

// WithLogger enables debug logging of each request's method, path, status and
// latency. Credentials and bodies are never logged.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}
