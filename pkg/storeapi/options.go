package storeapi

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithBaseURL sets the backend API base URL.
// If not set, defaults to the MERIDIAN_API_URL environment variable.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP request timeout.
// If not set, defaults to 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client for making requests.
// This is useful for testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets the function consulted for the bearer access
// credential on every request. Returning ok=false sends the request
// unauthenticated. The session layer wires its current token here so the
// client never stores credentials itself.
func WithTokenSource(src func() (token string, ok bool)) Option {
	return func(c *Client) {
		c.tokenSource = src
	}
}

// WithStaticToken sets a fixed bearer token. Mostly useful in tests; real
// callers should prefer WithTokenSource so logins and logouts take effect
// without rebuilding the client.
func WithStaticToken(token string) Option {
	return func(c *Client) {
		c.tokenSource = func() (string, bool) { return token, token != "" }
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used to create
// a span around every request. Defaults to a no-op tracer.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer("storeapi")
	}
}
