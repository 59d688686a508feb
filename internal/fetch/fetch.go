package fetch

import (
	"context"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Default rate/backoff policy. The numbers are deliberately conservative for
// consumer sites that throttle aggressively.
const (
	DefaultMinInterval = 1 * time.Second
	DefaultBaseBackoff = 1 * time.Second
	DefaultMaxBackoff  = 30 * time.Second
	DefaultMaxAttempts = 3
)

// Page holds the raw content fetched from a URL.
type Page struct {
	URL        string
	HTML       string
	StatusCode int
	FetchedAt  time.Time
}

// Fetcher is the raw authenticated-fetch capability the rate-limited client wraps.
// Implementations classify failures into RateLimitedError, NetworkError, or
// AuthExpiredError; credentials and session state are managed elsewhere.
type Fetcher interface {
	FetchRaw(ctx context.Context, urlStr string) (*Page, error)
}

// Options configures the rate-limited client.
type Options struct {
	MinInterval time.Duration // minimum gap between requests to the same host
	BaseBackoff time.Duration // initial backoff after a rate-limit response
	MaxBackoff  time.Duration // backoff growth cap
	MaxAttempts int           // attempt ceiling before surfacing NetworkError
	Timeout     time.Duration // per-request timeout for HTTP fetchers
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		MinInterval: DefaultMinInterval,
		BaseBackoff: DefaultBaseBackoff,
		MaxBackoff:  DefaultMaxBackoff,
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultTimeout,
	}
}
