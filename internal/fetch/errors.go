// Package fetch provides rate-limited, retrying page fetching over an
// authenticated-fetch capability.
package fetch

import (
	"fmt"
	"time"
)

// RateLimitedError signals the target host throttled the request. The client
// retries these with exponential backoff.
type RateLimitedError struct {
	URL        string
	RetryAfter time.Duration // zero when the host gave no hint
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by %s (retry after %s)", e.URL, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited by %s", e.URL)
}

// NetworkError signals a transport-level or server-side failure. Transient, but
// surfaced once the retry ceiling is exhausted.
type NetworkError struct {
	URL     string
	Message string
	Cause   error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("network error for %s: %s", e.URL, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// AuthExpiredError signals the browser session is no longer authenticated for the
// host. Never retried; the orchestrator must re-authenticate.
type AuthExpiredError struct {
	URL  string
	Host string
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("authentication expired for host %s (while fetching %s)", e.Host, e.URL)
}
