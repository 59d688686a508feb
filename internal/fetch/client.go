package fetch

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// hostState tracks pacing and backoff for one target host. The per-host mutex is
// held for the whole request so at most one request per host is in flight;
// distinct hosts proceed independently.
type hostState struct {
	mu          sync.Mutex
	lastRequest time.Time
	backoff     time.Duration // zero when the host is healthy
}

// Client wraps a raw Fetcher with per-host pacing, exponential backoff on rate
// limits, and an attempt ceiling. The backoff state is owned by the Client, so
// independent pipelines can run with independent state.
type Client struct {
	raw    Fetcher
	opts   *Options
	logger *zap.Logger

	mu    sync.Mutex
	hosts map[string]*hostState
}

// NewClient creates a rate-limited client around the given raw fetcher.
func NewClient(raw Fetcher, opts *Options, logger *zap.Logger) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		raw:    raw,
		opts:   opts,
		logger: logger,
		hosts:  make(map[string]*hostState),
	}
}

// Fetch retrieves a URL through the raw fetcher, honoring the per-host minimum
// interval and backoff policy. RateLimitedError responses are retried with
// doubling delay up to MaxAttempts, then surfaced as NetworkError.
// AuthExpiredError is never retried. Delays honor ctx cancellation; an in-flight
// raw fetch is left to finish naturally.
func (c *Client) Fetch(ctx context.Context, urlStr string) (*Page, error) {
	host, err := hostOf(urlStr)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	state := c.hostState(host)
	state.mu.Lock()
	defer state.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		if err := c.pace(ctx, state); err != nil {
			return nil, err
		}

		state.lastRequest = time.Now()
		page, err := c.raw.FetchRaw(ctx, urlStr)
		if err == nil {
			state.backoff = 0
			return page, nil
		}
		lastErr = err

		var authErr *AuthExpiredError
		if errors.As(err, &authErr) {
			return nil, err
		}

		var rlErr *RateLimitedError
		if !errors.As(err, &rlErr) {
			// Plain network failure: retry without growing the backoff.
			c.logger.Debug("fetch failed, retrying",
				zap.String("url", urlStr),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		c.bumpBackoff(state, rlErr.RetryAfter)
		c.logger.Debug("rate limited, backing off",
			zap.String("host", host),
			zap.Duration("backoff", state.backoff),
			zap.Int("attempt", attempt))
	}

	return nil, &NetworkError{
		URL:     urlStr,
		Message: "retry attempts exhausted",
		Cause:   lastErr,
	}
}

// pace sleeps out the minimum inter-request interval plus any accumulated
// backoff for the host. Returns early if ctx is cancelled.
func (c *Client) pace(ctx context.Context, state *hostState) error {
	delay := state.backoff
	if !state.lastRequest.IsZero() {
		if since := time.Since(state.lastRequest); since < c.opts.MinInterval {
			delay += c.opts.MinInterval - since
		}
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// bumpBackoff doubles the host's backoff up to the cap. A Retry-After hint from
// the host overrides the doubled value when larger.
func (c *Client) bumpBackoff(state *hostState, hint time.Duration) {
	next := state.backoff * 2
	if state.backoff == 0 {
		next = c.opts.BaseBackoff
	}
	if hint > next {
		next = hint
	}
	if next > c.opts.MaxBackoff {
		next = c.opts.MaxBackoff
	}
	state.backoff = next
}

// Backoff returns the current backoff for a host. Zero means healthy.
func (c *Client) Backoff(host string) time.Duration {
	state := c.hostState(host)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.backoff
}

func (c *Client) hostState(host string) *hostState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.hosts[host]
	if !ok {
		state = &hostState{}
		c.hosts[host] = state
	}
	return state
}

func hostOf(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", errors.New("URL has no host")
	}
	return parsed.Host, nil
}
