package fetch

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// defaultUserAgents is the rotation pool for plain HTTP requests. Rotation is
// round-robin rather than random so request sequences stay reproducible.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// loginWallMarkers identify redirects or challenge pages that mean the session
// is no longer authenticated.
var loginWallMarkers = []string{
	"/login",
	"/authwall",
	"/checkpoint/challenge",
}

// HTTPFetcher is the plain net/http implementation of the raw Fetcher. It is
// used for search-result pages and any host that serves content without a
// browser session.
type HTTPFetcher struct {
	client     *http.Client
	userAgents []string
	next       atomic.Uint64
	headers    map[string]string
}

// NewHTTPFetcher creates an HTTP fetcher with the given timeout. Extra headers
// (e.g., session cookies injected by the auth collaborator) apply to every request.
func NewHTTPFetcher(timeout time.Duration, headers map[string]string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		userAgents: defaultUserAgents,
		headers:    headers,
	}
}

// FetchRaw performs a GET and classifies the outcome into the fetch error taxonomy.
func (f *HTTPFetcher) FetchRaw(ctx context.Context, urlStr string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", f.userAgent())
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:        urlStr,
		HTML:       string(bodyBytes),
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}

	if err := classifyStatus(resp, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (f *HTTPFetcher) userAgent() string {
	n := f.next.Add(1) - 1
	return f.userAgents[n%uint64(len(f.userAgents))]
}

// classifyStatus maps an HTTP response to the error taxonomy. 429 (and the 999
// code some profile sites use for throttling) is RateLimited; 401/403 and
// login-wall redirects are AuthExpired; anything else non-2xx is a NetworkError.
func classifyStatus(resp *http.Response, page *Page) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 999:
		return &RateLimitedError{URL: page.URL, RetryAfter: retryAfter(resp)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthExpiredError{URL: page.URL, Host: resp.Request.URL.Host}
	case resp.StatusCode >= 300:
		return &NetworkError{URL: page.URL, Message: "HTTP status " + strconv.Itoa(resp.StatusCode)}
	}

	// The request may have been silently redirected to a login wall.
	if final := resp.Request.URL; final != nil && isLoginWall(final.Path) {
		return &AuthExpiredError{URL: page.URL, Host: final.Host}
	}
	return nil
}

func isLoginWall(path string) bool {
	for _, marker := range loginWallMarkers {
		if strings.HasPrefix(path, marker) {
			return true
		}
	}
	return false
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
