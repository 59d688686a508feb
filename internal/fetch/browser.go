// Package fetch - browser.go provides the headless-browser implementation of the
// raw Fetcher for hosts that require an authenticated session and client-side
// rendering. Requires Chrome/Chromium on the system.
package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// renderSettle is how long the browser waits for client-side rendering after
// the body is ready. Profile pages load experience and skills sections lazily.
const renderSettle = 3 * time.Second

// BrowserFetcher renders pages in a headless browser using an existing Chrome
// user-data directory, so it rides whatever session the operator logged in with.
type BrowserFetcher struct {
	userDataDir string
	timeout     time.Duration
}

// NewBrowserFetcher creates a browser-backed fetcher. userDataDir may be empty
// for a fresh (unauthenticated) profile, which only works on public pages.
func NewBrowserFetcher(userDataDir string, timeout time.Duration) *BrowserFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BrowserFetcher{userDataDir: userDataDir, timeout: timeout}
}

// FetchRaw navigates to the URL, waits for rendering, and returns the rendered
// HTML. Landing on a login or challenge page is classified as AuthExpired.
func (b *BrowserFetcher) FetchRaw(ctx context.Context, urlStr string) (*Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
	)
	if b.userDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(b.userDataDir))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	var html, finalURL string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderSettle),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}

	if wall, host := redirectedToLogin(finalURL); wall {
		return nil, &AuthExpiredError{URL: urlStr, Host: host}
	}

	return &Page{
		URL:        urlStr,
		HTML:       html,
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}, nil
}

func redirectedToLogin(finalURL string) (bool, string) {
	host, err := hostOf(finalURL)
	if err != nil {
		return false, ""
	}
	for _, marker := range loginWallMarkers {
		if strings.Contains(finalURL, marker) {
			return true, host
		}
	}
	return false, ""
}
