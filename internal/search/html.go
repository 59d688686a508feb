package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/priya/group-scout/internal/fetch"
	"github.com/priya/group-scout/internal/types"
)

// DefaultSearchURL is the web-search endpoint the HTML source scrapes.
const DefaultSearchURL = "https://www.bing.com/search"

// HTMLSource scrapes a search engine's result page through the rate-limited
// fetch client. The DOM traversal is strict: the result list, then each organic
// result block, then its primary link. Anything that doesn't match is dropped.
type HTMLSource struct {
	client    *fetch.Client
	searchURL string
}

// NewHTMLSource creates an HTML-scraping source backed by the given client.
func NewHTMLSource(client *fetch.Client, searchURL string) *HTMLSource {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &HTMLSource{client: client, searchURL: searchURL}
}

// Search fetches the result page and normalizes its organic results.
func (s *HTMLSource) Search(ctx context.Context, q Query) ([]types.MatchCandidate, error) {
	page, err := s.client.Fetch(ctx, s.queryURL(q))
	if err != nil {
		return nil, err
	}
	return ParseResultsPage(page.HTML)
}

func (s *HTMLSource) queryURL(q Query) string {
	params := url.Values{}
	params.Set("q", q.String())
	params.Set("setmkt", "en-US")
	return s.searchURL + "?" + params.Encode()
}

// ParseResultsPage extracts candidates from a search-results page. Results whose
// link does not point at a profile page are skipped.
func ParseResultsPage(html string) ([]types.MatchCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	candidates := make([]types.MatchCandidate, 0)
	doc.Find("ol#b_results li.b_algo").Each(func(_ int, result *goquery.Selection) {
		link := result.Find("h2 a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			// Some result layouts put the link in the attribution block instead.
			link = result.Find("div.b_tpcn a").First()
			href, ok = link.Attr("href")
		}
		if !ok || !strings.Contains(href, ProfilePathMarker) {
			return
		}

		title := strings.TrimSpace(result.Find("h2").First().Text())
		snippet := strings.TrimSpace(result.Find("p").First().Text())
		name, headline := SplitResultTitle(title)

		candidates = append(candidates, types.MatchCandidate{
			ProfileURL:   normalizeProfileURL(href),
			DisplayName:  name,
			HeadlineText: joinHeadline(headline, snippet),
		})
	})

	return candidates, nil
}

// SplitResultTitle splits a result title like "Jordan Lee - Software Engineer |
// LinkedIn" into display name and headline remainder.
func SplitResultTitle(title string) (name, headline string) {
	title = strings.TrimSpace(title)
	if idx := strings.LastIndex(title, "|"); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}
	if idx := strings.Index(title, " - "); idx >= 0 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
	}
	return title, ""
}

func joinHeadline(headline, snippet string) string {
	switch {
	case headline == "":
		return snippet
	case snippet == "":
		return headline
	default:
		return headline + " · " + snippet
	}
}

// normalizeProfileURL strips query params and fragments so the same profile
// always maps to the same URL.
func normalizeProfileURL(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimSuffix(parsed.String(), "/")
}
