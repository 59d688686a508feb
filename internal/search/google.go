package search

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/priya/group-scout/internal/types"
)

// maxCSEResults is how many results per query the CSE source requests.
const maxCSEResults = 5

// CSESource uses the Google Custom Search API as the candidate source. It avoids
// scraping the search engine entirely, at the cost of API quota.
type CSESource struct {
	svc *customsearch.Service
	cx  string
}

// NewCSESource creates a Custom Search-backed source.
func NewCSESource(ctx context.Context, apiKey, cx string) (*CSESource, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &CSESource{svc: svc, cx: cx}, nil
}

// Search runs the query and normalizes API items into candidates.
func (s *CSESource) Search(ctx context.Context, q Query) ([]types.MatchCandidate, error) {
	resp, err := s.svc.Cse.List().Context(ctx).Cx(s.cx).Q(q.String()).Num(maxCSEResults).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	candidates := make([]types.MatchCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if !strings.Contains(item.Link, ProfilePathMarker) {
			continue
		}
		name, headline := SplitResultTitle(item.Title)
		candidates = append(candidates, types.MatchCandidate{
			ProfileURL:   normalizeProfileURL(item.Link),
			DisplayName:  name,
			HeadlineText: joinHeadline(headline, item.Snippet),
		})
	}
	return candidates, nil
}
