// Package search turns a student name plus weak context into a list of candidate
// profiles. Site-specific result shapes are normalized into types.MatchCandidate
// at this boundary; the matching algorithm never sees raw search markup.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/priya/group-scout/internal/types"
)

// ProfilePathMarker identifies links that point at an individual profile page.
const ProfilePathMarker = "linkedin.com/in"

// Query is the composed search input for one roster entry.
type Query struct {
	Name        string
	Institution string // may be empty for partial roster entries
}

// String renders the query the way the web search expects it: quoted name,
// quoted institution, restricted to profile pages.
func (q Query) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q", q.Name)
	if q.Institution != "" {
		fmt.Fprintf(&sb, " %q", q.Institution)
	}
	sb.WriteString(" site:" + ProfilePathMarker + "/")
	return sb.String()
}

// Source produces candidate profiles for a query, in the order the search engine
// listed them. Order matters: the matcher's final tie-break is first-listed-wins.
type Source interface {
	Search(ctx context.Context, q Query) ([]types.MatchCandidate, error)
}
