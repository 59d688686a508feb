// Package matching ranks candidate profiles against a roster entry and promotes
// the best one only when it clears the configured confidence threshold.
package matching

import (
	"strings"

	"github.com/priya/group-scout/internal/types"
)

// NameTier grades how well a candidate's display name matches the roster name.
type NameTier int

const (
	// TierNone means the names do not plausibly refer to the same person.
	TierNone NameTier = iota
	// TierInitials means the surname matches and given names match by initial
	// ("J. Lee" vs "Jordan Lee").
	TierInitials
	// TierPartial means the surname matches and at least one given name matches
	// in full, but the names are not token-identical.
	TierPartial
	// TierExact means the token sets are identical ignoring case and order.
	TierExact
)

// Component weights for the combined candidate score. When the roster entry
// carries no context at all, the name fraction stands alone (see Combined).
const (
	nameWeight    = 0.6
	contextWeight = 0.4
)

// contextStopwords are tokens too generic to count as context evidence.
// Institution words like "university" are kept: they are the signal.
var contextStopwords = map[string]bool{
	"the": true, "of": true, "at": true, "and": true, "a": true, "an": true,
}

// Scored carries a candidate with its scoring breakdown, used for ranking and
// for the audit trail on unresolved entries.
type Scored struct {
	Candidate      types.MatchCandidate
	Tier           NameTier
	ContextOverlap float64
	Combined       float64
}

// ScoreCandidate grades one candidate against the roster name and context.
func ScoreCandidate(candidate types.MatchCandidate, name, context string) Scored {
	tier, nameEvidence := GradeName(name, candidate.DisplayName)
	overlap, contextEvidence := ContextOverlap(context, candidate.HeadlineText)

	scored := Scored{
		Candidate:      candidate,
		Tier:           tier,
		ContextOverlap: overlap,
		Combined:       Combined(tier, overlap, context != ""),
	}
	scored.Candidate.MatchScore = scored.Combined
	scored.Candidate.EvidenceTerms = append(nameEvidence, contextEvidence...)
	return scored
}

// tierFractions maps each name tier to its share of the name component. The
// drop from exact to initials is deliberately steep: an exact name with zero
// context evidence still outscores an initials match with full context.
var tierFractions = map[NameTier]float64{
	TierExact:    1.0,
	TierPartial:  0.6,
	TierInitials: 0.3,
	TierNone:     0,
}

// Combined blends the name tier and context overlap into a 0-1 score. Entries
// without context are scored on the name alone rather than being capped at the
// name weight, so a context-free roster can still resolve exact matches.
func Combined(tier NameTier, overlap float64, hasContext bool) float64 {
	if !hasContext {
		return tierFractions[tier]
	}
	return nameWeight*tierFractions[tier] + contextWeight*overlap
}

// GradeName assigns the name tier and returns the matched tokens as evidence.
func GradeName(rosterName, displayName string) (NameTier, []string) {
	roster := nameTokens(rosterName)
	display := nameTokens(displayName)
	if len(roster) == 0 || len(display) == 0 {
		return TierNone, nil
	}

	if sameTokenSet(roster, display) {
		return TierExact, display
	}

	// Surname anchor: last token of each side.
	if roster[len(roster)-1] != display[len(display)-1] {
		return TierNone, nil
	}
	surname := roster[len(roster)-1]

	rosterGiven := roster[:len(roster)-1]
	displayGiven := display[:len(display)-1]
	for _, rg := range rosterGiven {
		for _, dg := range displayGiven {
			if rg == dg {
				return TierPartial, []string{dg, surname}
			}
		}
	}
	for _, rg := range rosterGiven {
		for _, dg := range displayGiven {
			if initialsMatch(rg, dg) {
				return TierInitials, []string{dg, surname}
			}
		}
	}

	return TierNone, nil
}

// ContextOverlap measures the fraction of context tokens found in the
// candidate's headline/education text.
func ContextOverlap(context, headline string) (float64, []string) {
	tokens := contextTokens(context)
	if len(tokens) == 0 {
		return 0, nil
	}

	haystack := strings.ToLower(headline)
	matched := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			matched = append(matched, token)
		}
	}
	return float64(len(matched)) / float64(len(tokens)), matched
}

func nameTokens(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func contextTokens(context string) []string {
	fields := strings.Fields(strings.ToLower(context))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:")
		if f == "" || contextStopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func sameTokenSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, t := range a {
		seen[t]++
	}
	for _, t := range b {
		if seen[t] == 0 {
			return false
		}
		seen[t]--
	}
	return true
}

// initialsMatch reports whether one token is the initial of the other
// ("j" matches "jordan").
func initialsMatch(a, b string) bool {
	if len(a) == 1 && len(b) > 1 {
		return a[0] == b[0]
	}
	if len(b) == 1 && len(a) > 1 {
		return a[0] == b[0]
	}
	return false
}
