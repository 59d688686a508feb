package matching

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/priya/group-scout/internal/fetch"
	"github.com/priya/group-scout/internal/search"
	"github.com/priya/group-scout/internal/types"
)

// DefaultConfidenceThreshold is the promotion gate when none is configured.
const DefaultConfidenceThreshold = 0.65

// Resolver turns roster entries into resolved profiles or unresolved records.
type Resolver struct {
	source    search.Source
	threshold float64
	logger    *zap.Logger
}

// NewResolver creates a resolver over the given candidate source. A threshold
// outside (0,1] falls back to the default.
func NewResolver(source search.Source, threshold float64, logger *zap.Logger) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultConfidenceThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{source: source, threshold: threshold, logger: logger}
}

// Resolve searches for the entry and promotes the best candidate if it clears
// the confidence threshold. Search failures yield an Unresolved resolution, not
// an error; the only error returned is AuthExpired, which the orchestrator must
// escalate for the whole run.
func (r *Resolver) Resolve(ctx context.Context, entry types.RosterEntry) (*types.Resolution, error) {
	resolution := &types.Resolution{Entry: entry, Status: types.StatusUnresolved}

	candidates, err := r.source.Search(ctx, search.Query{
		Name:        entry.StudentName,
		Institution: entry.CourseContext,
	})
	if err != nil {
		var authErr *fetch.AuthExpiredError
		if errors.As(err, &authErr) {
			return nil, err
		}
		r.logger.Warn("candidate search failed",
			zap.String("student", entry.StudentName),
			zap.Error(err))
		resolution.Reason = types.ReasonFetchFailed
		return resolution, nil
	}

	if len(candidates) == 0 {
		resolution.Reason = types.ReasonNoCandidates
		return resolution, nil
	}

	best := RankCandidates(candidates, entry.StudentName, entry.CourseContext)
	resolution.Best = &best.Candidate
	resolution.Confidence = best.Combined

	if best.Combined > r.threshold {
		resolution.Status = types.StatusResolved
		resolution.ProfileURL = best.Candidate.ProfileURL
		r.logger.Debug("resolved profile",
			zap.String("student", entry.StudentName),
			zap.String("url", resolution.ProfileURL),
			zap.Float64("confidence", best.Combined))
	} else {
		// Below threshold is a designed outcome, not an error. The best
		// candidate stays on the record for audit.
		resolution.Reason = types.ReasonLowConfidence
		r.logger.Debug("no candidate above threshold",
			zap.String("student", entry.StudentName),
			zap.Float64("best", best.Combined),
			zap.Float64("threshold", r.threshold))
	}
	return resolution, nil
}

// RankCandidates scores every candidate and returns the winner. Ordering:
// higher combined score wins; on a combined tie, the higher name tier wins; on
// an equal tier, higher context overlap wins; on a full tie, the first-listed
// result wins (iteration replaces only on strict improvement).
func RankCandidates(candidates []types.MatchCandidate, name, context string) Scored {
	best := ScoreCandidate(candidates[0], name, context)
	for _, candidate := range candidates[1:] {
		scored := ScoreCandidate(candidate, name, context)
		if beats(scored, best) {
			best = scored
		}
	}
	return best
}

func beats(a, b Scored) bool {
	if a.Combined != b.Combined {
		return a.Combined > b.Combined
	}
	if a.Tier != b.Tier {
		return a.Tier > b.Tier
	}
	return a.ContextOverlap > b.ContextOverlap
}
