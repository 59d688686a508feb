// Package grouping turns per-person trait vectors into group compatibility
// scores. The aggregation is pure arithmetic over trait vectors: pairwise
// compatibility for every unordered pair, an arithmetic mean for the group, and
// an advisory red-flag pass that never changes the numbers.
package grouping

import (
	"fmt"
	"math"
	"sort"

	"github.com/priya/group-scout/internal/types"
)

// TraitWeights controls how much each trait contributes to a pairwise score.
// Weights are normalized before use, so any positive scale works.
type TraitWeights map[string]float64

// DefaultTraitWeights weighs execution traits slightly above social balance.
func DefaultTraitWeights() TraitWeights {
	return TraitWeights{
		types.TraitTechnical:         0.35,
		types.TraitConscientiousness: 0.35,
		types.TraitExtraversion:      0.30,
	}
}

// Aggregator computes group fit from trait vectors.
type Aggregator struct {
	weights TraitWeights
}

// NewAggregator creates an aggregator. Nil or empty weights fall back to the
// defaults.
func NewAggregator(weights TraitWeights) *Aggregator {
	if len(weights) == 0 {
		weights = DefaultTraitWeights()
	}
	return &Aggregator{weights: weights}
}

// GroupFit scores one candidate grouping. It needs at least two members;
// pairwise scores are computed for every unordered pair and the group score is
// their arithmetic mean. Flags are attached afterwards and never feed back into
// the score.
func (a *Aggregator) GroupFit(members []*types.TraitVector) (*types.GroupFitResult, error) {
	if len(members) < 2 {
		return nil, fmt.Errorf("group fit needs at least 2 members, got %d", len(members))
	}

	result := &types.GroupFitResult{
		MemberNames: make([]string, 0, len(members)),
	}
	for _, m := range members {
		result.MemberNames = append(result.MemberNames, m.StudentName)
	}

	total := 0.0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			score := a.PairScore(members[i], members[j])
			result.Pairwise = append(result.Pairwise, types.PairScore{
				Pair:  types.NewPairKey(members[i].StudentName, members[j].StudentName),
				Score: score,
			})
			total += score
		}
	}
	result.GroupScore = total / float64(len(result.Pairwise))
	result.Flags = evaluateFlags(members)
	return result, nil
}

// PairScore computes the compatibility of two members as a weighted mean of
// per-trait pair metrics, each in [0,100]:
//
//   - conscientiousness rewards similarity: mismatched work standards are the
//     most common source of group friction.
//   - technical rewards coverage: one strong member can anchor the pair.
//   - extraversion rewards balance around the midpoint: a pair of two extremes
//     in either direction scores low.
func (a *Aggregator) PairScore(x, y *types.TraitVector) float64 {
	// Fixed trait order keeps the float summation bit-identical across runs.
	metrics := []struct {
		trait  string
		metric float64
	}{
		{types.TraitConscientiousness, similarity(
			x.Score(types.TraitConscientiousness), y.Score(types.TraitConscientiousness))},
		{types.TraitTechnical, math.Max(
			x.Score(types.TraitTechnical), y.Score(types.TraitTechnical))},
		{types.TraitExtraversion, balance(
			x.Score(types.TraitExtraversion), y.Score(types.TraitExtraversion))},
	}

	weightSum := 0.0
	weighted := 0.0
	for _, m := range metrics {
		w := a.weights[m.trait]
		if w <= 0 {
			continue
		}
		weightSum += w
		weighted += w * m.metric
	}
	if weightSum == 0 {
		return types.NeutralScore
	}
	return types.ClampScore(weighted / weightSum)
}

// SortByScore orders pairwise scores best-first, breaking ties on the pair key
// so output is stable across runs.
func SortByScore(pairs []types.PairScore) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].Pair.A != pairs[j].Pair.A {
			return pairs[i].Pair.A < pairs[j].Pair.A
		}
		return pairs[i].Pair.B < pairs[j].Pair.B
	})
}

// similarity maps the absolute gap between two scores onto [0,100], where
// identical scores give 100.
func similarity(a, b float64) float64 {
	return 100 - math.Abs(a-b)
}

// balance is highest when the pair's mean sits at the trait midpoint.
func balance(a, b float64) float64 {
	mean := (a + b) / 2
	return 100 - math.Abs(mean-50)*2
}
