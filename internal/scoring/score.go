package scoring

import (
	"github.com/priya/group-scout/internal/types"
)

// Scorer computes trait vectors from profile records using a rule table.
type Scorer struct {
	table RuleTable
}

// NewScorer creates a scorer. A nil table uses the default rules.
func NewScorer(table RuleTable) *Scorer {
	if table == nil {
		table = DefaultRuleTable()
	}
	return &Scorer{table: table}
}

// Score computes the trait vector for one person. For each trait, features with
// input contribute weight*value; a trait whose features all lack input lands on
// the neutral default instead of zero. Scores are clamped to [0,100].
func (s *Scorer) Score(studentName string, record *types.ProfileRecord) *types.TraitVector {
	scores := make(map[string]float64, len(s.table))
	for trait, features := range s.table {
		scores[trait] = scoreTrait(features, record)
	}

	return &types.TraitVector{
		StudentName: studentName,
		Scores:      scores,
		Archetype:   ClassifyArchetype(record),
	}
}

func scoreTrait(features []Feature, record *types.ProfileRecord) float64 {
	total := 0.0
	signaled := false
	for _, f := range features {
		value, ok := f.Eval(record)
		if !ok {
			continue
		}
		signaled = true
		total += f.Weight * value
	}

	if !signaled {
		return types.NeutralScore
	}
	return types.ClampScore(total)
}
