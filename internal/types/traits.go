package types

// Trait names produced by the scorer. Scores for each are always in [0,100].
const (
	TraitTechnical         = "technical"
	TraitExtraversion      = "extraversion"
	TraitConscientiousness = "conscientiousness"
)

// NeutralScore is the documented default for a trait with no supporting signal.
// Sparse profiles land here instead of at an extreme so they do not skew group fit.
const NeutralScore = 50.0

// TraitVector holds the normalized trait scores for one person. Derived data:
// recomputed from the ProfileRecord, never mutated in place.
type TraitVector struct {
	StudentName string             `json:"student_name"`
	Scores      map[string]float64 `json:"scores"`
	Archetype   string             `json:"archetype,omitempty"` // advisory label, never feeds the numbers
}

// Score returns the named trait score, or the neutral default if the trait is absent.
func (tv *TraitVector) Score(trait string) float64 {
	if s, ok := tv.Scores[trait]; ok {
		return s
	}
	return NeutralScore
}

// ClampScore forces a raw score into the [0,100] range.
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
