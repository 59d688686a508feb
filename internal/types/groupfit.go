package types

// Red-flag codes attached by the aggregator. Flags are advisory annotations; they
// never alter the numeric group score.
const (
	FlagAllLowConscientiousness = "ALL_LOW_CONSCIENTIOUSNESS"
	FlagNoDriver                = "NO_DRIVER"
	FlagAllHighExtraversion     = "ALL_HIGH_EXTRAVERSION"
	FlagNoTechnicalAnchor       = "NO_TECHNICAL_ANCHOR"
)

// PairKey identifies an unordered pair of members. Names are stored in
// lexicographic order so (a,b) and (b,a) are the same key.
type PairKey struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPairKey builds a canonical key for two member names.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// PairScore is one pairwise compatibility score.
type PairScore struct {
	Pair  PairKey `json:"pair"`
	Score float64 `json:"score"`
}

// GroupFitResult is the aggregator's output for one candidate grouping. Recomputed
// per grouping, not persisted by the core.
type GroupFitResult struct {
	MemberNames []string    `json:"member_names"`
	Pairwise    []PairScore `json:"pairwise_scores"`
	GroupScore  float64     `json:"group_score"`
	Flags       []string    `json:"flags,omitempty"`
}
