package types

// MatchCandidate represents one search result normalized into the fixed candidate
// shape. Site-specific result parsing happens at the search boundary; everything
// downstream sees only this.
type MatchCandidate struct {
	ProfileURL    string   `json:"profile_url"`
	DisplayName   string   `json:"display_name"`
	HeadlineText  string   `json:"headline_text,omitempty"`
	MatchScore    float64  `json:"match_score"` // 0-1, filled in by the matcher
	EvidenceTerms []string `json:"evidence_terms,omitempty"`
}

// ResolutionStatus describes the outcome of resolving one roster entry.
type ResolutionStatus string

const (
	// StatusResolved means a candidate cleared the confidence threshold.
	StatusResolved ResolutionStatus = "resolved"
	// StatusUnresolved means no candidate cleared the threshold or search failed.
	StatusUnresolved ResolutionStatus = "unresolved"
	// StatusFailedAuth means the entry was abandoned after an auth expiry on its host.
	StatusFailedAuth ResolutionStatus = "failed_auth"
)

// Unresolved reasons, recorded for the run report.
const (
	ReasonLowConfidence = "low_confidence_match"
	ReasonNoCandidates  = "no_candidates"
	ReasonFetchFailed   = "fetch_failed"
	ReasonParseFailed   = "parse_failed"
)

// Resolution is the matcher's verdict for one roster entry. When Status is
// StatusResolved, ProfileURL and Best are set. When unresolved, Best retains the
// highest-scoring candidate (if any) for audit, and Reason says why.
type Resolution struct {
	Entry      RosterEntry      `json:"entry"`
	Status     ResolutionStatus `json:"status"`
	ProfileURL string           `json:"profile_url,omitempty"`
	Confidence float64          `json:"confidence,omitempty"`
	Best       *MatchCandidate  `json:"best_candidate,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// Resolved reports whether the entry was promoted to a profile.
func (r *Resolution) Resolved() bool {
	return r.Status == StatusResolved
}
