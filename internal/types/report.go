package types

import "time"

// EntryResult is the per-student outcome recorded in the run report, in roster order.
type EntryResult struct {
	Entry      RosterEntry    `json:"entry"`
	Resolution *Resolution    `json:"resolution,omitempty"`
	Profile    *ProfileRecord `json:"profile,omitempty"`
	Traits     *TraitVector   `json:"traits,omitempty"`
	Err        string         `json:"error,omitempty"`
}

// RunReport summarizes one pipeline run: counts, per-entry outcomes, and the
// whole-roster group fit when at least two entries scored.
type RunReport struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Resolved   int             `json:"resolved"`
	Unresolved int             `json:"unresolved"`
	Failed     int             `json:"failed"`
	Entries    []EntryResult   `json:"entries"`
	GroupFit   *GroupFitResult `json:"group_fit,omitempty"`
}

// TraitVectors collects the vectors of all scored entries, in roster order.
func (r *RunReport) TraitVectors() []TraitVector {
	vectors := make([]TraitVector, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Traits != nil {
			vectors = append(vectors, *e.Traits)
		}
	}
	return vectors
}
