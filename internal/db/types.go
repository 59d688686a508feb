package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one pipeline run record.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    string     `json:"course_id"`
	Institution string     `json:"institution"`
	RosterSize  int        `json:"roster_size"`
	Resolved    int        `json:"resolved"`
	Unresolved  int        `json:"unresolved"`
	Failed      int        `json:"failed"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Artifact step constants for known artifact types.
const (
	StepResolutions  = "resolutions"
	StepTraitVectors = "trait_vectors"
	StepGroupFit     = "group_fit"
	StepRunReport    = "run_report"
)
