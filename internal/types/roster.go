// Package types provides type definitions for structured data used throughout the group-scout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RosterEntry represents a single student pulled from the course roster export.
// Entries are created once per pipeline run and never mutated.
type RosterEntry struct {
	StudentName   string `json:"student_name"`
	CourseContext string `json:"course_context,omitempty"` // e.g., institution or course name; may be empty
}

// Roster is an order-preserving list of roster entries.
type Roster struct {
	CourseID string        `json:"course_id,omitempty"`
	Entries  []RosterEntry `json:"entries"`
}
