// Package roster loads course roster exports. The roster is the pipeline's only
// input boundary: a JSON file produced by the course-management side, validated
// against schemas/roster.schema.json before anything downstream sees it.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/priya/group-scout/internal/schemas"
	"github.com/priya/group-scout/internal/types"
)

// SchemaRelPath is the roster schema location relative to the repository root.
const SchemaRelPath = "schemas/roster.schema.json"

// LoadError wraps roster-file problems with the offending path.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("roster %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("roster %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Load reads, validates, and parses a roster file. Entry order is preserved;
// duplicate student names are collapsed to their first occurrence. Schema
// validation is skipped with no error when the schema file cannot be located,
// matching how other artifact validation in this repo degrades.
func Load(path string) (*types.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "read failed", Cause: err}
	}

	if schemaPath := schemas.ResolveSchemaPath(SchemaRelPath); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, &LoadError{Path: path, Message: "schema validation failed", Cause: err}
		}
	}

	var r types.Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &LoadError{Path: path, Message: "invalid JSON", Cause: err}
	}
	if len(r.Entries) == 0 {
		return nil, &LoadError{Path: path, Message: "no entries"}
	}

	r.Entries = dedupe(r.Entries)
	return &r, nil
}

// Parse validates and parses roster content directly, for callers that already
// hold the bytes.
func Parse(data []byte) (*types.Roster, error) {
	if schemaPath := schemas.ResolveSchemaPath(SchemaRelPath); schemaPath != "" {
		schemaData, err := os.ReadFile(schemaPath)
		if err == nil {
			if err := schemas.ValidateJSONString(string(schemaData), string(data)); err != nil {
				return nil, &LoadError{Path: "(inline)", Message: "schema validation failed", Cause: err}
			}
		}
	}

	var r types.Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &LoadError{Path: "(inline)", Message: "invalid JSON", Cause: err}
	}
	if len(r.Entries) == 0 {
		return nil, &LoadError{Path: "(inline)", Message: "no entries"}
	}

	r.Entries = dedupe(r.Entries)
	return &r, nil
}

// dedupe drops repeated student names, keeping the first occurrence. Name
// comparison is case-insensitive because exports from different systems do not
// agree on capitalization.
func dedupe(entries []types.RosterEntry) []types.RosterEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.StudentName))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
