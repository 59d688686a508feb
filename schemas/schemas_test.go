package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priya/group-scout/internal/schemas"
)

func TestRosterSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "roster.schema.json"))
	require.NoError(t, err, "should be able to read schema file")

	var v interface{}
	assert.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON")
}

func TestRosterSchema_Compiles(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "roster.schema.json"))
	require.NoError(t, err)

	// Validating any document forces the schema through the loader; a broken
	// schema surfaces as a SchemaLoadError rather than a validation result.
	err = schemas.ValidateJSONString(string(data), `{"entries": [{"student_name": "A"}]}`)
	assert.NoError(t, err)
}

func TestRosterSchema_RejectsBadDocuments(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "roster.schema.json"))
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{"missing entries", `{}`},
		{"empty entries", `{"entries": []}`},
		{"entry without name", `{"entries": [{"course_context": "x"}]}`},
		{"empty name", `{"entries": [{"student_name": ""}]}`},
		{"unknown field", `{"entries": [{"student_name": "A", "email": "a@b.c"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, schemas.ValidateJSONString(string(data), tt.doc))
		})
	}
}
