package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_PreservesOrder(t *testing.T) {
	path := writeRoster(t, `{
		"course_id": "CS4500",
		"entries": [
			{"student_name": "Jordan Lee", "course_context": "Northeastern University"},
			{"student_name": "Sam Patel"},
			{"student_name": "Ana Silva", "course_context": "Northeastern University"}
		]
	}`)

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "CS4500", r.CourseID)
	require.Len(t, r.Entries, 3)
	assert.Equal(t, "Jordan Lee", r.Entries[0].StudentName)
	assert.Equal(t, "Sam Patel", r.Entries[1].StudentName)
	assert.Equal(t, "Ana Silva", r.Entries[2].StudentName)
	assert.Empty(t, r.Entries[1].CourseContext)
}

func TestLoad_DuplicatesCollapseToFirst(t *testing.T) {
	path := writeRoster(t, `{
		"entries": [
			{"student_name": "Jordan Lee", "course_context": "first"},
			{"student_name": "jordan lee", "course_context": "second"},
			{"student_name": "Sam Patel"}
		]
	}`)

	r, err := Load(path)
	require.NoError(t, err)

	require.Len(t, r.Entries, 2)
	assert.Equal(t, "Jordan Lee", r.Entries[0].StudentName)
	assert.Equal(t, "first", r.Entries[0].CourseContext)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Message, "read failed")
}

func TestLoad_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not JSON", `{{{`},
		{"missing entries", `{"course_id": "CS4500"}`},
		{"empty entries", `{"entries": []}`},
		{"entry without name", `{"entries": [{"course_context": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeRoster(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestParse(t *testing.T) {
	r, err := Parse([]byte(`{"entries": [{"student_name": "Jordan Lee"}]}`))
	require.NoError(t, err)
	require.Len(t, r.Entries, 1)

	_, err = Parse([]byte(`{"entries": []}`))
	assert.Error(t, err)
}
