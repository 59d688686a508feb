package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priya/group-scout/internal/types"
)

const sampleProfileHTML = `<html><body>
	<main>
		<h1>Jordan Lee</h1>
		<div class="text-body-medium">Software Engineer</div>
	</main>
</body></html>`

func TestScoreCmd_WritesTraitVector(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "profile.html")
	output := filepath.Join(dir, "traits.json")
	require.NoError(t, os.WriteFile(input, []byte(sampleProfileHTML), 0644))

	scoreInput = input
	scoreName = "Jordan Lee"
	scoreOutput = output
	scoreProfile = false
	t.Cleanup(func() { scoreInput, scoreName, scoreOutput = "", "", "" })

	require.NoError(t, scoreCmd(scoreCommand, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var tv types.TraitVector
	require.NoError(t, json.Unmarshal(data, &tv))
	assert.Equal(t, "Jordan Lee", tv.StudentName)
	assert.Contains(t, tv.Scores, types.TraitTechnical)
}

func TestScoreCmd_MissingInput(t *testing.T) {
	scoreInput = filepath.Join(t.TempDir(), "absent.html")
	scoreOutput = ""
	t.Cleanup(func() { scoreInput = "" })

	err := scoreCmd(scoreCommand, nil)
	assert.ErrorContains(t, err, "failed to read profile HTML")
}

func TestScoreCmd_LoginWallInput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "wall.html")
	require.NoError(t, os.WriteFile(input,
		[]byte(`<html><body><form class="login__form"></form></body></html>`), 0644))

	scoreInput = input
	scoreOutput = ""
	t.Cleanup(func() { scoreInput = "" })

	err := scoreCmd(scoreCommand, nil)
	assert.ErrorContains(t, err, "failed to parse profile")
}
