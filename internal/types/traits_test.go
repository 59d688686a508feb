package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"below range", -12.5, 0},
		{"zero", 0, 0},
		{"in range", 67.3, 67.3},
		{"upper bound", 100, 100},
		{"above range", 140, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampScore(tt.input))
		})
	}
}

func TestTraitVector_Score_MissingTraitReturnsNeutral(t *testing.T) {
	tv := &TraitVector{
		StudentName: "Jordan Lee",
		Scores:      map[string]float64{TraitTechnical: 80},
	}

	assert.Equal(t, 80.0, tv.Score(TraitTechnical))
	assert.Equal(t, NeutralScore, tv.Score(TraitExtraversion))
}

func TestNewPairKey_Canonical(t *testing.T) {
	assert.Equal(t, NewPairKey("Ana", "Bo"), NewPairKey("Bo", "Ana"))
	assert.Equal(t, "Ana", NewPairKey("Bo", "Ana").A)
}
