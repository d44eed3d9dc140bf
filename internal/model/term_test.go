package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCandidateTerm_ClampsConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative", -0.5, 0},
		{"zero", 0, 0},
		{"normal", 0.7, 0.7},
		{"one", 1, 1},
		{"above one", 3.2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCandidateTerm("term", "alg", tt.in)
			assert.Equal(t, tt.want, c.Confidence)
		})
	}
}

func TestNormalizeTerm(t *testing.T) {
	assert.Equal(t, "jane smith", NormalizeTerm("  Jane Smith "))
	assert.Equal(t, "", NormalizeTerm("   "))
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryPerson, ParseCategory("Person"))
	assert.Equal(t, CategoryMedical, ParseCategory(" medical "))
	assert.Equal(t, CategoryUnknown, ParseCategory("gibberish"))
	assert.Equal(t, CategoryUnknown, ParseCategory(""))
}

func TestCategoryRank_Precedence(t *testing.T) {
	// Person outranks everything; unknown ranks last.
	assert.Less(t, CategoryPerson.Rank(), CategoryPlace.Rank())
	assert.Less(t, CategoryPlace.Rank(), CategoryMedical.Rank())
	assert.Less(t, CategoryMedical.Rank(), CategoryOrganization.Rank())
	assert.Less(t, CategoryOrganization.Rank(), CategoryTechnical.Rank())
	assert.Less(t, CategoryTechnical.Rank(), CategoryUnknown.Rank())
	assert.Greater(t, Category("bogus").Rank(), CategoryUnknown.Rank())
}

func TestCategoryIsProperNoun(t *testing.T) {
	assert.True(t, CategoryPerson.IsProperNoun())
	assert.True(t, CategoryPlace.IsProperNoun())
	assert.True(t, CategoryOrganization.IsProperNoun())
	assert.False(t, CategoryMedical.IsProperNoun())
	assert.False(t, CategoryTechnical.IsProperNoun())
	assert.False(t, CategoryUnknown.IsProperNoun())
}

func TestFeedbackLabelValid(t *testing.T) {
	assert.True(t, LabelApproved.Valid())
	assert.True(t, LabelRejected.Valid())
	assert.True(t, LabelCleared.Valid())
	assert.False(t, FeedbackLabel(2).Valid())
}

func TestAlgorithmResultSkipped(t *testing.T) {
	var nilResult *AlgorithmResult
	_, skipped := nilResult.Skipped()
	assert.False(t, skipped)

	r := &AlgorithmResult{Metadata: map[string]any{"skipped": "insufficient corpus"}}
	reason, skipped := r.Skipped()
	assert.True(t, skipped)
	assert.Equal(t, "insufficient corpus", reason)
}
