package rarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tok := NewTokenizer(2)
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			in:   "Adenocarcinoma, Stage IV.",
			want: []string{"adenocarcinoma", "stage", "iv"},
		},
		{
			name: "drops stopwords",
			in:   "the patient was in remission",
			want: []string{"patient", "remission"},
		},
		{
			name: "drops short and numeric tokens",
			in:   "a b 42 3.14 x-ray",
			want: []string{"x-ray"},
		},
		{
			name: "keeps hyphenated words",
			in:   "well-known follow-up",
			want: []string{"well-known", "follow-up"},
		},
		{
			name: "empty input",
			in:   "   ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.in))
		})
	}
}

func TestTokenize_MinLenFloor(t *testing.T) {
	tok := NewTokenizer(0)
	// minLen below 2 is raised to 2: single letters never index.
	assert.Equal(t, []string{"ct"}, tok.Tokenize("a q CT"))
}
