package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizerDefaultPattern(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenizer("(?u)\\b\\w\\w+\\b", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "developer", "with", "aws"}, tok.Tokens("a go developer with aws x"))
	assert.Empty(t, tok.Tokens(""))
}

func TestTokenizerStopWords(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenizer("", []string{"with", "and"})
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "cloud"}, tok.Tokens("python and cloud with"))
}

func TestTokenizerInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewTokenizer("([a-z", nil)
	require.Error(t, err)
}

func TestNGrams(t *testing.T) {
	t.Parallel()

	tokens := []string{"senior", "backend", "engineer"}

	tests := []struct {
		name     string
		min, max int
		expect   []string
	}{
		{name: "unigrams", min: 1, max: 1, expect: tokens},
		{
			name: "unigrams and bigrams",
			min:  1, max: 2,
			expect: []string{"senior", "backend", "engineer", "senior backend", "backend engineer"},
		},
		{name: "bigrams only", min: 2, max: 2, expect: []string{"senior backend", "backend engineer"}},
		{name: "n larger than input", min: 4, max: 5, expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, NGrams(tokens, tt.min, tt.max))
		})
	}
}
