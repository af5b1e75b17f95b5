package nlp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var normalizedShape = regexp.MustCompile(`^([a-z]+( [a-z]+)*)?$`)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "only spaces", input: " \t\n ", expect: ""},
		{name: "uppercase folded", input: "Senior GO Engineer", expect: "senior go engineer"},
		{name: "digits and punctuation dropped", input: "C++ dev, 5+ yrs (2019-2024)!", expect: "c dev yrs"},
		{name: "accented letters dropped after folding", input: "Café Résumé", expect: "caf rsum"},
		{name: "whitespace runs collapsed", input: "  backend\t\tengineer \n\n python ", expect: "backend engineer python"},
		{name: "unicode whitespace kept as separator", input: "cloud\u00a0native", expect: "cloud native"},
		{name: "punctuation does not split words", input: "e-mail node.js", expect: "email nodejs"},
		{name: "non latin scripts dropped", input: "разработчик go", expect: "go"},
		{name: "information separators split words", input: "data\x1cscience\x1dteam\x1elead\x1fgo", expect: "data science team lead go"},
		{name: "vertical tab and form feed split words", input: "python\vgo\fsql", expect: "python go sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotentAndWellFormed(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Looking for a backend engineer role with Python and cloud experience",
		"  ÀÉÎ  123 !!  mixed\tCASE\r\ninput\v\f",
		"K\u212A kelvin sign",
		"İstanbul office",
		"a  b   c    d",
		" line separators\u0085",
		"tab\tseparated\tvalues",
		"\x1cunit\x1fseparators\x1d",
	}

	for _, in := range inputs {
		once := Normalize(in)
		require.Regexp(t, normalizedShape, once, "input %q", in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
