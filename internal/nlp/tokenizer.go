package nlp

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTokenPattern matches words of two or more word characters.
const DefaultTokenPattern = `\b\w\w+\b`

// Tokenizer splits normalized text into terms and drops stop words.
// It holds no mutable state and is safe for concurrent use.
type Tokenizer struct {
	pattern   *regexp.Regexp
	stopWords map[string]struct{}
}

// NewTokenizer compiles pattern. An empty pattern means DefaultTokenPattern.
// A leading "(?u)" flag is accepted and ignored since Go patterns are
// already Unicode-aware.
func NewTokenizer(pattern string, stopWords []string) (*Tokenizer, error) {
	pattern = strings.TrimPrefix(pattern, "(?u)")
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern %q: %w", pattern, err)
	}

	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[w] = struct{}{}
	}

	return &Tokenizer{pattern: re, stopWords: stop}, nil
}

// Tokens returns the terms of text in order of appearance.
func (t *Tokenizer) Tokens(text string) []string {
	found := t.pattern.FindAllString(text, -1)
	if len(t.stopWords) == 0 {
		return found
	}
	tokens := found[:0]
	for _, tok := range found {
		if _, ok := t.stopWords[tok]; ok {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// NGrams expands tokens into every word n-gram with min <= n <= max,
// joining the words of each n-gram with a single space.
func NGrams(tokens []string, min, max int) []string {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	if min == 1 && max == 1 {
		return tokens
	}

	grams := make([]string, 0, len(tokens)*(max-min+1))
	for n := min; n <= max && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				grams = append(grams, tokens[i])
				continue
			}
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}
