package nlp

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, drops every rune that is neither an ASCII letter
// nor whitespace, and collapses whitespace runs into single spaces.
// The result always matches ^[a-z ]*$ with no leading, trailing or doubled spaces.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || isSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// isSpace is unicode.IsSpace plus the information separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
