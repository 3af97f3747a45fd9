// Package textproc implements the text pipeline behind the analytics
// views: normalization, stopword filtering and frequency counting.
package textproc

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and splits it into tokens. Any run of
// characters outside letters (accented vowels and ñ included), digits
// and underscore acts as a single separator. Empty input yields no
// tokens, and re-normalizing normalized output is a no-op.
func Normalize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
