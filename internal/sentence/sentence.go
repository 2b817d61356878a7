// Package sentence turns raw text into the tokens given to the parser and back.
package sentence

import (
	"strings"
	"unicode"
)

// Tokenize splits s into words on whitespace. Punctuation at the start or end
// of a word is removed, so "Mary." and "(Mary" both give "Mary", and words that
// are only punctuation are dropped. Punctuation inside a word, as in "don't",
// is kept.
func Tokenize(s string) []string {
	var tokens []string
	for _, f := range strings.Fields(s) {
		w := strings.TrimFunc(f, unicode.IsPunct)
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Format joins tokens back into a sentence ending in a period. It returns the
// empty string if there are no tokens.
func Format(tokens []string) string {
	if len(tokens) < 1 {
		return ""
	}
	return strings.Join(tokens, " ") + "."
}
