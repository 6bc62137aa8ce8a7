// Package text implements the heuristic text-analysis pipeline: tokenization,
// lexicon-based sentiment, keyword weighting, readability, category
// suggestion, entity extraction and Jaccard similarity over report
// descriptions.  Everything here is fixed-heuristic; nothing is learned.
package text

import (
	"regexp"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Tokenize lowercases the text, strips non-word characters, collapses
// whitespace and splits on spaces.  Empty or whitespace-only input yields an
// empty slice, never an error.
func Tokenize(text string) []string {
	cleaned := strings.ToLower(text)
	cleaned = nonWordRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, " ")
}

// TokenSet returns the distinct tokens of a text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}
