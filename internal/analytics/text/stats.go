package text

import (
	"strings"
	"unicode"
)

// Statistics are the raw counts readability is derived from.
type Statistics struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	CharacterCount    int     `json:"character_count"`
	AvgWordLength     float64 `json:"avg_word_length"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
}

// computeStatistics counts words (whitespace split over the raw text),
// sentences (split on . ! ?) and non-whitespace characters.
func computeStatistics(raw string) Statistics {
	words := strings.Fields(raw)

	sentences := 0
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}

	chars := 0
	totalWordLen := 0
	for _, r := range raw {
		if !unicode.IsSpace(r) {
			chars++
		}
	}
	for _, w := range words {
		totalWordLen += len([]rune(w))
	}

	stats := Statistics{
		WordCount:      len(words),
		SentenceCount:  sentences,
		CharacterCount: chars,
	}
	if len(words) > 0 {
		stats.AvgWordLength = float64(totalWordLen) / float64(len(words))
	}
	if sentences > 0 {
		stats.AvgSentenceLength = float64(len(words)) / float64(sentences)
	}
	return stats
}
