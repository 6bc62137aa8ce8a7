package text

import (
	"sort"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

const (
	categoryTopN         = 3
	categoryRegexWeight  = 2.0
)

// CategorySuggestion is one candidate classification with its keyword score.
type CategorySuggestion struct {
	Category report.Category `json:"category"`
	Score    float64         `json:"score"`
}

// suggestCategories scores each category as (regex keyword hits in the raw
// text * 2) plus the relevance of extracted keywords found in that category's
// vocabulary, then returns up to 3 categories with a positive score, highest
// first.
func suggestCategories(raw string, keywords []Keyword, lex *Lexicon) []CategorySuggestion {
	byWord := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		byWord[kw.Word] = kw.Relevance
	}

	var suggestions []CategorySuggestion
	for cat, pattern := range lex.categoryPatterns {
		score := float64(len(pattern.FindAllStringIndex(raw, -1))) * categoryRegexWeight
		for _, word := range lex.categoryKeywords[cat] {
			score += byWord[word]
		}
		if score > 0 {
			suggestions = append(suggestions, CategorySuggestion{Category: cat, Score: score})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Category < suggestions[j].Category
	})

	if len(suggestions) > categoryTopN {
		suggestions = suggestions[:categoryTopN]
	}
	return suggestions
}
