package text

import "sort"

const (
	keywordMinLength   = 3
	keywordTopN        = 10
	domainTermBoost    = 2.0
	keywordDefaultRank = 1.0
)

// Keyword is one extracted term with its raw frequency and boosted relevance.
type Keyword struct {
	Word      string  `json:"word"`
	Frequency int     `json:"frequency"`
	Relevance float64 `json:"relevance"`
}

// extractKeywords counts token frequencies, skipping stop-words and tokens
// shorter than 3 characters, doubles the relevance of corruption-domain terms
// and returns the top 10 by relevance.  Ties are broken alphabetically so the
// ordering is stable between runs.
func extractKeywords(tokens []string, lex *Lexicon) []Keyword {
	freq := make(map[string]int)
	for _, tok := range tokens {
		if len(tok) < keywordMinLength || lex.IsStopWord(tok) {
			continue
		}
		freq[tok]++
	}
	if len(freq) == 0 {
		return nil
	}

	keywords := make([]Keyword, 0, len(freq))
	for word, count := range freq {
		boost := keywordDefaultRank
		if lex.IsDomainTerm(word) {
			boost = domainTermBoost
		}
		keywords = append(keywords, Keyword{
			Word:      word,
			Frequency: count,
			Relevance: float64(count) * boost,
		})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Relevance != keywords[j].Relevance {
			return keywords[i].Relevance > keywords[j].Relevance
		}
		return keywords[i].Word < keywords[j].Word
	})

	if len(keywords) > keywordTopN {
		keywords = keywords[:keywordTopN]
	}
	return keywords
}
