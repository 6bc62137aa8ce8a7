package text

import (
	"regexp"
	"strings"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

// Lexicon is the immutable vocabulary an Analyzer works with: sentiment word
// lists, stop-words, corruption-domain terms and per-category keyword sets.
// Build one with DefaultLexicon and treat it as read-only afterwards;
// analyzers never mutate it, so a single Lexicon may back many analyzers.
type Lexicon struct {
	Negative   map[string]struct{}
	Positive   map[string]struct{}
	StopWords  map[string]struct{}
	DomainTerm map[string]struct{}

	categoryKeywords map[report.Category][]string
	categoryPatterns map[report.Category]*regexp.Regexp
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// DefaultLexicon builds the built-in English plus Swahili vocabulary used by
// the report analyzer.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		Negative: wordSet(
			"bribe", "bribed", "bribery", "corrupt", "corruption", "demanded",
			"demand", "threatened", "threat", "threats", "stole", "steal",
			"stolen", "theft", "forced", "extort", "extorted", "extortion",
			"harassed", "intimidated", "refused", "denied", "illegal", "fraud",
			"fraudulent", "cheated", "scam", "abuse", "abused", "misuse",
			"unfair", "injustice", "victim", "afraid", "scared",
			"rushwa", "hongo", "wizi", "dhuluma", "vitisho",
		),
		Positive: wordSet(
			"good", "helpful", "honest", "resolved", "transparent", "fair",
			"professional", "assisted", "helped", "thank", "thanks",
			"improved", "accountable", "praised",
			"asante", "nzuri", "haki", "safi",
		),
		StopWords: wordSet(
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
			"for", "of", "with", "by", "from", "as", "is", "was", "are",
			"were", "be", "been", "being", "have", "has", "had", "do", "does",
			"did", "will", "would", "could", "should", "may", "might", "that",
			"this", "these", "those", "it", "its", "he", "she", "they",
			"them", "his", "her", "their", "me", "my", "we", "our", "you",
			"your", "i", "not", "no", "so", "if", "then", "than", "when",
			"who", "what", "which", "there", "here",
			"na", "ya", "wa", "kwa", "ni", "za", "la",
		),
		DomainTerm: wordSet(
			"bribe", "bribery", "corruption", "kickback", "tender",
			"procurement", "contract", "official", "officer", "police",
			"chief", "clerk", "payment", "money", "cash", "funds", "permit",
			"license", "certificate", "ministry", "government", "county",
			"shilling", "shillings", "mpesa", "kes",
			"rushwa", "hongo", "chai",
		),
		categoryKeywords: map[report.Category][]string{
			report.CategoryBribery: {
				"bribe", "bribery", "kickback", "hongo", "rushwa", "chai",
				"facilitation", "money", "cash", "payment",
			},
			report.CategoryEmbezzlement: {
				"embezzled", "embezzlement", "misappropriated", "diverted",
				"missing", "funds", "wizi", "accounts",
			},
			report.CategoryFraud: {
				"fraud", "fraudulent", "fake", "forged", "forgery", "scam",
				"counterfeit", "false",
			},
			report.CategoryExtortion: {
				"extortion", "extorted", "threatened", "threats", "coerced",
				"intimidated", "vitisho",
			},
			report.CategoryNepotism: {
				"nepotism", "relative", "relatives", "cousin", "favouritism",
				"favoritism", "tribalism", "connections",
			},
			report.CategoryAbuseOfOffice: {
				"abuse", "misuse", "overstepped", "unauthorized", "authority",
				"position", "power",
			},
		},
	}

	lex.categoryPatterns = make(map[report.Category]*regexp.Regexp, len(lex.categoryKeywords))
	for cat, words := range lex.categoryKeywords {
		lex.categoryPatterns[cat] = regexp.MustCompile(
			`(?i)\b(` + strings.Join(words, "|") + `)\b`)
	}
	return lex
}

// IsStopWord reports whether the token is in the stop-word list.
func (l *Lexicon) IsStopWord(token string) bool {
	_, ok := l.StopWords[token]
	return ok
}

// IsDomainTerm reports whether the token is a known corruption-domain term.
func (l *Lexicon) IsDomainTerm(token string) bool {
	_, ok := l.DomainTerm[token]
	return ok
}

// CategoryKeywords returns the keyword list for a category; nil when the
// category has no associated vocabulary, as with CategoryOther.
func (l *Lexicon) CategoryKeywords(cat report.Category) []string {
	return l.categoryKeywords[cat]
}
