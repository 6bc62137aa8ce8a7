package text

import (
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

// AnalysisResult is the full linguistic profile of one text.
type AnalysisResult struct {
	Sentiment   Sentiment            `json:"sentiment"`
	Keywords    []Keyword            `json:"keywords"`
	Readability float64              `json:"readability"`
	Statistics  Statistics           `json:"statistics"`
	Categories  []CategorySuggestion `json:"categories"`
	Entities    Entities             `json:"entities"`
}

// Analyzer runs the text pipeline against a fixed Lexicon.  The lexicon is
// captured at construction and never mutated, so one Analyzer is safe for
// concurrent use and several analyzers with distinct vocabularies can
// coexist.
type Analyzer struct {
	lexicon *Lexicon
	logger  logging.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLexicon substitutes the built-in vocabulary, e.g. to add further local
// languages.
func WithLexicon(lex *Lexicon) Option {
	return func(a *Analyzer) {
		if lex != nil {
			a.lexicon = lex
		}
	}
}

// WithLogger sets the analyzer's logger.
func WithLogger(logger logging.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer constructs an Analyzer over the default lexicon.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		lexicon: DefaultLexicon(),
		logger:  logging.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze runs the full pipeline over one text.  Empty or whitespace-only
// input returns a zero-valued neutral result, never an error.
func (a *Analyzer) Analyze(raw string) *AnalysisResult {
	tokens := Tokenize(raw)
	stats := computeStatistics(raw)
	keywords := extractKeywords(tokens, a.lexicon)

	return &AnalysisResult{
		Sentiment:   scoreSentiment(tokens, a.lexicon),
		Keywords:    keywords,
		Readability: readabilityScore(stats),
		Statistics:  stats,
		Categories:  suggestCategories(raw, keywords, a.lexicon),
		Entities:    extractEntities(raw, a.lexicon),
	}
}

// Compare returns the Jaccard similarity of two texts.
func (a *Analyzer) Compare(textA, textB string) float64 {
	return Similarity(textA, textB)
}
