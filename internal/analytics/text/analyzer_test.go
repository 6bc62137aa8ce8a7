package text

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(WithLogger(logging.NewNopLogger()))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "The Officer demanded money", []string{"the", "officer", "demanded", "money"}},
		{"punctuation stripped", "bribe! money? cash.", []string{"bribe", "money", "cash"}},
		{"whitespace collapsed", "  a \t b\n c ", []string{"a", "b", "c"}},
		{"empty", "", nil},
		{"whitespace only", "   \n\t ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestSentimentNegativeText(t *testing.T) {
	result := newTestAnalyzer().Analyze("The officer demanded a bribe and threatened me")
	assert.Equal(t, SentimentNegative, result.Sentiment.Label)
	assert.Less(t, result.Sentiment.Score, 0.0)
	assert.Greater(t, result.Sentiment.Confidence, 0.0)
}

func TestSentimentNoMatches(t *testing.T) {
	result := newTestAnalyzer().Analyze("the sky turned orange over the lake")
	assert.Equal(t, SentimentNeutral, result.Sentiment.Label)
	assert.Zero(t, result.Sentiment.Score)
	assert.Zero(t, result.Sentiment.Confidence)
}

func TestSentimentPositiveText(t *testing.T) {
	result := newTestAnalyzer().Analyze("the clerk was honest helpful and professional asante")
	assert.Equal(t, SentimentPositive, result.Sentiment.Label)
	assert.Greater(t, result.Sentiment.Score, 0.0)
}

func TestSentimentSwahiliNegative(t *testing.T) {
	result := newTestAnalyzer().Analyze("alidai rushwa na hongo ofisini")
	assert.Equal(t, SentimentNegative, result.Sentiment.Label)
}

func TestKeywordsDomainBoostAndOrder(t *testing.T) {
	// "road" appears three times, "bribe" twice; the domain boost doubles
	// bribe to 4 against road's 3.
	result := newTestAnalyzer().Analyze(
		"road road road bribe bribe inspection")
	require.NotEmpty(t, result.Keywords)
	assert.Equal(t, "bribe", result.Keywords[0].Word)
	assert.Equal(t, 2, result.Keywords[0].Frequency)
	assert.Equal(t, 4.0, result.Keywords[0].Relevance)
	assert.Equal(t, "road", result.Keywords[1].Word)
	assert.Equal(t, 3.0, result.Keywords[1].Relevance)
}

func TestKeywordsSkipStopWordsAndShortTokens(t *testing.T) {
	result := newTestAnalyzer().Analyze("the and is at go it officer")
	require.Len(t, result.Keywords, 1)
	assert.Equal(t, "officer", result.Keywords[0].Word)
}

func TestKeywordsCapAtTen(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	result := newTestAnalyzer().Analyze(text)
	assert.Len(t, result.Keywords, 10)
}

func TestStatistics(t *testing.T) {
	stats := computeStatistics("One two three. Four five!")
	assert.Equal(t, 5, stats.WordCount)
	assert.Equal(t, 2, stats.SentenceCount)
	assert.Equal(t, 2.5, stats.AvgSentenceLength)
	assert.Greater(t, stats.CharacterCount, 0)
}

func TestReadabilityEmptyText(t *testing.T) {
	result := newTestAnalyzer().Analyze("")
	assert.Zero(t, result.Readability)
	assert.Zero(t, result.Statistics.WordCount)
	assert.Equal(t, SentimentNeutral, result.Sentiment.Label)
	assert.Empty(t, result.Keywords)
}

func TestReadabilityBounds(t *testing.T) {
	simple := newTestAnalyzer().Analyze("He ran. She sat. We ate.")
	assert.GreaterOrEqual(t, simple.Readability, 0.0)
	assert.LessOrEqual(t, simple.Readability, 100.0)

	dense := newTestAnalyzer().Analyze(
		"Institutional malfeasance notwithstanding administrative countermeasures proliferates unchecked")
	assert.GreaterOrEqual(t, dense.Readability, 0.0)
	assert.Less(t, dense.Readability, simple.Readability)
}

func TestCategorySuggestionBribery(t *testing.T) {
	result := newTestAnalyzer().Analyze("He asked for a bribe and took the money")
	require.NotEmpty(t, result.Categories)
	assert.LessOrEqual(t, len(result.Categories), 3)

	found := false
	for _, s := range result.Categories {
		if s.Category == report.CategoryBribery {
			found = true
			assert.Greater(t, s.Score, 0.0)
		}
	}
	assert.True(t, found, "bribery should be among the suggestions")
}

func TestCategorySuggestionNoSignal(t *testing.T) {
	result := newTestAnalyzer().Analyze("the weather was calm and the road was long")
	assert.Empty(t, result.Categories)
}

func TestEntityExtraction(t *testing.T) {
	result := newTestAnalyzer().Analyze(
		"He demanded KES 50,000 at the Nakuru lands office on 12/03/2024 and later 5,000 more")

	assert.Contains(t, result.Entities.Amounts, 50000.0)
	assert.Contains(t, result.Entities.Amounts, 5000.0)
	assert.Contains(t, result.Entities.Dates, "12/03/2024")
	assert.Contains(t, result.Entities.Locations, "Nakuru")
}

func TestEntityAmountDeduplicated(t *testing.T) {
	result := newTestAnalyzer().Analyze("KES 5,000 then again KES 5,000")
	assert.Equal(t, []float64{5000}, result.Entities.Amounts)
}

func TestEntitySmallNumbersIgnored(t *testing.T) {
	result := newTestAnalyzer().Analyze("about 12 people waited 45 minutes")
	assert.Empty(t, result.Entities.Amounts)
}

func TestEntityLocationsCapped(t *testing.T) {
	result := newTestAnalyzer().Analyze(
		"Nairobi Mombasa then Kisumu then Nakuru then Eldoret then Garissa then Thika")
	assert.LessOrEqual(t, len(result.Entities.Locations), 5)
}

func TestSimilarityIdenticalTexts(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("the officer took a bribe", "the officer took a bribe"))
}

func TestSimilarityDisjointTexts(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("alpha bravo charlie", "delta echo foxtrot"))
}

func TestSimilarityBothEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", ""))
}

func TestSimilarityPartialOverlap(t *testing.T) {
	sim := Similarity("officer demanded bribe", "officer refused bribe")
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func textReport(id, description string) *report.Report {
	return &report.Report{
		ID:           id,
		County:       "Nairobi",
		Agency:       report.AgencyPolice,
		Categories:   []report.Category{report.CategoryBribery},
		IncidentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		SubmittedAt:  time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		Description:  description,
	}
}

func TestFindDuplicatesGroupsNearIdentical(t *testing.T) {
	reports := []*report.Report{
		textReport("a", "the officer demanded a bribe at the gate"),
		textReport("b", "the officer demanded a bribe at the gate yesterday"),
		textReport("c", "lands registry lost my title deed entirely"),
	}

	groups := FindDuplicates(reports, 0.7)
	require.Len(t, groups, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, groups[0].ReportIDs)
	assert.GreaterOrEqual(t, groups[0].Similarity, 0.7)
}

func TestFindDuplicatesNoneBelowThreshold(t *testing.T) {
	reports := []*report.Report{
		textReport("a", "the officer demanded a bribe"),
		textReport("b", "lands registry lost my deed"),
	}
	assert.Empty(t, FindDuplicates(reports, 0.7))
}

func TestFindDuplicatesDisjointGroups(t *testing.T) {
	reports := []*report.Report{
		textReport("a", "officer demanded bribe at the gate"),
		textReport("b", "officer demanded bribe at the gate"),
		textReport("c", "clerk asked for chai to process permit"),
		textReport("d", "clerk asked for chai to process permit"),
	}

	groups := FindDuplicates(reports, 0.7)
	require.Len(t, groups, 2)
	seen := make(map[string]int)
	for _, g := range groups {
		for _, id := range g.ReportIDs {
			seen[id]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "report %s grouped more than once", id)
	}
}

func TestSummarize(t *testing.T) {
	a := newTestAnalyzer()
	reports := []*report.Report{
		textReport("a", "officer demanded a bribe"),
		textReport("b", "clerk demanded a bribe for the permit"),
	}
	reports[0].EstimatedAmount = 1000
	reports[1].EstimatedAmount = 3000

	summary := a.Summarize(reports)
	assert.Contains(t, summary, "2 reports")
	assert.Contains(t, summary, "KES 2000")
	assert.Contains(t, summary, "bribe")
	assert.Contains(t, summary, "negative")
}

func TestSummarizeEmptyBatch(t *testing.T) {
	assert.Equal(t, "No reports to summarize.", newTestAnalyzer().Summarize(nil))
}

func TestWithLexiconOverride(t *testing.T) {
	lex := DefaultLexicon()
	lex.Negative["mbaya"] = struct{}{}

	a := NewAnalyzer(WithLexicon(lex), WithLogger(logging.NewNopLogger()))
	result := a.Analyze("huduma mbaya sana")
	assert.Equal(t, SentimentNegative, result.Sentiment.Label)
}
