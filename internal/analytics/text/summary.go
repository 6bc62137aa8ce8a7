package text

import (
	"fmt"
	"strings"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

const summaryTopKeywords = 5

// Summarize condenses a report batch into one sentence: counts, average
// amount, geographic and agency spread, dominant themes and the overall
// sentiment of the concatenated descriptions.  An empty batch yields a fixed
// no-data sentence.
func (a *Analyzer) Summarize(reports []*report.Report) string {
	if len(reports) == 0 {
		return "No reports to summarize."
	}

	counties := make(map[string]struct{})
	agencies := make(map[report.Agency]struct{})
	amountSum := 0.0
	amountCount := 0
	var descriptions strings.Builder

	for _, r := range reports {
		counties[r.County] = struct{}{}
		agencies[r.Agency] = struct{}{}
		if r.EstimatedAmount > 0 {
			amountSum += r.EstimatedAmount
			amountCount++
		}
		descriptions.WriteString(r.Description)
		descriptions.WriteByte(' ')
	}

	combined := descriptions.String()
	tokens := Tokenize(combined)
	keywords := extractKeywords(tokens, a.lexicon)
	if len(keywords) > summaryTopKeywords {
		keywords = keywords[:summaryTopKeywords]
	}
	words := make([]string, len(keywords))
	for i, kw := range keywords {
		words[i] = kw.Word
	}

	sentiment := scoreSentiment(tokens, a.lexicon)

	avgAmount := 0.0
	if amountCount > 0 {
		avgAmount = amountSum / float64(amountCount)
	}

	themes := "no recurring themes"
	if len(words) > 0 {
		themes = "recurring themes: " + strings.Join(words, ", ")
	}

	return fmt.Sprintf(
		"%d reports across %d counties and %d agencies, average reported amount KES %.0f; %s; overall sentiment %s.",
		len(reports), len(counties), len(agencies), avgAmount, themes, sentiment.Label)
}
