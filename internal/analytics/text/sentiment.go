package text

// SentimentLabel buckets a sentiment score.
type SentimentLabel string

const (
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentPositive SentimentLabel = "positive"
)

// sentimentLabelThreshold is the |score| above which a text leaves neutral.
const sentimentLabelThreshold = 0.2

// Sentiment is the lexicon-based polarity of a text.
type Sentiment struct {
	Score      float64        `json:"score"`
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// scoreSentiment matches tokens against the lexicon's polarity lists.  Score
// is (positive - negative) / matches, so negatively-worded reports land below
// zero; confidence grows with match count, saturating at 10 matches.  No
// matches yields the zero-valued neutral result.
func scoreSentiment(tokens []string, lex *Lexicon) Sentiment {
	positive, negative := 0, 0
	for _, tok := range tokens {
		if _, ok := lex.Positive[tok]; ok {
			positive++
		}
		if _, ok := lex.Negative[tok]; ok {
			negative++
		}
	}

	matches := positive + negative
	if matches == 0 {
		return Sentiment{Label: SentimentNeutral}
	}

	score := float64(positive-negative) / float64(matches)
	label := SentimentNeutral
	switch {
	case score <= -sentimentLabelThreshold:
		label = SentimentNegative
	case score >= sentimentLabelThreshold:
		label = SentimentPositive
	}

	confidence := float64(matches) / 10
	if confidence > 1 {
		confidence = 1
	}
	return Sentiment{Score: score, Label: label, Confidence: confidence}
}
