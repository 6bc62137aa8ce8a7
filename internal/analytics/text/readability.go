package text

// Simplified Flesch Reading Ease constants.  Word length stands in for the
// syllable count of the full formula.
const (
	fleschBase           = 206.835
	fleschSentenceWeight = 1.015
	fleschWordWeight     = 84.6
)

// readabilityScore estimates reading ease on a 0 (hard) to 100 (easy) scale.
// Texts without words or sentences score 0 rather than erroring.
func readabilityScore(stats Statistics) float64 {
	if stats.WordCount == 0 || stats.SentenceCount == 0 {
		return 0
	}
	score := fleschBase -
		fleschSentenceWeight*stats.AvgSentenceLength -
		fleschWordWeight*(stats.AvgWordLength/2)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
