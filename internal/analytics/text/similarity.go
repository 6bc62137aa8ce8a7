package text

// Similarity computes the Jaccard index over the distinct token sets of two
// texts.  Identical texts score 1.0, texts with disjoint vocabularies 0.0,
// and two empty texts 0.0 rather than a division by zero.
func Similarity(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
