package text

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// entityAmountFloor filters standalone numbers; amounts under 100 are
	// more likely counts or dates than money.
	entityAmountFloor = 100

	entityMaxLocations = 5
)

var (
	currencyAmountRe = regexp.MustCompile(`(?i)\b(?:kes|ksh|sh)\.?\s*([\d,]+(?:\.\d+)?)`)
	plainAmountRe    = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+(?:\.\d+)?\b`)
	numericDateRe    = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	capitalizedRunRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// Entities are the structured values pulled out of a free-text description.
type Entities struct {
	Amounts   []float64 `json:"amounts"`
	Dates     []string  `json:"dates"`
	Locations []string  `json:"locations"`
}

// extractEntities pulls monetary amounts (currency-prefixed, or standalone
// thousands-separated numbers of at least 100), numeric dates, and candidate
// locations (capitalized word runs not starting with a stop-word, capped at
// five) from the raw text.  All three lists are deduplicated in first-seen
// order.
func extractEntities(raw string, lex *Lexicon) Entities {
	var entities Entities
	seenAmounts := make(map[float64]struct{})

	for _, m := range currencyAmountRe.FindAllStringSubmatch(raw, -1) {
		if v, ok := parseAmount(m[1]); ok {
			if _, dup := seenAmounts[v]; !dup {
				seenAmounts[v] = struct{}{}
				entities.Amounts = append(entities.Amounts, v)
			}
		}
	}
	for _, m := range plainAmountRe.FindAllString(raw, -1) {
		if v, ok := parseAmount(m); ok && v >= entityAmountFloor {
			if _, dup := seenAmounts[v]; !dup {
				seenAmounts[v] = struct{}{}
				entities.Amounts = append(entities.Amounts, v)
			}
		}
	}

	seenDates := make(map[string]struct{})
	for _, m := range numericDateRe.FindAllString(raw, -1) {
		if _, dup := seenDates[m]; !dup {
			seenDates[m] = struct{}{}
			entities.Dates = append(entities.Dates, m)
		}
	}

	seenLocations := make(map[string]struct{})
	for _, m := range capitalizedRunRe.FindAllString(raw, -1) {
		first := strings.ToLower(strings.Fields(m)[0])
		if lex.IsStopWord(first) {
			continue
		}
		if _, dup := seenLocations[m]; dup {
			continue
		}
		seenLocations[m] = struct{}{}
		entities.Locations = append(entities.Locations, m)
		if len(entities.Locations) == entityMaxLocations {
			break
		}
	}

	return entities
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
