package cluster

import (
	"sort"
	"time"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

// TimePattern tags how a cluster's incidents are distributed in time.
type TimePattern string

const (
	// PatternRecent marks clusters where more than 70% of incidents fall
	// within the last six months.
	PatternRecent TimePattern = "recent"

	// PatternHistorical marks clusters where fewer than 30% do.
	PatternHistorical TimePattern = "historical"

	// PatternMixed covers everything in between.
	PatternMixed TimePattern = "mixed"
)

// recencyWindow is the lookback used to classify a cluster's time pattern.
const recencyWindow = 6 * 30 * 24 * time.Hour

// Characteristics summarizes a materialized cluster for display.
type Characteristics struct {
	DominantAgency report.Agency `json:"dominant_agency"`
	AverageAmount  float64       `json:"average_amount"`
	CommonCounties []string      `json:"common_counties"`
	TimePattern    TimePattern   `json:"time_pattern"`
	ReportCount    int           `json:"report_count"`
}

// Characterize summarizes one cluster's members: the modal agency (ties break
// to the agency seen first), the average amount over members with amount > 0
// (0 if none), the up-to-3 most frequent counties, and the recency pattern
// relative to now.
func Characterize(members []*report.Report, now time.Time) Characteristics {
	agencyCounts := make(map[report.Agency]int)
	agencyFirstSeen := make(map[report.Agency]int)
	countyCounts := make(map[string]int)
	countyFirstSeen := make(map[string]int)

	var amountSum float64
	amountCount := 0
	recentCount := 0
	cutoff := now.Add(-recencyWindow)

	for i, r := range members {
		if _, ok := agencyFirstSeen[r.Agency]; !ok {
			agencyFirstSeen[r.Agency] = i
		}
		agencyCounts[r.Agency]++

		if _, ok := countyFirstSeen[r.County]; !ok {
			countyFirstSeen[r.County] = i
		}
		countyCounts[r.County]++

		if r.EstimatedAmount > 0 {
			amountSum += r.EstimatedAmount
			amountCount++
		}
		if r.IncidentDate.After(cutoff) {
			recentCount++
		}
	}

	var dominant report.Agency
	bestCount := -1
	for agency, count := range agencyCounts {
		if count > bestCount || (count == bestCount && agencyFirstSeen[agency] < agencyFirstSeen[dominant]) {
			dominant = agency
			bestCount = count
		}
	}

	counties := make([]string, 0, len(countyCounts))
	for county := range countyCounts {
		counties = append(counties, county)
	}
	sort.Slice(counties, func(i, j int) bool {
		ci, cj := countyCounts[counties[i]], countyCounts[counties[j]]
		if ci != cj {
			return ci > cj
		}
		return countyFirstSeen[counties[i]] < countyFirstSeen[counties[j]]
	})
	if len(counties) > 3 {
		counties = counties[:3]
	}

	avgAmount := 0.0
	if amountCount > 0 {
		avgAmount = amountSum / float64(amountCount)
	}

	recentRatio := 0.0
	if len(members) > 0 {
		recentRatio = float64(recentCount) / float64(len(members))
	}
	pattern := PatternMixed
	switch {
	case recentRatio > 0.7:
		pattern = PatternRecent
	case recentRatio < 0.3:
		pattern = PatternHistorical
	}

	return Characteristics{
		DominantAgency: dominant,
		AverageAmount:  avgAmount,
		CommonCounties: counties,
		TimePattern:    pattern,
		ReportCount:    len(members),
	}
}
