package anomaly

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

var anchorTime = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func amountReport(id string, amount float64) *report.Report {
	return &report.Report{
		ID:              id,
		County:          "Nairobi",
		Agency:          report.AgencyPolice,
		Categories:      []report.Category{report.CategoryBribery},
		IncidentDate:    anchorTime.Add(-24 * time.Hour),
		EstimatedAmount: amount,
		SubmittedAt:     anchorTime,
	}
}

func timedReport(id, county string, agency report.Agency, submitted time.Time) *report.Report {
	return &report.Report{
		ID:           id,
		County:       county,
		Agency:       agency,
		Categories:   []report.Category{report.CategoryBribery},
		IncidentDate: submitted.Add(-24 * time.Hour),
		SubmittedAt:  submitted,
	}
}

func TestAmountDetectorFlagsOutlier(t *testing.T) {
	amounts := []float64{100, 105, 98, 102, 100000}
	reports := make([]*report.Report, 0, len(amounts))
	for i, a := range amounts {
		reports = append(reports, amountReport(fmt.Sprintf("r%d", i), a))
	}

	found := NewAmountDetector().Detect(reports)
	require.Len(t, found, 1)
	assert.Equal(t, "r4", found[0].ReportID)
	assert.Equal(t, TypeUnusualAmount, found[0].Type)
	assert.Equal(t, SeverityHigh, found[0].Severity)
	assert.Greater(t, found[0].Score, 0.0)
	assert.LessOrEqual(t, found[0].Score, 100.0)
}

func TestAmountDetectorTooFewSamples(t *testing.T) {
	reports := []*report.Report{
		amountReport("a", 100),
		amountReport("b", 100000),
	}
	assert.Empty(t, NewAmountDetector().Detect(reports))
}

func TestAmountDetectorIgnoresMissingAmounts(t *testing.T) {
	reports := []*report.Report{
		amountReport("a", 100),
		amountReport("b", 105),
		amountReport("c", 0),
		amountReport("d", 0),
	}
	// Only two amount-bearing reports remain, below the minimum.
	assert.Empty(t, NewAmountDetector().Detect(reports))
}

func TestAmountDetectorZeroStddev(t *testing.T) {
	reports := []*report.Report{
		amountReport("a", 500),
		amountReport("b", 500),
		amountReport("c", 500),
	}
	assert.Empty(t, NewAmountDetector().Detect(reports))
}

func TestFrequencyDetectorBurstFlagsAll(t *testing.T) {
	var reports []*report.Report
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("f%d", i)
		reports = append(reports, timedReport(id, "Mombasa", report.AgencyLands,
			anchorTime.Add(time.Duration(i)*12*time.Minute)))
	}

	found := NewFrequencyDetector().Detect(reports)
	require.Len(t, found, 5)
	flagged := make(map[string]bool)
	for _, a := range found {
		assert.Equal(t, TypeFrequencySpike, a.Type)
		assert.Equal(t, 50.0, a.Score)
		flagged[a.ReportID] = true
	}
	assert.Len(t, flagged, 5)
}

func TestFrequencyDetectorSpreadOutNotFlagged(t *testing.T) {
	var reports []*report.Report
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		reports = append(reports, timedReport(id, "Mombasa", report.AgencyLands,
			anchorTime.Add(time.Duration(i)*6*24*time.Hour)))
	}
	assert.Empty(t, NewFrequencyDetector().Detect(reports))
}

func TestFrequencyDetectorAdvancesPastFlaggedWindow(t *testing.T) {
	// Five reports land within 24 hours of the first and form a spike; four
	// more trail in just outside that window.  After flagging, the scan
	// resumes past the whole window, so the trailing four never combine with
	// the spike's tail into a second flagged window.
	hours := []int{0, 1, 2, 3, 23, 25, 26, 27, 28}
	var reports []*report.Report
	for i, h := range hours {
		reports = append(reports, timedReport(fmt.Sprintf("w%d", i), "Eldoret",
			report.AgencyLands, anchorTime.Add(time.Duration(h)*time.Hour)))
	}

	found := NewFrequencyDetector().Detect(reports)
	require.Len(t, found, 5)
	flagged := make(map[string]int)
	for _, a := range found {
		assert.Equal(t, TypeFrequencySpike, a.Type)
		assert.Equal(t, 5, a.Details["window_count"])
		flagged[a.ReportID]++
	}
	for _, id := range []string{"w0", "w1", "w2", "w3", "w4"} {
		assert.Equal(t, 1, flagged[id], "report %s", id)
	}
	for _, id := range []string{"w5", "w6", "w7", "w8"} {
		assert.NotContains(t, flagged, id)
	}
}

func TestFrequencyDetectorDifferentGroupsIndependent(t *testing.T) {
	var reports []*report.Report
	for i := 0; i < 4; i++ {
		reports = append(reports, timedReport(fmt.Sprintf("n%d", i), "Nairobi",
			report.AgencyPolice, anchorTime.Add(time.Duration(i)*time.Minute)))
	}
	for i := 0; i < 4; i++ {
		reports = append(reports, timedReport(fmt.Sprintf("k%d", i), "Kisumu",
			report.AgencyPolice, anchorTime.Add(time.Duration(i)*time.Minute)))
	}
	// Eight reports within an hour, but no single county+agency group
	// reaches five.
	assert.Empty(t, NewFrequencyDetector().Detect(reports))
}

func TestGeographicDetectorOutlierCounty(t *testing.T) {
	var reports []*report.Report
	for i := 0; i < 60; i++ {
		reports = append(reports, timedReport(fmt.Sprintf("maj%d", i), "Nairobi",
			report.AgencyJudiciary, anchorTime.Add(time.Duration(i)*time.Hour)))
	}
	reports = append(reports, timedReport("rare", "Lamu", report.AgencyJudiciary, anchorTime))

	found := NewGeographicDetector().Detect(reports)
	require.Len(t, found, 1)
	assert.Equal(t, "rare", found[0].ReportID)
	assert.Equal(t, TypeGeographicOutlier, found[0].Type)
	assert.Equal(t, SeverityLow, found[0].Severity)
}

func TestGeographicDetectorSmallAgencySkipped(t *testing.T) {
	reports := []*report.Report{
		timedReport("a", "Nairobi", report.AgencyHealth, anchorTime),
		timedReport("b", "Lamu", report.AgencyHealth, anchorTime),
	}
	assert.Empty(t, NewGeographicDetector().Detect(reports))
}

func TestGeographicDetectorAbsoluteCountGuard(t *testing.T) {
	// 200 reports total; a county with 3 reports holds 1.5% share but exceeds
	// the absolute cutoff of 2, so it stays unflagged.
	var reports []*report.Report
	for i := 0; i < 197; i++ {
		reports = append(reports, timedReport(fmt.Sprintf("m%d", i), "Nairobi",
			report.AgencyPolice, anchorTime.Add(time.Duration(i)*time.Minute)))
	}
	for i := 0; i < 3; i++ {
		reports = append(reports, timedReport(fmt.Sprintf("t%d", i), "Turkana",
			report.AgencyPolice, anchorTime))
	}
	assert.Empty(t, NewGeographicDetector().Detect(reports))
}

func TestTimingDetectorOddHours(t *testing.T) {
	r := timedReport("night", "Nairobi", report.AgencyPolice,
		time.Date(2024, 3, 15, 3, 30, 0, 0, time.UTC))

	found := NewTimingDetector(nil).Detect([]*report.Report{r})
	require.Len(t, found, 1)
	assert.Equal(t, TypeTimingAnomaly, found[0].Type)
	assert.Equal(t, SeverityLow, found[0].Severity)
	assert.Equal(t, 30.0, found[0].Score)
}

func TestTimingDetectorBoundaryHours(t *testing.T) {
	before := timedReport("before", "Nairobi", report.AgencyPolice,
		time.Date(2024, 3, 15, 1, 59, 0, 0, time.UTC))
	after := timedReport("after", "Nairobi", report.AgencyPolice,
		time.Date(2024, 3, 15, 5, 0, 0, 0, time.UTC))
	assert.Empty(t, NewTimingDetector(nil).Detect([]*report.Report{before, after}))
}

func TestTimingDetectorStaleIncident(t *testing.T) {
	r := timedReport("stale", "Nairobi", report.AgencyPolice, anchorTime)
	r.IncidentDate = anchorTime.AddDate(-3, 0, 0)

	found := NewTimingDetector(nil).Detect([]*report.Report{r})
	require.Len(t, found, 1)
	assert.Equal(t, SeverityLow, found[0].Severity)
	assert.InDelta(t, 45.0, found[0].Score, 1.0)
}

func TestTimingDetectorVeryStaleIncidentCapped(t *testing.T) {
	r := timedReport("ancient", "Nairobi", report.AgencyPolice, anchorTime)
	r.IncidentDate = anchorTime.AddDate(-8, 0, 0)

	found := NewTimingDetector(nil).Detect([]*report.Report{r})
	require.Len(t, found, 1)
	assert.Equal(t, SeverityMedium, found[0].Severity)
	assert.Equal(t, 70.0, found[0].Score)
}

func TestAggregateDedupKeepsHighestScore(t *testing.T) {
	reports := []*report.Report{
		amountReport("dup", 100),
		amountReport("other", 200),
	}
	findings := []Anomaly{
		{ReportID: "dup", Type: TypeUnusualAmount, Severity: SeverityMedium, Score: 40},
		{ReportID: "dup", Type: TypeTimingAnomaly, Severity: SeverityMedium, Score: 70},
	}

	result := Aggregate(reports, findings)
	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, "dup", result.Anomalies[0].ReportID)
	assert.Equal(t, TypeTimingAnomaly, result.Anomalies[0].Type)
	assert.Equal(t, 70.0, result.Anomalies[0].Score)
	assert.Equal(t, []string{"other"}, result.NormalReportIDs)
}

func TestAggregateSortsByScoreDescending(t *testing.T) {
	findings := []Anomaly{
		{ReportID: "a", Type: TypeUnusualAmount, Score: 20},
		{ReportID: "b", Type: TypeFrequencySpike, Score: 90},
		{ReportID: "c", Type: TypeTimingAnomaly, Score: 55},
	}
	result := Aggregate(nil, findings)
	require.Len(t, result.Anomalies, 3)
	assert.Equal(t, "b", result.Anomalies[0].ReportID)
	assert.Equal(t, "c", result.Anomalies[1].ReportID)
	assert.Equal(t, "a", result.Anomalies[2].ReportID)
}

func TestAggregateStats(t *testing.T) {
	reports := []*report.Report{
		amountReport("a", 1),
		amountReport("b", 1),
		amountReport("c", 1),
		amountReport("d", 1),
	}
	findings := []Anomaly{
		{ReportID: "a", Type: TypeUnusualAmount, Score: 60},
		{ReportID: "b", Type: TypeFrequencySpike, Score: 40},
	}

	result := Aggregate(reports, findings)
	assert.Equal(t, 4, result.Stats.TotalReports)
	assert.Equal(t, 2, result.Stats.AnomalyCount)
	assert.Equal(t, 50.0, result.Stats.AnomalyRate)
	assert.Equal(t, 50.0, result.Stats.AverageScore)
	assert.Equal(t, 1, result.Stats.ByType[TypeUnusualAmount])
	assert.Equal(t, 1, result.Stats.ByType[TypeFrequencySpike])
	assert.ElementsMatch(t, []string{"c", "d"}, result.NormalReportIDs)
}

func TestAggregateEmptyBatch(t *testing.T) {
	result := Aggregate(nil, nil)
	assert.Empty(t, result.Anomalies)
	assert.Empty(t, result.NormalReportIDs)
	assert.Zero(t, result.Stats.AnomalyRate)
	assert.Zero(t, result.Stats.AverageScore)
}

func TestEngineDetectAll(t *testing.T) {
	amounts := []float64{100, 105, 98, 102, 100000}
	reports := make([]*report.Report, 0, len(amounts))
	for i, a := range amounts {
		r := amountReport(fmt.Sprintf("e%d", i), a)
		// Spread submissions out so the frequency detector stays quiet.
		r.SubmittedAt = anchorTime.Add(time.Duration(i) * 48 * time.Hour)
		r.IncidentDate = r.SubmittedAt.Add(-24 * time.Hour)
		reports = append(reports, r)
	}

	engine := NewEngine(logging.NewNopLogger())
	result := engine.DetectAll(reports)
	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, "e4", result.Anomalies[0].ReportID)
	assert.Len(t, result.NormalReportIDs, 4)
}

func TestEngineCheckReport(t *testing.T) {
	amounts := []float64{100, 105, 98, 102, 100000}
	reports := make([]*report.Report, 0, len(amounts))
	for i, a := range amounts {
		r := amountReport(fmt.Sprintf("c%d", i), a)
		r.SubmittedAt = anchorTime.Add(time.Duration(i) * 48 * time.Hour)
		r.IncidentDate = r.SubmittedAt.Add(-24 * time.Hour)
		reports = append(reports, r)
	}

	engine := NewEngine(logging.NewNopLogger())
	hit := engine.CheckReport(reports, "c4")
	require.NotNil(t, hit)
	assert.Equal(t, TypeUnusualAmount, hit.Type)

	assert.Nil(t, engine.CheckReport(reports, "c0"))
	assert.Nil(t, engine.CheckReport(reports, "missing"))
}
