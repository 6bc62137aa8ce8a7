package anomaly

import (
	"fmt"
	"time"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

const (
	// frequencyMinGroup is the minimum group size worth scanning.
	frequencyMinGroup = 5

	// frequencyWindow is the sliding window width over submission times.
	frequencyWindow = 24 * time.Hour

	// frequencyThreshold is the window population that constitutes a spike.
	frequencyThreshold = 5
)

// FrequencyDetector flags submission bursts: five or more reports against the
// same county and agency within a 24-hour window.
type FrequencyDetector struct{}

// NewFrequencyDetector constructs the detector.
func NewFrequencyDetector() *FrequencyDetector { return &FrequencyDetector{} }

// Name implements Detector.
func (d *FrequencyDetector) Name() string { return "frequency_spike" }

// Detect groups the batch by (county, agency) and scans each group, sorted by
// submission time, with a 24-hour sliding window.  Every report inside a
// window holding >= 5 reports is flagged, and the scan then advances past the
// whole window.
//
// Note: advancing past a flagged window means a second spike that starts
// inside it is not re-scanned.  This is intentional, documented behavior
// pending product clarification, not an oversight to fix here.
func (d *FrequencyDetector) Detect(reports []*report.Report) []Anomaly {
	groups := make(map[string][]*report.Report)
	for _, r := range reports {
		key := r.County + "|" + string(r.Agency)
		groups[key] = append(groups[key], r)
	}

	var out []Anomaly
	for _, group := range groups {
		if len(group) < frequencyMinGroup {
			continue
		}
		sorted := sortBySubmission(group)

		i := 0
		for i < len(sorted) {
			j := i
			for j < len(sorted) && sorted[j].SubmittedAt.Sub(sorted[i].SubmittedAt) <= frequencyWindow {
				j++
			}
			count := j - i
			if count < frequencyThreshold {
				i++
				continue
			}

			severity := SeverityLow
			switch {
			case count >= 10:
				severity = SeverityHigh
			case count >= 7:
				severity = SeverityMedium
			}
			score := clampScore(float64(count) * 10)

			for _, r := range sorted[i:j] {
				out = append(out, Anomaly{
					ReportID: r.ID,
					Type:     TypeFrequencySpike,
					Severity: severity,
					Reason: fmt.Sprintf("%d reports against %s in %s submitted within 24 hours",
						count, r.Agency, r.County),
					Details: map[string]interface{}{
						"county":       r.County,
						"agency":       string(r.Agency),
						"window_count": count,
						"window_start": sorted[i].SubmittedAt,
					},
					Score: score,
				})
			}
			i = j
		}
	}
	return out
}
