package anomaly

import (
	"fmt"
	"time"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

const (
	// oddHourStart / oddHourEnd bound the local-time submission window that
	// is considered unusual (02:00 inclusive to 05:00 exclusive).
	oddHourStart = 2
	oddHourEnd   = 5

	// oddHourScore is the fixed score for an odd-hour submission.
	oddHourScore = 30

	// staleYears is how far an incident may predate its submission before it
	// is flagged as overdue.
	staleYears = 2.0

	// staleScorePerYear scales the overdue score; it is capped at staleScoreMax.
	staleScorePerYear = 15.0
	staleScoreMax     = 70.0

	hoursPerYear = 24 * 365
)

// TimingDetector flags two submission-timing patterns: reports filed in the
// small hours, and incidents reported years after they happened.
type TimingDetector struct {
	now func() time.Time
}

// NewTimingDetector constructs the detector with an injectable clock.
func NewTimingDetector(now func() time.Time) *TimingDetector {
	if now == nil {
		now = time.Now
	}
	return &TimingDetector{now: now}
}

// Name implements Detector.
func (d *TimingDetector) Name() string { return "timing_anomaly" }

// Detect flags (a) reports submitted between 02:00 and 05:00 local time with
// a fixed low-severity score of 30, and (b) reports whose incident date
// precedes submission by more than two years, scored min(70, years*15) and
// graded medium above five years.  A report matching both patterns yields two
// findings; the aggregator keeps the higher-scored one.
func (d *TimingDetector) Detect(reports []*report.Report) []Anomaly {
	var out []Anomaly
	for _, r := range reports {
		hour := r.SubmittedAt.Hour()
		if hour >= oddHourStart && hour < oddHourEnd {
			out = append(out, Anomaly{
				ReportID: r.ID,
				Type:     TypeTimingAnomaly,
				Severity: SeverityLow,
				Reason:   fmt.Sprintf("submitted at %02d:00, during unusual hours", hour),
				Details: map[string]interface{}{
					"submitted_hour": hour,
				},
				Score: oddHourScore,
			})
		}

		years := r.SubmittedAt.Sub(r.IncidentDate).Hours() / hoursPerYear
		if years > staleYears {
			severity := SeverityLow
			if years > 5 {
				severity = SeverityMedium
			}
			score := years * staleScorePerYear
			if score > staleScoreMax {
				score = staleScoreMax
			}
			out = append(out, Anomaly{
				ReportID: r.ID,
				Type:     TypeTimingAnomaly,
				Severity: severity,
				Reason:   fmt.Sprintf("incident reported %.1f years after it happened", years),
				Details: map[string]interface{}{
					"years_overdue": years,
				},
				Score: clampScore(score),
			})
		}
	}
	return out
}
