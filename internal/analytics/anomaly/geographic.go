package anomaly

import (
	"fmt"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

const (
	// geographicMinAgencyReports is the minimum agency total before county
	// shares are meaningful.
	geographicMinAgencyReports = 10

	// geographicMaxShare is the county share (percent) below which a county
	// is a candidate outlier.
	geographicMaxShare = 2.0

	// geographicMaxAbsolute is the absolute county count a candidate outlier
	// must also stay under.
	geographicMaxAbsolute = 2
)

// GeographicDetector flags counties that barely register for an agency that
// is otherwise widely reported.
type GeographicDetector struct{}

// NewGeographicDetector constructs the detector.
func NewGeographicDetector() *GeographicDetector { return &GeographicDetector{} }

// Name implements Detector.
func (d *GeographicDetector) Name() string { return "geographic_outlier" }

// Detect flags, per agency with >= 10 total reports, every report from a
// county holding < 2% of that agency's reports AND <= 2 absolute reports.
// Both conditions are required, so rare-but-numerous counties in very large
// agencies stay unflagged.
func (d *GeographicDetector) Detect(reports []*report.Report) []Anomaly {
	byAgency := make(map[report.Agency][]*report.Report)
	for _, r := range reports {
		byAgency[r.Agency] = append(byAgency[r.Agency], r)
	}

	var out []Anomaly
	for agency, group := range byAgency {
		total := len(group)
		if total < geographicMinAgencyReports {
			continue
		}

		countyCounts := make(map[string]int)
		for _, r := range group {
			countyCounts[r.County]++
		}

		for _, r := range group {
			count := countyCounts[r.County]
			share := float64(count) / float64(total) * 100
			if share >= geographicMaxShare || count > geographicMaxAbsolute {
				continue
			}

			score := 100 - share*10
			if score < 10 {
				score = 10
			}
			out = append(out, Anomaly{
				ReportID: r.ID,
				Type:     TypeGeographicOutlier,
				Severity: SeverityLow,
				Reason: fmt.Sprintf("%s holds only %.1f%% of reports against %s",
					r.County, share, agency),
				Details: map[string]interface{}{
					"county":        r.County,
					"agency":        string(agency),
					"county_count":  count,
					"agency_total":  total,
					"share_percent": share,
				},
				Score: clampScore(score),
			})
		}
	}
	return out
}
