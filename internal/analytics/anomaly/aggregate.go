package anomaly

import (
	"sort"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

// Stats summarizes an aggregated detection run.
type Stats struct {
	TotalReports int          `json:"total_reports"`
	AnomalyCount int          `json:"anomaly_count"`
	AnomalyRate  float64      `json:"anomaly_rate"`
	AverageScore float64      `json:"average_score"`
	ByType       map[Type]int `json:"by_type"`
}

// Result is the aggregated outcome of a detection run: one anomaly per
// flagged report, the complement of normal reports, and summary stats.
type Result struct {
	Anomalies       []Anomaly `json:"anomalies"`
	NormalReportIDs []string  `json:"normal_report_ids"`
	Stats           Stats     `json:"stats"`
}

// Aggregate merges raw detector findings into a Result.  When several
// detectors flag the same report, the highest-scored finding wins; ties keep
// the finding seen first, which follows detector registration order.  The
// surviving anomalies are sorted by score descending, then by report ID for a
// stable order between runs.
func Aggregate(reports []*report.Report, findings []Anomaly) *Result {
	best := make(map[string]Anomaly)
	for _, f := range findings {
		prev, ok := best[f.ReportID]
		if !ok || f.Score > prev.Score {
			best[f.ReportID] = f
		}
	}

	anomalies := make([]Anomaly, 0, len(best))
	byType := make(map[Type]int)
	scoreSum := 0.0
	for _, a := range best {
		anomalies = append(anomalies, a)
		byType[a.Type]++
		scoreSum += a.Score
	}
	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].Score != anomalies[j].Score {
			return anomalies[i].Score > anomalies[j].Score
		}
		return anomalies[i].ReportID < anomalies[j].ReportID
	})

	normal := make([]string, 0, len(reports))
	for _, r := range reports {
		if _, flagged := best[r.ID]; !flagged {
			normal = append(normal, r.ID)
		}
	}

	stats := Stats{
		TotalReports: len(reports),
		AnomalyCount: len(anomalies),
		ByType:       byType,
	}
	if len(reports) > 0 {
		stats.AnomalyRate = float64(len(anomalies)) / float64(len(reports)) * 100
	}
	if len(anomalies) > 0 {
		stats.AverageScore = scoreSum / float64(len(anomalies))
	}

	return &Result{
		Anomalies:       anomalies,
		NormalReportIDs: normal,
		Stats:           stats,
	}
}
