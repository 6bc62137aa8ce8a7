// Package anomaly implements the statistical anomaly-detection half of the
// analytics engine: four independent detectors over a report batch and the
// aggregator that merges, deduplicates and scores their findings.
package anomaly

import (
	"sort"
	"time"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

// Type identifies which detector produced an anomaly.
type Type string

const (
	TypeUnusualAmount     Type = "unusual_amount"
	TypeFrequencySpike    Type = "frequency_spike"
	TypeGeographicOutlier Type = "geographic_outlier"
	TypeTimingAnomaly     Type = "timing_anomaly"
)

// Severity grades how far a finding deviates from the batch norm.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly is one detector finding for one report.  Score is clamped to
// [0, 100]; after aggregation at most one Anomaly survives per report.
type Anomaly struct {
	ReportID string                 `json:"report_id"`
	Type     Type                   `json:"type"`
	Severity Severity               `json:"severity"`
	Reason   string                 `json:"reason"`
	Details  map[string]interface{} `json:"details"`
	Score    float64                `json:"score"`
}

// Detector is the contract every statistical detector satisfies.  Detectors
// operate over the full batch and degrade gracefully: a detector whose
// minimum sample size is not met returns no findings rather than an error,
// so one detector's data scarcity never aborts the others.
type Detector interface {
	// Name returns a stable identifier for logging and metrics.
	Name() string

	// Detect scans the batch and returns zero or more findings.  The same
	// report may be flagged by several detectors; deduplication happens in
	// the aggregator.
	Detect(reports []*report.Report) []Anomaly
}

// clampScore bounds a raw score to [0, 100].
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Engine runs a detector set over a batch and aggregates the results.
type Engine struct {
	detectors []Detector
	logger    logging.Logger
}

// NewEngine constructs an Engine over the given detectors; when none are
// supplied the default four-detector set is used.
func NewEngine(logger logging.Logger, detectors ...Detector) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	if len(detectors) == 0 {
		detectors = []Detector{
			NewAmountDetector(),
			NewFrequencyDetector(),
			NewGeographicDetector(),
			NewTimingDetector(time.Now),
		}
	}
	return &Engine{detectors: detectors, logger: logger}
}

// DetectAll runs every detector over the batch and returns the aggregated,
// deduplicated result.
func (e *Engine) DetectAll(reports []*report.Report) *Result {
	var findings []Anomaly
	for _, d := range e.detectors {
		found := d.Detect(reports)
		e.logger.Debug("detector finished",
			logging.String("detector", d.Name()),
			logging.Int("findings", len(found)),
		)
		findings = append(findings, found...)
	}
	return Aggregate(reports, findings)
}

// CheckReport runs the full batch analysis and returns the surviving anomaly
// for the given report, or nil when the report is normal.  Detectors are
// batch-statistical, so a single report can only be judged in context.
func (e *Engine) CheckReport(reports []*report.Report, reportID string) *Anomaly {
	result := e.DetectAll(reports)
	for i := range result.Anomalies {
		if result.Anomalies[i].ReportID == reportID {
			return &result.Anomalies[i]
		}
	}
	return nil
}

// sortBySubmission orders a copy of the slice by submission time ascending.
func sortBySubmission(reports []*report.Report) []*report.Report {
	out := append([]*report.Report(nil), reports...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}
