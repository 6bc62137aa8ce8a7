package anomaly

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

// amountMinSamples is the minimum number of amount-bearing reports the
// z-score computation needs to be meaningful.
const amountMinSamples = 3

// AmountDetector flags reports whose estimated amount deviates more than two
// standard deviations from the rest of the batch.
type AmountDetector struct{}

// NewAmountDetector constructs the detector.
func NewAmountDetector() *AmountDetector { return &AmountDetector{} }

// Name implements Detector.
func (d *AmountDetector) Name() string { return "unusual_amount" }

// Detect scores each amount-bearing report against the mean and population
// standard deviation of the OTHER amounts in the batch and flags |z| > 2.
// The leave-one-out baseline matters: with whole-batch statistics a single
// extreme value inflates the deviation it is measured against, capping |z|
// at sqrt(n-1) and masking exactly the outliers this detector exists to
// catch.  With fewer than 3 amount-bearing reports, or a zero baseline
// deviation, a report is "not anomalous", never NaN.
func (d *AmountDetector) Detect(reports []*report.Report) []Anomaly {
	type sample struct {
		r      *report.Report
		amount float64
	}
	samples := make([]sample, 0, len(reports))
	values := make([]float64, 0, len(reports))
	for _, r := range reports {
		if r.EstimatedAmount > 0 {
			samples = append(samples, sample{r: r, amount: r.EstimatedAmount})
			values = append(values, r.EstimatedAmount)
		}
	}
	if len(samples) < amountMinSamples {
		return nil
	}

	var out []Anomaly
	rest := make([]float64, 0, len(values)-1)
	for i, s := range samples {
		rest = rest[:0]
		rest = append(rest, values[:i]...)
		rest = append(rest, values[i+1:]...)

		mean := stat.Mean(rest, nil)
		variance := 0.0
		for _, v := range rest {
			diff := v - mean
			variance += diff * diff
		}
		stddev := math.Sqrt(variance / float64(len(rest)))
		if stddev == 0 || math.IsNaN(stddev) || math.IsInf(stddev, 0) {
			continue
		}

		z := math.Abs((s.amount - mean) / stddev)
		if math.IsNaN(z) || math.IsInf(z, 0) || z <= 2 {
			continue
		}

		severity := SeverityLow
		switch {
		case z > 3:
			severity = SeverityHigh
		case z > 2.5:
			severity = SeverityMedium
		}

		out = append(out, Anomaly{
			ReportID: s.r.ID,
			Type:     TypeUnusualAmount,
			Severity: severity,
			Reason: fmt.Sprintf("amount %.0f is %.1f standard deviations from the batch mean of %.0f",
				s.amount, z, mean),
			Details: map[string]interface{}{
				"amount":  s.amount,
				"mean":    mean,
				"stddev":  stddev,
				"z_score": z,
			},
			Score: clampScore(z * 20),
		})
	}
	return out
}
