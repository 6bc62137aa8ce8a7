// Package cluster implements the behavioral clustering half of the analytics
// engine: feature vectorization of reports, iterative k-means partitioning,
// and per-cluster characterization.
package cluster

import (
	"math"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

// FeatureDim is the fixed length of a report feature vector.
const FeatureDim = 5

// amountLogScale divides the log-scaled amount so that even very large sums
// stay within the unit range of the other features.
const amountLogScale = 20.0

// timestampScale normalizes millisecond epoch timestamps.
const timestampScale = 1e12

// CountyIndex builds the batch-local county → ordinal map: unique counties in
// first-seen order.  The mapping is consistent within one call but NOT stable
// across batches, so vectors from different batches must never be compared.
func CountyIndex(reports []*report.Report) map[string]int {
	idx := make(map[string]int)
	for _, r := range reports {
		if _, ok := idx[r.County]; !ok {
			idx[r.County] = len(idx)
		}
	}
	return idx
}

// Vectorize encodes a single report into its FeatureDim-float vector:
// county ordinal / 47, agency ordinal / 11, ln(amount+1) / 20, incident
// timestamp (ms) / 1e12, category count / 7.  A missing amount is treated
// as 0; there are no error conditions.
func Vectorize(r *report.Report, countyIdx map[string]int) []float64 {
	amount := r.EstimatedAmount
	if amount < 0 {
		amount = 0
	}
	return []float64{
		float64(countyIdx[r.County]) / float64(report.CountyCount),
		float64(r.Agency.Ordinal()) / float64(report.AgencyCount),
		math.Log(amount+1) / amountLogScale,
		float64(r.IncidentDate.UnixMilli()) / timestampScale,
		float64(len(r.Categories)) / float64(report.CategoryCount),
	}
}

// VectorizeBatch encodes every report in the batch against a shared
// batch-local county index.
func VectorizeBatch(reports []*report.Report) [][]float64 {
	idx := CountyIndex(reports)
	vecs := make([][]float64, len(reports))
	for i, r := range reports {
		vecs[i] = Vectorize(r, idx)
	}
	return vecs
}
