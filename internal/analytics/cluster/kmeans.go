package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

const (
	// DefaultK is the cluster count used when the caller does not override it.
	DefaultK = 5

	// DefaultMaxIterations bounds centroid refinement.
	DefaultMaxIterations = 100
)

// Cluster is one group of behaviorally similar reports with its representative
// centroid and summary characteristics.  Instances are immutable once returned.
type Cluster struct {
	ID              int             `json:"id"`
	Centroid        []float64       `json:"centroid"`
	ReportIDs       []string        `json:"report_ids"`
	Characteristics Characteristics `json:"characteristics"`
}

// Clusterer partitions report batches with iterative k-means refinement.
// Randomness is injected so tests can fix the seed and assert exact
// assignments.
type Clusterer struct {
	k       int
	maxIter int
	rng     *rand.Rand
	now     func() time.Time
	logger  logging.Logger
}

// Option customises a Clusterer.
type Option func(*Clusterer)

// WithK overrides the number of clusters.
func WithK(k int) Option {
	return func(c *Clusterer) {
		if k > 0 {
			c.k = k
		}
	}
}

// WithMaxIterations overrides the refinement iteration bound.
func WithMaxIterations(n int) Option {
	return func(c *Clusterer) {
		if n > 0 {
			c.maxIter = n
		}
	}
}

// WithRand injects a seedable random source for centroid initialization and
// empty-cluster reseeding.
func WithRand(rng *rand.Rand) Option {
	return func(c *Clusterer) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithClock injects the time source used by cluster characterization.
func WithClock(now func() time.Time) Option {
	return func(c *Clusterer) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger injects the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Clusterer) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClusterer constructs a Clusterer with DefaultK / DefaultMaxIterations and
// a time-seeded random source unless overridden.
func NewClusterer(opts ...Option) *Clusterer {
	c := &Clusterer{
		k:       DefaultK,
		maxIter: DefaultMaxIterations,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		logger:  logging.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Cluster partitions the batch into k non-empty clusters.  It fails with
// ErrCodeInsufficientData when the batch is smaller than k.  Every input
// report belongs to exactly one returned cluster; clusters that end up with
// zero members are dropped from the output.
func (c *Clusterer) Cluster(reports []*report.Report) ([]*Cluster, error) {
	if len(reports) < c.k {
		return nil, errors.InsufficientData(
			fmt.Sprintf("clustering needs at least %d reports, got %d", c.k, len(reports)))
	}

	vectors := VectorizeBatch(reports)
	centroids := c.initialCentroids(vectors)
	assignments := make([]int, len(vectors))
	previous := make([]int, len(vectors))
	for i := range previous {
		previous[i] = -1
	}

	iterations := 0
	for iter := 0; iter < c.maxIter; iter++ {
		iterations = iter + 1
		for i, v := range vectors {
			assignments[i] = nearestCentroid(v, centroids)
		}
		if equalAssignments(assignments, previous) {
			break
		}
		copy(previous, assignments)

		// Centroid means are recomputed in a fixed 0..k-1 order from
		// pre-partitioned member lists, never concurrently, so the output
		// ordering is deterministic for a fixed random source.
		members := partition(assignments, c.k)
		for ci := 0; ci < c.k; ci++ {
			if len(members[ci]) == 0 {
				centroids[ci] = c.randomVector()
				continue
			}
			centroids[ci] = meanVector(vectors, members[ci])
		}
	}

	for ci := range centroids {
		if err := validateCentroid(centroids[ci]); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("k-means converged",
		logging.Int("k", c.k),
		logging.Int("reports", len(reports)),
		logging.Int("iterations", iterations),
	)

	return c.materialize(reports, centroids, assignments), nil
}

// initialCentroids copies k distinct report vectors chosen at random.
func (c *Clusterer) initialCentroids(vectors [][]float64) [][]float64 {
	perm := c.rng.Perm(len(vectors))
	centroids := make([][]float64, c.k)
	for i := 0; i < c.k; i++ {
		centroids[i] = append([]float64(nil), vectors[perm[i]]...)
	}
	return centroids
}

func (c *Clusterer) randomVector() []float64 {
	v := make([]float64, FeatureDim)
	for i := range v {
		v[i] = c.rng.Float64()
	}
	return v
}

// nearestCentroid returns the index of the centroid minimizing squared
// Euclidean distance; ties resolve to the lowest index.
func nearestCentroid(v []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, cen := range centroids {
		d := floats.Distance(v, cen, 2)
		d *= d
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// partition groups point indices by their assigned cluster.
func partition(assignments []int, k int) [][]int {
	members := make([][]int, k)
	for i, a := range assignments {
		members[a] = append(members[a], i)
	}
	return members
}

// meanVector computes the mean of the selected vectors.
func meanVector(vectors [][]float64, indices []int) []float64 {
	acc := make([]float64, FeatureDim)
	for _, i := range indices {
		floats.Add(acc, vectors[i])
	}
	floats.Scale(1/float64(len(indices)), acc)
	return acc
}

// validateCentroid intercepts NaN/Inf components so a numeric failure surfaces
// as ErrCodeComputeFailed instead of propagating silently into results.
func validateCentroid(v []float64) error {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.ComputeFailed("centroid contains a non-finite component")
		}
	}
	return nil
}

func equalAssignments(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// materialize turns centroids and assignments into the non-empty output
// clusters, characterized over their member reports.  Output cluster IDs are
// renumbered densely in centroid order.
func (c *Clusterer) materialize(reports []*report.Report, centroids [][]float64, assignments []int) []*Cluster {
	members := partition(assignments, c.k)
	now := c.now()

	out := make([]*Cluster, 0, c.k)
	for ci := 0; ci < c.k; ci++ {
		if len(members[ci]) == 0 {
			continue
		}
		memberReports := make([]*report.Report, 0, len(members[ci]))
		ids := make([]string, 0, len(members[ci]))
		for _, i := range members[ci] {
			memberReports = append(memberReports, reports[i])
			ids = append(ids, reports[i].ID)
		}
		out = append(out, &Cluster{
			ID:              len(out),
			Centroid:        centroids[ci],
			ReportIDs:       ids,
			Characteristics: Characterize(memberReports, now),
		})
	}
	return out
}
