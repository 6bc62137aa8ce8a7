package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

func testReport(id, county string, agency report.Agency, amount float64, incident time.Time) *report.Report {
	return &report.Report{
		ID:              id,
		County:          county,
		Agency:          agency,
		Categories:      []report.Category{report.CategoryBribery},
		IncidentDate:    incident,
		EstimatedAmount: amount,
		Description:     "test report",
		SubmittedAt:     incident.Add(24 * time.Hour),
	}
}

func testBatch(n int) []*report.Report {
	counties := []string{"Nairobi", "Mombasa", "Kisumu", "Nakuru"}
	agencies := report.Agencies()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	out := make([]*report.Report, n)
	for i := 0; i < n; i++ {
		out[i] = testReport(
			fmt.Sprintf("r%02d", i),
			counties[i%len(counties)],
			agencies[i%len(agencies)],
			float64(100*(i+1)),
			base.AddDate(0, 0, -i*10),
		)
	}
	return out
}

func TestCountyIndex_FirstSeenOrder(t *testing.T) {
	batch := []*report.Report{
		testReport("a", "Mombasa", report.AgencyPolice, 0, time.Now()),
		testReport("b", "Nairobi", report.AgencyPolice, 0, time.Now()),
		testReport("c", "Mombasa", report.AgencyPolice, 0, time.Now()),
	}
	idx := CountyIndex(batch)
	assert.Equal(t, map[string]int{"Mombasa": 0, "Nairobi": 1}, idx)
}

func TestVectorize(t *testing.T) {
	incident := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := testReport("a", "Nairobi", report.AgencyJudiciary, 999, incident)
	idx := map[string]int{"Nairobi": 3}

	v := Vectorize(r, idx)
	require.Len(t, v, FeatureDim)
	assert.InDelta(t, 3.0/47.0, v[0], 1e-12)
	assert.InDelta(t, 1.0/11.0, v[1], 1e-12)
	assert.InDelta(t, math.Log(1000)/20.0, v[2], 1e-12)
	assert.InDelta(t, float64(incident.UnixMilli())/1e12, v[3], 1e-12)
	assert.InDelta(t, 1.0/7.0, v[4], 1e-12)
}

func TestVectorize_MissingAmount(t *testing.T) {
	r := testReport("a", "Nairobi", report.AgencyPolice, 0, time.Now())
	v := Vectorize(r, map[string]int{"Nairobi": 0})
	assert.Zero(t, v[2])
}

func TestClusterer_InsufficientData(t *testing.T) {
	c := NewClusterer(WithK(5))
	_, err := c.Cluster(testBatch(3))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientData))
}

func TestClusterer_PartitionInvariant(t *testing.T) {
	for _, k := range []int{2, 3, 5} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			batch := testBatch(20)
			c := NewClusterer(WithK(k), WithRand(rand.New(rand.NewSource(42))))
			clusters, err := c.Cluster(batch)
			require.NoError(t, err)

			seen := make(map[string]int)
			total := 0
			for _, cl := range clusters {
				assert.NotEmpty(t, cl.ReportIDs, "empty clusters must be dropped")
				assert.Len(t, cl.Centroid, FeatureDim)
				assert.Equal(t, len(cl.ReportIDs), cl.Characteristics.ReportCount)
				total += cl.Characteristics.ReportCount
				for _, id := range cl.ReportIDs {
					seen[id]++
				}
			}
			assert.Equal(t, len(batch), total, "report counts must sum to the batch size")
			assert.Len(t, seen, len(batch), "every report must be assigned")
			for id, n := range seen {
				assert.Equal(t, 1, n, "report %s assigned to %d clusters", id, n)
			}
		})
	}
}

func TestClusterer_DeterministicWithFixedSeed(t *testing.T) {
	batch := testBatch(15)

	run := func() []*Cluster {
		c := NewClusterer(WithK(3), WithRand(rand.New(rand.NewSource(7))))
		clusters, err := c.Cluster(batch)
		require.NoError(t, err)
		return clusters
	}

	first := run()
	second := run()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ReportIDs, second[i].ReportIDs)
		assert.Equal(t, first[i].Centroid, second[i].Centroid)
	}
}

func TestClusterer_NonFiniteAmountFailsCompute(t *testing.T) {
	batch := testBatch(6)
	batch[2].EstimatedAmount = math.Inf(1)

	c := NewClusterer(WithK(2), WithRand(rand.New(rand.NewSource(5))))
	clusters, err := c.Cluster(batch)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeComputeFailed))
	assert.Nil(t, clusters)
}

func TestClusterer_KEqualsBatchSize(t *testing.T) {
	batch := testBatch(4)
	c := NewClusterer(WithK(4), WithRand(rand.New(rand.NewSource(1))))
	clusters, err := c.Cluster(batch)
	require.NoError(t, err)

	total := 0
	for _, cl := range clusters {
		total += len(cl.ReportIDs)
	}
	assert.Equal(t, 4, total)
}

func TestCharacterize(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * 24 * time.Hour)
	old := now.AddDate(-3, 0, 0)

	members := []*report.Report{
		testReport("a", "Nairobi", report.AgencyPolice, 1000, recent),
		testReport("b", "Nairobi", report.AgencyPolice, 0, recent),
		testReport("c", "Mombasa", report.AgencyJudiciary, 3000, recent),
		testReport("d", "Kisumu", report.AgencyPolice, 0, old),
	}

	ch := Characterize(members, now)
	assert.Equal(t, report.AgencyPolice, ch.DominantAgency)
	assert.InDelta(t, 2000.0, ch.AverageAmount, 1e-9, "average over amount>0 members only")
	assert.Equal(t, []string{"Nairobi", "Mombasa", "Kisumu"}, ch.CommonCounties)
	assert.Equal(t, PatternRecent, ch.TimePattern, "3 of 4 within six months")
	assert.Equal(t, 4, ch.ReportCount)
}

func TestCharacterize_TimePatterns(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-7 * 24 * time.Hour)
	old := now.AddDate(-2, 0, 0)

	historical := Characterize([]*report.Report{
		testReport("a", "Nairobi", report.AgencyPolice, 0, old),
		testReport("b", "Nairobi", report.AgencyPolice, 0, old),
		testReport("c", "Nairobi", report.AgencyPolice, 0, old),
		testReport("d", "Nairobi", report.AgencyPolice, 0, old),
	}, now)
	assert.Equal(t, PatternHistorical, historical.TimePattern)

	mixed := Characterize([]*report.Report{
		testReport("a", "Nairobi", report.AgencyPolice, 0, recent),
		testReport("b", "Nairobi", report.AgencyPolice, 0, old),
	}, now)
	assert.Equal(t, PatternMixed, mixed.TimePattern)
}

func TestCharacterize_NoAmounts(t *testing.T) {
	now := time.Now()
	ch := Characterize([]*report.Report{
		testReport("a", "Nairobi", report.AgencyPolice, 0, now),
	}, now)
	assert.Zero(t, ch.AverageAmount)
}

func TestFindSimilar(t *testing.T) {
	batch := testBatch(30)
	c := NewClusterer(WithRand(rand.New(rand.NewSource(11))))

	similar := c.FindSimilar(batch[0], batch, 5)
	assert.LessOrEqual(t, len(similar), 5)
	for _, r := range similar {
		assert.NotEqual(t, batch[0].ID, r.ID, "target must not be in its own results")
	}
}

func TestFindSimilar_TinyPool(t *testing.T) {
	target := testReport("t", "Nairobi", report.AgencyPolice, 100, time.Now())
	c := NewClusterer(WithRand(rand.New(rand.NewSource(3))))

	assert.Empty(t, c.FindSimilar(target, nil, 5))
	assert.Empty(t, c.FindSimilar(target, []*report.Report{target}, 0))
}
