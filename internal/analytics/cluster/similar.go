package cluster

import (
	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

// similarMaxClusters caps the cluster count used for similar-report lookup.
const similarMaxClusters = 10

// FindSimilar returns up to limit reports from the candidate pool that land
// in the same cluster as the target.  The pool is clustered into
// min(10, pool size) groups with the receiver's random source and iteration
// bound.  When clustering is impossible (e.g., the pool is too small) the
// result is empty rather than an error: similarity lookup is best-effort.
func (c *Clusterer) FindSimilar(target *report.Report, pool []*report.Report, limit int) []*report.Report {
	if target == nil || limit <= 0 {
		return nil
	}

	batch := make([]*report.Report, 0, len(pool)+1)
	seen := false
	for _, r := range pool {
		if r.ID == target.ID {
			seen = true
		}
		batch = append(batch, r)
	}
	if !seen {
		batch = append(batch, target)
	}

	k := similarMaxClusters
	if len(batch) < k {
		k = len(batch)
	}

	lookup := &Clusterer{
		k:       k,
		maxIter: c.maxIter,
		rng:     c.rng,
		now:     c.now,
		logger:  c.logger,
	}
	clusters, err := lookup.Cluster(batch)
	if err != nil {
		c.logger.Debug("similar-report lookup skipped", logging.Err(err))
		return nil
	}

	byID := make(map[string]*report.Report, len(batch))
	for _, r := range batch {
		byID[r.ID] = r
	}

	for _, cl := range clusters {
		if !contains(cl.ReportIDs, target.ID) {
			continue
		}
		out := make([]*report.Report, 0, limit)
		for _, id := range cl.ReportIDs {
			if id == target.ID {
				continue
			}
			out = append(out, byID[id])
			if len(out) == limit {
				break
			}
		}
		return out
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
