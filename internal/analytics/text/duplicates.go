package text

import "github.com/uwazilabs/haki-analytics/internal/domain/report"

// DefaultDuplicateThreshold is the pairwise similarity above which two
// descriptions are considered duplicates.
const DefaultDuplicateThreshold = 0.7

// DuplicateGroup is a set of report ids whose descriptions tell the same
// story.
type DuplicateGroup struct {
	ReportIDs  []string `json:"report_ids"`
	Similarity float64  `json:"similarity"`
}

// FindDuplicates greedily groups reports whose description similarity meets
// the threshold.  Each report is anchored at most once: once grouped it is
// never compared again, so groups are disjoint.  Only groups of two or more
// are returned; Similarity carries the weakest pairwise link to the group's
// anchor.
func FindDuplicates(reports []*report.Report, threshold float64) []DuplicateGroup {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}

	processed := make(map[string]struct{}, len(reports))
	var groups []DuplicateGroup

	for i, anchor := range reports {
		if _, done := processed[anchor.ID]; done {
			continue
		}
		processed[anchor.ID] = struct{}{}

		group := DuplicateGroup{ReportIDs: []string{anchor.ID}, Similarity: 1}
		for _, candidate := range reports[i+1:] {
			if _, done := processed[candidate.ID]; done {
				continue
			}
			sim := Similarity(anchor.Description, candidate.Description)
			if sim < threshold {
				continue
			}
			processed[candidate.ID] = struct{}{}
			group.ReportIDs = append(group.ReportIDs, candidate.ID)
			if sim < group.Similarity {
				group.Similarity = sim
			}
		}

		if len(group.ReportIDs) >= 2 {
			groups = append(groups, group)
		}
	}
	return groups
}
