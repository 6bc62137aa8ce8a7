package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
)

func writeSnapshot(t *testing.T, reports []*report.Report) string {
	t.Helper()
	data, err := json.Marshal(reports)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func snapshotReport(id, county string, amount float64) *report.Report {
	submitted := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	return &report.Report{
		ID:              id,
		County:          county,
		Agency:          report.AgencyPolice,
		Categories:      []report.Category{report.CategoryBribery},
		IncidentDate:    submitted.AddDate(0, -1, 0),
		EstimatedAmount: amount,
		Description:     "officer demanded cash",
		SubmittedAt:     submitted,
	}
}

func TestLoadReports(t *testing.T) {
	path := writeSnapshot(t, []*report.Report{
		snapshotReport("r1", "Nairobi", 100),
		snapshotReport("r2", "Mombasa", 200),
	})

	reports, err := loadReports(path)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "r1", reports[0].ID)
}

func TestLoadReportsRejectsInvalidReport(t *testing.T) {
	bad := snapshotReport("r1", "Nairobi", 100)
	bad.Agency = "ministry_of_magic"
	path := writeSnapshot(t, []*report.Report{bad})

	_, err := loadReports(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "r1")
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, err := loadReports(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadReportsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := loadReports(path)
	assert.Error(t, err)
}

func TestCommandTree(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["analyze"])
	assert.True(t, names["text"])

	for _, c := range root.Commands() {
		if c.Name() == "analyze" {
			subs := make(map[string]bool)
			for _, s := range c.Commands() {
				subs[s.Name()] = true
			}
			assert.True(t, subs["cluster"])
			assert.True(t, subs["anomalies"])
			assert.True(t, subs["duplicates"])
			assert.True(t, subs["summary"])
		}
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"analyze", "anomalies"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestTextCompareRequiresTwoArgs(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"text", "compare", "only one"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	assert.Error(t, root.Execute())
}

func TestAnalyzeAnomaliesRunsOverSnapshot(t *testing.T) {
	reports := []*report.Report{
		snapshotReport("r1", "Nairobi", 100),
		snapshotReport("r2", "Mombasa", 105),
		snapshotReport("r3", "Kisumu", 98),
		snapshotReport("r4", "Nakuru", 102),
		snapshotReport("r5", "Kiambu", 100000),
	}
	path := writeSnapshot(t, reports)

	root := NewRootCommand()
	root.SetArgs([]string{"analyze", "anomalies", "--input", path, "--output", "json"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	require.NoError(t, root.Execute())
}
