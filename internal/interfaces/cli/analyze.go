package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uwazilabs/haki-analytics/internal/analytics/anomaly"
	"github.com/uwazilabs/haki-analytics/internal/analytics/cluster"
	"github.com/uwazilabs/haki-analytics/internal/analytics/text"
	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

// loadReports reads and validates a JSON snapshot: a top-level array of
// report objects.  Every report must pass domain validation; the first
// invalid one aborts the load.
func loadReports(path string) ([]*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var reports []*report.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	for i, r := range reports {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot report %d (%s): %w", i, r.ID, err)
		}
	}
	return reports, nil
}

func newAnalyzeCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run batch analytics over a report snapshot",
	}

	var input string
	cmd.PersistentFlags().StringVarP(&input, "input", "i", "", "path to the JSON report snapshot (required)")
	_ = cmd.MarkPersistentFlagRequired("input")

	var k int
	clusterCmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group reports into behavioral clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := loadReports(input)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("k") && opts.Config != nil {
				k = opts.Config.Analytics.DefaultClusterCount
			}
			c := cluster.NewClusterer(cluster.WithK(k), cluster.WithLogger(logging.Default()))
			clusters, err := c.Cluster(reports)
			if err != nil {
				return err
			}

			if opts.Output == "json" {
				return printJSON(clusters)
			}
			for _, cl := range clusters {
				fmt.Printf("cluster %d: %d reports, dominant agency %s, average amount KES %.0f\n",
					cl.ID, len(cl.ReportIDs),
					cl.Characteristics.DominantAgency, cl.Characteristics.AverageAmount)
			}
			return nil
		},
	}
	clusterCmd.Flags().IntVarP(&k, "k", "k", cluster.DefaultK, "number of clusters")

	anomaliesCmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Run the statistical anomaly detectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := loadReports(input)
			if err != nil {
				return err
			}

			result := anomaly.NewEngine(logging.Default()).DetectAll(reports)
			if opts.Output == "json" {
				return printJSON(result)
			}
			fmt.Printf("%d of %d reports anomalous (%.1f%%)\n",
				result.Stats.AnomalyCount, result.Stats.TotalReports, result.Stats.AnomalyRate)
			for _, a := range result.Anomalies {
				fmt.Printf("  %s  %-20s %-7s score %.0f  %s\n",
					a.ReportID, a.Type, a.Severity, a.Score, a.Reason)
			}
			return nil
		},
	}

	var threshold float64
	duplicatesCmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Find reports with near-identical descriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := loadReports(input)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("threshold") && opts.Config != nil {
				threshold = opts.Config.Analytics.DuplicateThreshold
			}
			groups := text.FindDuplicates(reports, threshold)
			if opts.Output == "json" {
				return printJSON(groups)
			}
			if len(groups) == 0 {
				fmt.Println("no duplicate groups found")
				return nil
			}
			for i, g := range groups {
				fmt.Printf("group %d (similarity %.2f): %v\n", i, g.Similarity, g.ReportIDs)
			}
			return nil
		},
	}
	duplicatesCmd.Flags().Float64Var(&threshold, "threshold", text.DefaultDuplicateThreshold,
		"similarity threshold in (0, 1]")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a one-sentence overview of the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := loadReports(input)
			if err != nil {
				return err
			}
			summary := text.NewAnalyzer().Summarize(reports)
			if opts.Output == "json" {
				return printJSON(map[string]string{"summary": summary})
			}
			fmt.Println(summary)
			return nil
		},
	}

	cmd.AddCommand(clusterCmd, anomaliesCmd, duplicatesCmd, summaryCmd)
	return cmd
}
