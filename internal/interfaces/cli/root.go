// Package cli implements the haki command line tool: offline clustering,
// anomaly detection and text analysis over a JSON report snapshot, without a
// running API server.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uwazilabs/haki-analytics/internal/config"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags and, when --config is given, the
// loaded configuration for engine defaults.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string // "json" | "text"

	Config *config.Config
}

// NewRootCommand builds the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "haki",
		Short:   "Analytics over Kenya corruption-report snapshots",
		Long:    "haki runs the report analytics engine offline: behavioral clustering,\nstatistical anomaly detection and heuristic text analysis over a JSON\nsnapshot of corruption reports.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigPath != "" {
				cfg, err := config.Load(opts.ConfigPath)
				if err != nil {
					return err
				}
				opts.Config = cfg
			}

			logger, err := logging.NewLogger(logging.LogConfig{
				Level:  opts.LogLevel,
				Format: "console",
			})
			if err != nil {
				return err
			}
			logging.SetDefault(logger)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file for engine defaults (optional)")
	pf.StringVar(&opts.LogLevel, "log-level", "error", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newTextCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
