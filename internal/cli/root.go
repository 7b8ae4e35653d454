package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "perfcounter",
	Short:   "Exercise and inspect replication perf counters",
	Version: version,
	Long: `Perfcounter is the performance-counter subsystem used by the replication
server: cheap counters for hot code paths (cumulative totals, per-second
rates, and latency percentiles) with all aggregation kept off the
recording path.

This tool exercises the library against a synthetic workload and renders
live counter tables, which is useful when validating percentile behavior
or tuning the recomputation interval.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Add subcommands to root command
	RootCmd.AddCommand(demoCmd)
	RootCmd.AddCommand(configCmd)
}
