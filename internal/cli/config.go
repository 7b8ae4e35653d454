package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replisys/perfcounter/internal/config"
	"github.com/replisys/perfcounter/internal/stats"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective perfcounter configuration",
	Long: `Load a YAML configuration file and print the values the counter
subsystem would actually use, with defaults filled in.

Example:
  perfcounter config --file perfcounter.yaml`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().String("file", "", "YAML configuration file (omit to show defaults)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	var src config.Source = config.Static{}
	if path != "" {
		f, err := config.Load(path)
		if err != nil {
			return err
		}
		src = f
	}

	interval := src.GetInt("perfcounter", "computation_interval_seconds", 30)
	capacity := src.GetInt("perfcounter", "sample_capacity", stats.DefaultCapacity)

	fmt.Fprintf(cmd.OutOrStdout(), "computation_interval_seconds: %d\n", interval)
	fmt.Fprintf(cmd.OutOrStdout(), "sample_capacity:              %d\n", capacity)
	return nil
}
