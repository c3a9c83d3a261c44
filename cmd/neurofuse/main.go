package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/neurofuse/neurofuse/cmd/neurofuse/commands"
	"github.com/neurofuse/neurofuse/pkg/observability/logging"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	defer func() { _ = logging.Sync() }()

	rootCmd := &cobra.Command{
		Use:   "neurofuse",
		Short: "EEG and journal analysis with multi-modal risk fusion",
		Long: `neurofuse processes single-channel EEG recordings together with optional
journal text and produces a fused mental-state risk assessment.

Common workflows:
  neurofuse analyze -i recording.csv                 # EEG-only analysis
  neurofuse analyze -i recording.csv -t journal.txt  # EEG plus journal text
  neurofuse validate -c config.yaml                  # Validate a configuration`,
		Version: version + " (commit: " + gitCommit + ")",
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (defaults apply when empty)")

	rootCmd.AddCommand(commands.NewAnalyzeCmd())
	rootCmd.AddCommand(commands.NewValidateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
