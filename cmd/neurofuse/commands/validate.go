package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurofuse/neurofuse/pkg/config"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long:  `Parse and validate a YAML configuration file without running any analysis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Parse(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%s is valid: sampling_rate=%d Hz, bandpass=%.1f-%.1f Hz, fusion=%s\n",
				configPath, cfg.Processing.SamplingRateHz,
				cfg.Processing.Filter.LowHz, cfg.Processing.Filter.HighHz,
				cfg.Fusion.Mode)
			return nil
		},
	}
}
