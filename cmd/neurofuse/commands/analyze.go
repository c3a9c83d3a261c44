// Package commands implements the neurofuse CLI subcommands.
package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurofuse/neurofuse/pkg/config"
	"github.com/neurofuse/neurofuse/pkg/fusion"
	"github.com/neurofuse/neurofuse/pkg/pipeline"
	"github.com/neurofuse/neurofuse/pkg/prediction"
	"github.com/neurofuse/neurofuse/pkg/signal"
)

// analysisReport is the JSON document written by the analyze command.
type analysisReport struct {
	SessionID   string             `json:"session_id"`
	RiskLevel   fusion.RiskLevel   `json:"risk_level"`
	Confidence  float64            `json:"confidence"`
	RiskScore   float64            `json:"risk_score"`
	Override    bool               `json:"safety_override"`
	Mode        fusion.Mode        `json:"fusion_mode"`
	Emotion     *fusedTarget       `json:"emotion,omitempty"`
	Anxiety     *fusedTarget       `json:"anxiety,omitempty"`
	EpochCount  int                `json:"epoch_count,omitempty"`
	BandPowers  map[string]float64 `json:"band_power_means,omitempty"`
	Explanation []string           `json:"explanation"`
}

type fusedTarget struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	WeightEEG  float64 `json:"weight_eeg"`
	WeightText float64 `json:"weight_text"`
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an EEG recording and optional journal text",
		Long: `Run the full pipeline on a single-channel EEG recording (one sample per
line, CSV) and an optional journal text file, then print the fused risk
assessment as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			textPath, _ := cmd.Flags().GetString("text")
			rate, _ := cmd.Flags().GetInt("rate")
			mode, _ := cmd.Flags().GetString("mode")
			configPath, _ := cmd.Flags().GetString("config")

			if input == "" && textPath == "" {
				return fmt.Errorf("at least one of --input or --text is required")
			}
			return runAnalyze(cmd.OutOrStdout(), input, textPath, rate, mode, configPath)
		},
	}

	cmd.Flags().StringP("input", "i", "", "CSV file with one EEG sample per line")
	cmd.Flags().StringP("text", "t", "", "Journal text file")
	cmd.Flags().IntP("rate", "r", 0, "Sampling rate in Hz (overrides config)")
	cmd.Flags().StringP("mode", "m", "", "Fusion mode: attention, bayesian, or ensemble")

	return cmd
}

func runAnalyze(out io.Writer, input, textPath string, rate int, mode, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if rate <= 0 {
		rate = cfg.Processing.SamplingRateHz
	}

	session := pipeline.Session{
		SamplingRate: rate,
		Filter: signal.FilterSpec{
			LowHz:   cfg.Processing.Filter.LowHz,
			HighHz:  cfg.Processing.Filter.HighHz,
			Order:   cfg.Processing.Filter.Order,
			NotchHz: cfg.Processing.Filter.NotchHz,
			NotchQ:  cfg.Processing.Filter.NotchQ,
		},
		EpochSeconds: cfg.Processing.EpochLengthSeconds,
		Overlap:      cfg.Processing.EpochOverlap,
		Mode:         fusion.Mode(mode),
	}

	if input != "" {
		samples, err := readSamples(input)
		if err != nil {
			return err
		}
		session.Raw = samples
	}
	if textPath != "" {
		data, err := os.ReadFile(textPath)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		session.Text = string(data)
	}

	runner := pipeline.NewRunner(
		prediction.NewRuleBasedEEGPredictor(),
		prediction.NewRuleBasedTextPredictor(&cfg.TextRules),
		cfg,
	)
	result := runner.RunOne(context.Background(), session)
	if result.Err != nil {
		return result.Err
	}

	report := buildReport(result)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func buildReport(result pipeline.SessionResult) analysisReport {
	report := analysisReport{
		SessionID:   result.ID,
		RiskLevel:   result.Fusion.RiskLevel,
		Confidence:  result.Fusion.Confidence,
		RiskScore:   result.Fusion.RiskScore,
		Override:    result.Fusion.SafetyOverride,
		Mode:        result.Fusion.Mode,
		Explanation: result.Explanation,
	}
	if !result.Fusion.SafetyOverride {
		report.Emotion = &fusedTarget{
			Label:      result.Fusion.EmotionFusion.Label,
			Confidence: result.Fusion.EmotionFusion.Confidence,
			WeightEEG:  result.Fusion.EmotionFusion.WeightEEG,
			WeightText: result.Fusion.EmotionFusion.WeightText,
		}
		report.Anxiety = &fusedTarget{
			Label:      result.Fusion.AnxietyFusion.Label,
			Confidence: result.Fusion.AnxietyFusion.Confidence,
			WeightEEG:  result.Fusion.AnxietyFusion.WeightEEG,
			WeightText: result.Fusion.AnxietyFusion.WeightText,
		}
	}
	if result.Summary != nil {
		report.EpochCount = result.Summary.EpochCount
		report.BandPowers = result.Summary.BandPowerMean
	}
	return report
}

// readSamples reads a single-column CSV of float samples. A header line is
// tolerated and skipped when its first field does not parse as a number.
func readSamples(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var samples []float64
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		line++
		if len(record) == 0 {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		samples = append(samples, value)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s contains no samples", path)
	}
	return samples, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Parse(path)
}
