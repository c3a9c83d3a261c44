// Package explanation turns feature summaries and fusion results into
// ranked, template-based explanation strings. No free-form generation: every
// sentence comes from a fixed template triggered by its own condition, so
// identical inputs always produce identical output.
package explanation

import (
	"fmt"

	"github.com/neurofuse/neurofuse/pkg/features"
	"github.com/neurofuse/neurofuse/pkg/fusion"
)

// Expected relative band-power distribution for a resting adult recording.
// Bands are flagged high above 1.3x and low below 0.7x of expectation.
var expectedBandShare = map[string]float64{
	"delta": 0.15,
	"theta": 0.20,
	"alpha": 0.35,
	"beta":  0.25,
	"gamma": 0.05,
}

const (
	highBandFactor = 1.3
	lowBandFactor  = 0.7

	relaxedRatioThreshold = 1.2
	tenseRatioThreshold   = 0.8
)

// bandTemplates holds the per-band interpretation sentences.
var bandTemplates = map[string]map[string]string{
	"delta": {
		"high": "Delta waves are elevated, which can indicate deep relaxation or fatigue",
		"low":  "Delta waves are reduced, suggesting alert wakefulness",
	},
	"theta": {
		"high": "Theta waves are prominent, often associated with creativity and deep meditation",
		"low":  "Theta waves are minimal, indicating focused attention",
	},
	"alpha": {
		"high": "Alpha waves are strong, suggesting a relaxed and calm mental state",
		"low":  "Alpha waves are reduced, which may indicate stress or active concentration",
	},
	"beta": {
		"high": "Beta waves are elevated, indicating active thinking but possibly stress or anxiety",
		"low":  "Beta waves are low, suggesting a very relaxed state",
	},
	"gamma": {
		"high": "Gamma waves are increased, associated with high-level cognitive processing",
		"low":  "Gamma waves are minimal",
	},
}

var riskDescriptions = map[fusion.RiskLevel]string{
	fusion.RiskStable:   "a stable mental state with no immediate concerns",
	fusion.RiskMild:     "mild concerns that may benefit from self-care attention",
	fusion.RiskModerate: "moderate risk requiring active coping strategies and monitoring",
	fusion.RiskHigh:     "elevated risk requiring professional evaluation and support",
}

// fewEpochsThreshold triggers the reliability note for short recordings.
const fewEpochsThreshold = 10

// Builder assembles explanations. Stateless; safe for concurrent use.
type Builder struct{}

// NewBuilder creates an explanation builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build composes the explanation list for one session: signal-level
// interpretations first, then the fusion findings. Under a safety override
// the override's own explanation is returned unmodified, with nothing
// prepended that could dilute it.
func (b *Builder) Build(summary *features.FeatureSummary, result *fusion.Result) []string {
	if result != nil && result.SafetyOverride {
		out := make([]string, len(result.Explanation))
		copy(out, result.Explanation)
		return out
	}

	var lines []string
	if summary != nil {
		lines = append(lines, b.describeBands(summary)...)
		lines = append(lines, b.describeRatio(summary)...)
	}
	if result != nil {
		lines = append(lines, fmt.Sprintf(
			"Combined analysis suggests %s (%.0f%% confidence)",
			riskDescriptions[result.RiskLevel], result.Confidence*100))
		lines = append(lines, result.Explanation...)
	}
	if summary != nil && summary.EpochCount < fewEpochsThreshold {
		lines = append(lines, fmt.Sprintf(
			"Note: analysis based on %d epochs; longer recordings may provide more reliable results",
			summary.EpochCount))
	}
	return lines
}

// describeBands flags bands whose share of total power deviates from the
// expected resting distribution, in fixed band order.
func (b *Builder) describeBands(summary *features.FeatureSummary) []string {
	var total float64
	for _, band := range features.Bands {
		total += summary.BandPowerMean[band.Name]
	}
	if total == 0 {
		return nil
	}

	var lines []string
	for _, band := range features.Bands {
		share := summary.BandPowerMean[band.Name] / total
		expected := expectedBandShare[band.Name]
		switch {
		case share > expected*highBandFactor:
			lines = append(lines, bandTemplates[band.Name]["high"])
		case share < expected*lowBandFactor:
			lines = append(lines, bandTemplates[band.Name]["low"])
		}
	}
	return lines
}

func (b *Builder) describeRatio(summary *features.FeatureSummary) []string {
	ratio := summary.Spectral.AlphaBetaRatio
	switch {
	case ratio > relaxedRatioThreshold:
		return []string{fmt.Sprintf(
			"High alpha-to-beta ratio (%.2f) suggests good relaxation capacity", ratio)}
	case ratio > 0 && ratio < tenseRatioThreshold:
		return []string{fmt.Sprintf(
			"Low alpha-to-beta ratio (%.2f) may indicate mental tension or alertness", ratio)}
	default:
		return nil
	}
}
