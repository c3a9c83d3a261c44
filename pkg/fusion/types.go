/*
Copyright 2026 The NeuroFuse Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fusion

import (
	"fmt"
	"math"

	"github.com/neurofuse/neurofuse/pkg/prediction"
)

// Mode selects the fusion arithmetic for combining EEG- and text-side
// predictions.
type Mode string

const (
	// ModeAttention weights each source by its own reported confidence
	ModeAttention Mode = "attention"

	// ModeBayesian updates a fixed population prior with each source's
	// probability vector
	ModeBayesian Mode = "bayesian"

	// ModeEnsemble averages the attention and bayesian fused vectors
	ModeEnsemble Mode = "ensemble"
)

// RiskLevel is the ordinal output of fusion: stable < mild < moderate < high.
type RiskLevel string

const (
	RiskStable   RiskLevel = "stable"
	RiskMild     RiskLevel = "mild"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Request carries one fusion call's inputs. At least one of EEG and Text
// must be set.
type Request struct {
	// EEG holds the EEG-side emotion and anxiety predictions, if available
	EEG *prediction.EEGResult

	// Text holds the text-side analysis, if available
	Text *prediction.TextResult

	// Mode selects the fusion arithmetic; empty uses the engine default
	Mode Mode

	// Calibration optionally replaces the confidence-derived attention
	// weights with per-user weights. Attention mode only.
	Calibration *Calibration
}

// Calibration holds per-user source weights, one pair per fusion target.
// Each pair must sum to 1.
type Calibration struct {
	Emotion SourceWeights
	Anxiety SourceWeights
}

// SourceWeights is a normalized weight pair over the two modalities.
type SourceWeights struct {
	EEG  float64
	Text float64
}

// validate checks that the weight pair forms a convex combination.
func (w SourceWeights) validate(target string) error {
	if w.EEG < 0 || w.Text < 0 {
		return &InvalidCalibrationError{
			Reason: fmt.Sprintf("%s weights must be non-negative, got eeg=%g text=%g", target, w.EEG, w.Text),
		}
	}
	if math.Abs(w.EEG+w.Text-1) > 1e-6 {
		return &InvalidCalibrationError{
			Reason: fmt.Sprintf("%s weights must sum to 1, got %g", target, w.EEG+w.Text),
		}
	}
	return nil
}

// FusedPrediction is a per-target fusion output. Agreement is nil whenever
// only one source contributed, so a missing modality is never reported as a
// disagreement.
type FusedPrediction struct {
	prediction.Prediction

	// Agreement reports whether the two sources picked the same label;
	// nil when fewer than two sources were present
	Agreement *bool

	// WeightEEG and WeightText are the attention weights that produced this
	// fusion (attention and ensemble modes; zero in pure bayesian mode)
	WeightEEG  float64
	WeightText float64
}

// Result is the immutable output of one fusion call.
type Result struct {
	// RiskLevel is the overall ordinal assessment
	RiskLevel RiskLevel

	// Confidence is the fixed per-bucket confidence of the risk level, or
	// the safety-rule confidence under an override
	Confidence float64

	// RiskScore is the weighted severity average in [0, 2]
	RiskScore float64

	// EmotionFusion and AnxietyFusion are the per-target fused predictions.
	// Empty (zero-valued) under a safety override, which short-circuits all
	// fusion arithmetic.
	EmotionFusion FusedPrediction
	AnxietyFusion FusedPrediction

	// SafetyOverride is true when a safety rule forced the result
	SafetyOverride bool

	// Explanation lists human-readable findings in presentation order
	Explanation []string

	// Mode is the fusion arithmetic that was used
	Mode Mode
}

// NoInputError reports a fusion call with neither EEG nor text predictions.
type NoInputError struct{}

func (e *NoInputError) Error() string {
	return "fusion requires at least one of EEG or text predictions"
}

// InvalidCalibrationError reports malformed per-user calibration weights.
type InvalidCalibrationError struct {
	Reason string
}

func (e *InvalidCalibrationError) Error() string {
	return "invalid calibration: " + e.Reason
}
