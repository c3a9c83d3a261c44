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

	"github.com/neurofuse/neurofuse/pkg/prediction"
)

// Risk thresholds and per-bucket confidences. Fixed constants so the same
// inputs always map to the same assessment.
const (
	highRiskThreshold     = 1.5
	moderateRiskThreshold = 1.0
	mildRiskThreshold     = 0.5

	highRiskConfidence     = 0.85
	moderateRiskConfidence = 0.75
	mildRiskConfidence     = 0.65
	stableRiskConfidence   = 0.70
)

// Ordinal severity contributions per target label.
var (
	emotionSeverity = map[string]float64{
		"sad":      2,
		"stressed": 2,
		"neutral":  1,
	}
	anxietySeverity = map[string]float64{
		"low":      0,
		"moderate": 1,
		"high":     2,
	}
	depressionSeverity = map[string]float64{
		"not_depressed": 0,
		"moderate":      1,
		"severe":        2,
	}
)

// assessRisk maps each fused target label to an ordinal severity, averages
// them with the engine's weights renormalized over whichever targets are
// present, and buckets the score into the final risk level.
func (e *Engine) assessRisk(emotion, anxiety FusedPrediction, text *prediction.TextResult) *Result {
	var weightedSum, weightTotal float64

	weightedSum += e.riskWeights.Emotion * emotionSeverity[emotion.Label]
	weightTotal += e.riskWeights.Emotion

	weightedSum += e.riskWeights.Anxiety * anxietySeverity[anxiety.Label]
	weightTotal += e.riskWeights.Anxiety

	// Depression has no EEG counterpart; it enters straight from the text
	// side when available.
	if text != nil {
		weightedSum += e.riskWeights.Depression * depressionSeverity[text.Depression.Label]
		weightTotal += e.riskWeights.Depression
	}

	var score float64
	if weightTotal > 0 {
		score = weightedSum / weightTotal
	}

	level, confidence := bucketRisk(score)
	return &Result{
		RiskLevel:     level,
		Confidence:    confidence,
		RiskScore:     score,
		EmotionFusion: emotion,
		AnxietyFusion: anxiety,
	}
}

func bucketRisk(score float64) (RiskLevel, float64) {
	switch {
	case score >= highRiskThreshold:
		return RiskHigh, highRiskConfidence
	case score >= moderateRiskThreshold:
		return RiskModerate, moderateRiskConfidence
	case score >= mildRiskThreshold:
		return RiskMild, mildRiskConfidence
	default:
		return RiskStable, stableRiskConfidence
	}
}

// buildExplanation assembles the explanation list in fixed order: source
// weighting, per-target findings, modality agreement, the risk sentence, and
// the fusion mode.
func (e *Engine) buildExplanation(emotion, anxiety FusedPrediction, result *Result, mode Mode) []string {
	var lines []string

	switch {
	case emotion.WeightEEG > 0 && emotion.WeightText > 0:
		if emotion.WeightEEG > emotion.WeightText {
			lines = append(lines, fmt.Sprintf(
				"EEG patterns were weighted more heavily (%.0f%%) because the EEG classifier reported higher confidence",
				emotion.WeightEEG*100))
		} else {
			lines = append(lines, fmt.Sprintf(
				"Text analysis was weighted more heavily (%.0f%%) because it reported higher confidence",
				emotion.WeightText*100))
		}
	case emotion.WeightText == 0 && emotion.WeightEEG > 0:
		lines = append(lines, "Only EEG-derived predictions were available for this assessment")
	case emotion.WeightEEG == 0 && emotion.WeightText > 0:
		lines = append(lines, "Only text-derived predictions were available for this assessment")
	}

	lines = append(lines, fmt.Sprintf(
		"Combined analysis indicates a %s emotional state with %.0f%% confidence",
		emotion.Label, emotion.Confidence*100))
	lines = append(lines, fmt.Sprintf(
		"Anxiety level assessed as %s with %.0f%% confidence",
		anxiety.Label, anxiety.Confidence*100))

	if emotion.Agreement != nil {
		if *emotion.Agreement {
			lines = append(lines, "EEG signals and text analysis agree on the emotional state")
		} else {
			lines = append(lines, "EEG signals and text analysis differ on the emotional state; both perspectives are reflected above")
		}
	}

	lines = append(lines, fmt.Sprintf(
		"Overall risk assessment: %s (score: %.2f/2.0)", result.RiskLevel, result.RiskScore))
	lines = append(lines, fmt.Sprintf("Analysis used %s fusion", mode))

	return lines
}
