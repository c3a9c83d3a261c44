// Package prediction defines the prediction data model, the EEG- and
// text-side predictor capabilities, and deterministic rule-based reference
// implementations used to exercise the fusion engine without a trained model.
package prediction

import (
	"fmt"
	"math"
)

// probabilityTolerance is the allowed deviation of a probability vector's
// sum from 1.
const probabilityTolerance = 1e-6

// Fixed label sets. Order matters: fusion iterates these slices so results
// are reproducible across runs.
var (
	EmotionLabels    = []string{"happy", "sad", "neutral", "stressed", "relaxed"}
	AnxietyLabels    = []string{"low", "moderate", "high"}
	DepressionLabels = []string{"not_depressed", "moderate", "severe"}
)

// Prediction is one classifier output: a winning label, a probability
// distribution over the label set, and a confidence. Confidence equals the
// maximum probability unless a predictor explicitly overrides it (the
// keyword-scoring text rules do). Predictions are produced once and never
// mutated afterward.
type Prediction struct {
	Label         string
	Probabilities map[string]float64
	Confidence    float64
}

// Validate checks that the probabilities form a distribution and the
// confidence is a probability. Malformed predictions indicate an upstream
// predictor bug and must fail fast rather than be silently repaired.
func (p Prediction) Validate() error {
	if p.Label == "" {
		return &InvalidPredictionError{Reason: "empty label"}
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return &InvalidPredictionError{Reason: fmt.Sprintf("confidence %g outside [0, 1]", p.Confidence)}
	}
	var sum float64
	for label, prob := range p.Probabilities {
		if prob < 0 || prob > 1 {
			return &InvalidPredictionError{Reason: fmt.Sprintf("probability %g for %q outside [0, 1]", prob, label)}
		}
		sum += prob
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return &InvalidPredictionError{Reason: fmt.Sprintf("probabilities sum to %g, want 1", sum)}
	}
	if _, ok := p.Probabilities[p.Label]; !ok {
		return &InvalidPredictionError{Reason: fmt.Sprintf("label %q missing from probability map", p.Label)}
	}
	return nil
}

// InvalidPredictionError reports a malformed prediction from an upstream
// predictor.
type InvalidPredictionError struct {
	Reason string
}

func (e *InvalidPredictionError) Error() string {
	return "invalid prediction: " + e.Reason
}

// SafetyFlags is produced by the text-analysis side and consumed read-only
// by the fusion engine's safety-override check.
type SafetyFlags struct {
	// HasCrisisIndicators is true when crisis language was found
	HasCrisisIndicators bool

	// MatchedKeywords lists the crisis keywords that matched
	MatchedKeywords []string
}

// Sentiment is the text side's coarse polarity output.
type Sentiment struct {
	Label string // positive, negative, or neutral
	Score float64
}

// AnxietyKeywords is the text side's keyword-tier anxiety assessment.
type AnxietyKeywords struct {
	Level string // low, moderate, or high
	// Scores counts keyword matches per tier
	Scores map[string]int
}

// EEGResult bundles the EEG side's per-target predictions.
type EEGResult struct {
	Emotion Prediction
	Anxiety Prediction
}

// TextResult bundles the text side's outputs. The text analyzer itself is an
// external collaborator; the core only consumes this shape.
type TextResult struct {
	Depression      Prediction
	Sentiment       Sentiment
	AnxietyKeywords AnxietyKeywords
	SafetyFlags     SafetyFlags
}

// peaked builds a distribution that puts peak mass on the winner and spreads
// the remainder evenly over the other labels.
func peaked(labels []string, winner string, peak float64) map[string]float64 {
	rest := (1 - peak) / float64(len(labels)-1)
	probs := make(map[string]float64, len(labels))
	for _, label := range labels {
		if label == winner {
			probs[label] = peak
		} else {
			probs[label] = rest
		}
	}
	return probs
}
