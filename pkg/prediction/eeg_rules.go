package prediction

import (
	"fmt"

	"github.com/neurofuse/neurofuse/pkg/features"
)

// Band-ratio thresholds for the rule-based EEG classifier. A high
// alpha/beta ratio marks relaxation, a low one marks tension; an elevated
// theta/beta ratio marks low mood; beta dominance marks anxiety.
const (
	relaxedAlphaBetaRatio  = 1.2
	stressedAlphaBetaRatio = 0.8
	sadThetaBetaRatio      = 1.5
	happySpectralEntropy   = 4.0

	highAnxietyBetaShare     = 0.45
	moderateAnxietyBetaShare = 0.30
)

// RuleBasedEEGPredictor is a deterministic threshold classifier over the
// session feature summary. It exists to exercise the fusion engine with
// reproducible predictions; a trained model drops in behind the same
// interface.
type RuleBasedEEGPredictor struct{}

// NewRuleBasedEEGPredictor creates the reference EEG predictor.
func NewRuleBasedEEGPredictor() *RuleBasedEEGPredictor {
	return &RuleBasedEEGPredictor{}
}

// Predict classifies emotion and anxiety from band ratios and spectral
// entropy. Identical summaries always yield identical predictions.
func (p *RuleBasedEEGPredictor) Predict(summary *features.FeatureSummary) (*EEGResult, error) {
	if summary == nil {
		return nil, fmt.Errorf("nil feature summary")
	}

	emotion := p.classifyEmotion(summary)
	anxiety := p.classifyAnxiety(summary)
	return &EEGResult{Emotion: emotion, Anxiety: anxiety}, nil
}

func (p *RuleBasedEEGPredictor) classifyEmotion(summary *features.FeatureSummary) Prediction {
	ab := summary.Spectral.AlphaBetaRatio
	tb := summary.Spectral.ThetaBetaRatio

	var label string
	var peak float64
	switch {
	case ab >= relaxedAlphaBetaRatio:
		label, peak = "relaxed", 0.7
	case tb >= sadThetaBetaRatio:
		label, peak = "sad", 0.6
	case ab <= stressedAlphaBetaRatio:
		label, peak = "stressed", 0.65
	case summary.Spectral.SpectralEntropy < happySpectralEntropy:
		// A concentrated spectrum without tension markers reads as a calm,
		// positive state.
		label, peak = "happy", 0.55
	default:
		label, peak = "neutral", 0.6
	}

	probs := peaked(EmotionLabels, label, peak)
	return Prediction{Label: label, Probabilities: probs, Confidence: peak}
}

func (p *RuleBasedEEGPredictor) classifyAnxiety(summary *features.FeatureSummary) Prediction {
	var total float64
	for _, band := range features.Bands {
		total += summary.BandPowerMean[band.Name]
	}
	var betaShare float64
	if total > 0 {
		betaShare = summary.BandPowerMean["beta"] / total
	}

	var label string
	var peak float64
	switch {
	case betaShare >= highAnxietyBetaShare:
		label, peak = "high", 0.75
	case betaShare >= moderateAnxietyBetaShare:
		label, peak = "moderate", 0.65
	default:
		label, peak = "low", 0.7
	}

	probs := peaked(AnxietyLabels, label, peak)
	return Prediction{Label: label, Probabilities: probs, Confidence: peak}
}
