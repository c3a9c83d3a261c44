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

// Package fusion combines EEG-derived and text-derived predictions into a
// single risk assessment under hard safety-override rules.
package fusion

import (
	"time"

	"github.com/neurofuse/neurofuse/pkg/config"
	"github.com/neurofuse/neurofuse/pkg/observability/logging"
	"github.com/neurofuse/neurofuse/pkg/observability/metrics"
	"github.com/neurofuse/neurofuse/pkg/prediction"
)

// Safety-rule constants. These are the system's central invariant: crisis
// language or high-confidence severe depression forces the highest risk
// level before any fusion arithmetic runs.
const (
	crisisOverrideConfidence     = 0.95
	depressionOverrideConfidence = 0.9
	severeDepressionThreshold    = 0.7
)

// Engine combines per-modality predictions. Engines are stateless and safe
// for concurrent use.
type Engine struct {
	defaultMode Mode
	riskWeights config.RiskWeights
}

// NewEngine creates a fusion engine. A nil config uses the documented
// defaults (attention mode, 0.3/0.4/0.3 risk weights).
func NewEngine(cfg *config.FusionConfig) *Engine {
	e := &Engine{
		defaultMode: ModeAttention,
		riskWeights: config.RiskWeights{Emotion: 0.3, Anxiety: 0.4, Depression: 0.3},
	}
	if cfg == nil {
		return e
	}
	if cfg.Mode != "" {
		e.defaultMode = Mode(cfg.Mode)
	}
	if w := cfg.RiskWeights; w.Emotion+w.Anxiety+w.Depression > 0 {
		e.riskWeights = w
	}
	return e
}

// Fuse runs the full decision procedure, strictly ordered: safety-override
// check, per-target fusion, risk aggregation, explanation assembly. Given
// identical inputs it returns identical results; there is no hidden
// randomness anywhere in the engine.
func (e *Engine) Fuse(req *Request) (*Result, error) {
	if req == nil || (req.EEG == nil && req.Text == nil) {
		return nil, &NoInputError{}
	}

	mode := req.Mode
	if mode == "" {
		mode = e.defaultMode
	}

	start := time.Now()
	defer func() {
		metrics.RecordFusionEvaluation(string(mode), time.Since(start).Seconds())
	}()

	if err := validateInputs(req); err != nil {
		return nil, err
	}

	// Safety rules run first and dominate everything else. This check never
	// fails: inputs were validated above, and the flags are read with nil
	// guards.
	if override := e.applySafetyRules(req.Text); override != nil {
		override.Mode = mode
		metrics.RecordRiskLevel(string(override.RiskLevel))
		return override, nil
	}

	emotionFusion, anxietyFusion, err := e.fuseTargets(req, mode)
	if err != nil {
		return nil, err
	}

	result := e.assessRisk(emotionFusion, anxietyFusion, req.Text)
	result.Mode = mode
	result.Explanation = e.buildExplanation(emotionFusion, anxietyFusion, result, mode)

	metrics.RecordRiskLevel(string(result.RiskLevel))
	logging.Debugf("fusion complete: mode=%s risk=%s score=%.2f", mode, result.RiskLevel, result.RiskScore)
	return result, nil
}

// validateInputs fails fast on malformed upstream predictions instead of
// silently renormalizing, so predictor bugs surface immediately.
func validateInputs(req *Request) error {
	if req.EEG != nil {
		if err := req.EEG.Emotion.Validate(); err != nil {
			return err
		}
		if err := req.EEG.Anxiety.Validate(); err != nil {
			return err
		}
	}
	if req.Text != nil {
		if err := req.Text.Depression.Validate(); err != nil {
			return err
		}
	}
	if req.Calibration != nil {
		if err := req.Calibration.Emotion.validate("emotion"); err != nil {
			return err
		}
		if err := req.Calibration.Anxiety.validate("anxiety"); err != nil {
			return err
		}
	}
	return nil
}

// applySafetyRules evaluates the non-negotiable overrides. Returns nil when
// no rule fires.
func (e *Engine) applySafetyRules(text *prediction.TextResult) *Result {
	if text == nil {
		return nil
	}

	if text.SafetyFlags.HasCrisisIndicators {
		logging.Warnf("crisis indicators detected, applying safety override")
		metrics.RecordSafetyOverride("crisis_language")
		return &Result{
			RiskLevel:      RiskHigh,
			Confidence:     crisisOverrideConfidence,
			SafetyOverride: true,
			Explanation: []string{
				"Crisis indicators detected in text input",
				"Immediate professional help recommended",
				"Safety is the top priority",
			},
		}
	}

	if text.Depression.Label == "severe" && text.Depression.Confidence > severeDepressionThreshold {
		logging.Warnf("severe depression detected with confidence %.2f, applying safety override",
			text.Depression.Confidence)
		metrics.RecordSafetyOverride("severe_depression")
		return &Result{
			RiskLevel:      RiskHigh,
			Confidence:     depressionOverrideConfidence,
			SafetyOverride: true,
			Explanation: []string{
				"Severe depression indicators in text analysis",
				"Professional evaluation recommended within 24-48 hours",
				"This assessment is for guidance only, not diagnosis",
			},
		}
	}

	return nil
}

// fuseTargets computes the per-target fused predictions for the requested
// mode.
func (e *Engine) fuseTargets(req *Request, mode Mode) (emotion, anxiety FusedPrediction, err error) {
	var eegEmotion, eegAnxiety *prediction.Prediction
	if req.EEG != nil {
		eegEmotion = &req.EEG.Emotion
		eegAnxiety = &req.EEG.Anxiety
	}

	var textEmotion, textAnxiety *prediction.Prediction
	if req.Text != nil {
		te := emotionFromSentiment(req.Text.Sentiment)
		ta := anxietyFromKeywords(req.Text.AnxietyKeywords)
		textEmotion, textAnxiety = &te, &ta
	}

	var emotionCal, anxietyCal *SourceWeights
	if req.Calibration != nil {
		emotionCal = &req.Calibration.Emotion
		anxietyCal = &req.Calibration.Anxiety
	}

	switch mode {
	case ModeBayesian:
		emotion = bayesianFuse(prediction.EmotionLabels, emotionPrior, eegEmotion, textEmotion)
		anxiety = bayesianFuse(prediction.AnxietyLabels, anxietyPrior, eegAnxiety, textAnxiety)
	case ModeEnsemble:
		emotion = ensembleFuse(prediction.EmotionLabels, emotionPrior, eegEmotion, textEmotion)
		anxiety = ensembleFuse(prediction.AnxietyLabels, anxietyPrior, eegAnxiety, textAnxiety)
	default:
		emotion = attentionFuse(prediction.EmotionLabels, eegEmotion, textEmotion, emotionCal)
		anxiety = attentionFuse(prediction.AnxietyLabels, eegAnxiety, textAnxiety, anxietyCal)
	}
	return emotion, anxiety, nil
}
