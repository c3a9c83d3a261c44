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
	"github.com/neurofuse/neurofuse/pkg/prediction"
)

// Fixed population priors for bayesian fusion. Documented constants, not
// call-time tunables, so results stay reproducible.
var (
	emotionPrior = map[string]float64{
		"happy":    0.25,
		"sad":      0.15,
		"neutral":  0.35,
		"stressed": 0.20,
		"relaxed":  0.05,
	}
	anxietyPrior = map[string]float64{
		"low":      0.60,
		"moderate": 0.30,
		"high":     0.10,
	}
)

// sentimentToEmotion is the fixed lookup that maps text sentiment onto the
// EEG emotion label space.
var sentimentToEmotion = map[string]string{
	"positive": "happy",
	"negative": "sad",
	"neutral":  "neutral",
}

// textEmotionPeak and textAnxietyPeak shape the categorical-to-distribution
// conversion for text-derived labels.
const (
	textEmotionPeak       = 0.8
	textAnxietyPeak       = 0.8
	textAnxietyConfidence = 0.7
)

// emotionFromSentiment converts the text side's sentiment into a prediction
// over the emotion label space.
func emotionFromSentiment(s prediction.Sentiment) prediction.Prediction {
	label, ok := sentimentToEmotion[s.Label]
	if !ok {
		label = "neutral"
	}
	return prediction.Prediction{
		Label:         label,
		Probabilities: peakedOver(prediction.EmotionLabels, label, textEmotionPeak),
		Confidence:    s.Score,
	}
}

// anxietyFromKeywords converts the keyword-tier anxiety level into a
// prediction over the anxiety label space. The level maps onto the label set
// directly.
func anxietyFromKeywords(k prediction.AnxietyKeywords) prediction.Prediction {
	label := k.Level
	if label != "low" && label != "moderate" && label != "high" {
		label = "low"
	}
	return prediction.Prediction{
		Label:         label,
		Probabilities: peakedOver(prediction.AnxietyLabels, label, textAnxietyPeak),
		Confidence:    textAnxietyConfidence,
	}
}

// attentionFuse weights each source by its own confidence, normalized so the
// weights sum to 1. Calibration, when present, replaces the derived weights.
// With a single source the fusion is that source unchanged, weight 1, and
// agreement undefined.
func attentionFuse(labels []string, eeg, text *prediction.Prediction, cal *SourceWeights) FusedPrediction {
	if eeg == nil && text == nil {
		return FusedPrediction{}
	}
	if text == nil {
		return FusedPrediction{Prediction: *eeg, WeightEEG: 1}
	}
	if eeg == nil {
		return FusedPrediction{Prediction: *text, WeightText: 1}
	}

	var wEEG, wText float64
	if cal != nil {
		wEEG, wText = cal.EEG, cal.Text
	} else {
		total := eeg.Confidence + text.Confidence
		if total > 0 {
			wEEG = eeg.Confidence / total
		} else {
			wEEG = 0.5
		}
		wText = 1 - wEEG
	}

	probs := make(map[string]float64, len(labels))
	for _, label := range labels {
		probs[label] = wEEG*eeg.Probabilities[label] + wText*text.Probabilities[label]
	}

	label, confidence := argmax(labels, probs)
	agreement := eeg.Label == text.Label
	return FusedPrediction{
		Prediction: prediction.Prediction{
			Label:         label,
			Probabilities: probs,
			Confidence:    confidence,
		},
		Agreement:  &agreement,
		WeightEEG:  wEEG,
		WeightText: wText,
	}
}

// bayesianFuse starts from the fixed population prior and multiplies in each
// available source's probability vector as a likelihood. A missing source
// contributes no update. The posterior is renormalized before the argmax.
func bayesianFuse(labels []string, prior map[string]float64, eeg, text *prediction.Prediction) FusedPrediction {
	if eeg == nil && text == nil {
		return FusedPrediction{}
	}

	posterior := make(map[string]float64, len(labels))
	for _, label := range labels {
		posterior[label] = prior[label]
	}
	for _, source := range []*prediction.Prediction{eeg, text} {
		if source == nil {
			continue
		}
		for _, label := range labels {
			posterior[label] *= source.Probabilities[label]
		}
	}
	normalize(labels, posterior)

	label, confidence := argmax(labels, posterior)
	fused := FusedPrediction{
		Prediction: prediction.Prediction{
			Label:         label,
			Probabilities: posterior,
			Confidence:    confidence,
		},
	}
	if eeg != nil && text != nil {
		agreement := eeg.Label == text.Label
		fused.Agreement = &agreement
	}
	return fused
}

// ensembleFuse averages the attention and bayesian fused vectors elementwise
// and renormalizes.
func ensembleFuse(labels []string, prior map[string]float64, eeg, text *prediction.Prediction) FusedPrediction {
	attention := attentionFuse(labels, eeg, text, nil)
	bayesian := bayesianFuse(labels, prior, eeg, text)
	if attention.Probabilities == nil || bayesian.Probabilities == nil {
		return attention
	}

	probs := make(map[string]float64, len(labels))
	for _, label := range labels {
		probs[label] = (attention.Probabilities[label] + bayesian.Probabilities[label]) / 2
	}
	normalize(labels, probs)

	label, confidence := argmax(labels, probs)
	return FusedPrediction{
		Prediction: prediction.Prediction{
			Label:         label,
			Probabilities: probs,
			Confidence:    confidence,
		},
		Agreement:  attention.Agreement,
		WeightEEG:  attention.WeightEEG,
		WeightText: attention.WeightText,
	}
}

// argmax returns the winning label and its probability, iterating the fixed
// label order so ties break deterministically.
func argmax(labels []string, probs map[string]float64) (string, float64) {
	best := labels[0]
	for _, label := range labels[1:] {
		if probs[label] > probs[best] {
			best = label
		}
	}
	return best, probs[best]
}

// normalize scales the vector to sum 1 in place. A zero vector becomes
// uniform, the documented fallback for degenerate posteriors.
func normalize(labels []string, probs map[string]float64) {
	var sum float64
	for _, label := range labels {
		sum += probs[label]
	}
	if sum == 0 {
		uniform := 1 / float64(len(labels))
		for _, label := range labels {
			probs[label] = uniform
		}
		return
	}
	for _, label := range labels {
		probs[label] /= sum
	}
}

// peakedOver builds a distribution with peak mass on the winner and the
// remainder spread evenly.
func peakedOver(labels []string, winner string, peak float64) map[string]float64 {
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
