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
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/neurofuse/neurofuse/pkg/prediction"
)

func TestFusion(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fusion Engine Suite")
}

// pred builds a valid peaked prediction over the given label set.
func pred(labels []string, winner string, peak float64) prediction.Prediction {
	rest := (1 - peak) / float64(len(labels)-1)
	probs := make(map[string]float64, len(labels))
	for _, label := range labels {
		if label == winner {
			probs[label] = peak
		} else {
			probs[label] = rest
		}
	}
	return prediction.Prediction{Label: winner, Probabilities: probs, Confidence: peak}
}

func eegResult(emotion string, emotionPeak float64, anxiety string, anxietyPeak float64) *prediction.EEGResult {
	return &prediction.EEGResult{
		Emotion: pred(prediction.EmotionLabels, emotion, emotionPeak),
		Anxiety: pred(prediction.AnxietyLabels, anxiety, anxietyPeak),
	}
}

func textResult(depression string, depressionConf float64, sentiment string, sentimentScore float64, anxietyLevel string) *prediction.TextResult {
	p := pred(prediction.DepressionLabels, depression, 0.8)
	p.Confidence = depressionConf
	return &prediction.TextResult{
		Depression: p,
		Sentiment:  prediction.Sentiment{Label: sentiment, Score: sentimentScore},
		AnxietyKeywords: prediction.AnxietyKeywords{
			Level:  anxietyLevel,
			Scores: map[string]int{"high": 0, "moderate": 0, "low": 0},
		},
	}
}

func probSum(probs map[string]float64) float64 {
	var sum float64
	for _, p := range probs {
		sum += p
	}
	return sum
}

var _ = Describe("Fusion Engine", func() {
	var engine *Engine

	BeforeEach(func() {
		engine = NewEngine(nil)
	})

	Describe("input validation", func() {
		It("rejects a nil request", func() {
			_, err := engine.Fuse(nil)
			Expect(err).To(BeAssignableToTypeOf(&NoInputError{}))
		})

		It("rejects a request with neither source", func() {
			_, err := engine.Fuse(&Request{})
			Expect(err).To(BeAssignableToTypeOf(&NoInputError{}))
		})

		It("rejects a malformed EEG prediction", func() {
			eeg := eegResult("relaxed", 0.8, "low", 0.7)
			eeg.Emotion.Probabilities["happy"] = 0.9 // breaks the sum
			_, err := engine.Fuse(&Request{EEG: eeg})
			Expect(err).To(BeAssignableToTypeOf(&prediction.InvalidPredictionError{}))
		})

		It("rejects calibration weights that do not sum to 1", func() {
			req := &Request{
				EEG:  eegResult("relaxed", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "neutral", 0.6, "low"),
				Calibration: &Calibration{
					Emotion: SourceWeights{EEG: 0.7, Text: 0.7},
					Anxiety: SourceWeights{EEG: 0.5, Text: 0.5},
				},
			}
			_, err := engine.Fuse(req)
			Expect(err).To(BeAssignableToTypeOf(&InvalidCalibrationError{}))
		})

		It("rejects negative calibration weights", func() {
			req := &Request{
				EEG:  eegResult("relaxed", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "neutral", 0.6, "low"),
				Calibration: &Calibration{
					Emotion: SourceWeights{EEG: 1.5, Text: -0.5},
					Anxiety: SourceWeights{EEG: 0.5, Text: 0.5},
				},
			}
			_, err := engine.Fuse(req)
			Expect(err).To(BeAssignableToTypeOf(&InvalidCalibrationError{}))
		})
	})

	Describe("safety overrides", func() {
		It("forces high risk on crisis indicators regardless of everything else", func() {
			text := textResult("not_depressed", 0.6, "positive", 0.9, "low")
			text.SafetyFlags = prediction.SafetyFlags{
				HasCrisisIndicators: true,
				MatchedKeywords:     []string{"end it all"},
			}
			req := &Request{
				EEG:  eegResult("relaxed", 0.9, "low", 0.9),
				Text: text,
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.SafetyOverride).To(BeTrue())
			Expect(result.RiskLevel).To(Equal(RiskHigh))
			Expect(result.Confidence).To(Equal(0.95))
			Expect(result.Explanation).ToNot(BeEmpty())
			// Fusion arithmetic is short-circuited entirely.
			Expect(result.EmotionFusion.Label).To(BeEmpty())
		})

		It("forces high risk on high-confidence severe depression", func() {
			req := &Request{Text: textResult("severe", 0.8, "negative", 0.7, "moderate")}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.SafetyOverride).To(BeTrue())
			Expect(result.RiskLevel).To(Equal(RiskHigh))
			Expect(result.Confidence).To(Equal(0.9))
		})

		It("does not fire the depression override at the threshold", func() {
			req := &Request{Text: textResult("severe", 0.7, "negative", 0.7, "moderate")}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.SafetyOverride).To(BeFalse())
		})

		It("never fires for EEG-only requests", func() {
			result, err := engine.Fuse(&Request{EEG: eegResult("sad", 0.9, "high", 0.9)})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.SafetyOverride).To(BeFalse())
		})
	})

	Describe("attention fusion", func() {
		It("passes an EEG-only prediction through with no agreement reported", func() {
			result, err := engine.Fuse(&Request{EEG: eegResult("relaxed", 0.8, "low", 0.7)})
			Expect(err).ToNot(HaveOccurred())

			Expect(result.EmotionFusion.Label).To(Equal("relaxed"))
			Expect(result.EmotionFusion.Confidence).To(Equal(0.8))
			Expect(result.EmotionFusion.WeightEEG).To(Equal(1.0))
			Expect(result.EmotionFusion.WeightText).To(BeZero())
			Expect(result.EmotionFusion.Agreement).To(BeNil())
			Expect(result.AnxietyFusion.Agreement).To(BeNil())
		})

		It("passes a text-only prediction through", func() {
			result, err := engine.Fuse(&Request{Text: textResult("not_depressed", 0.6, "positive", 0.7, "low")})
			Expect(err).ToNot(HaveOccurred())

			Expect(result.EmotionFusion.Label).To(Equal("happy"))
			Expect(result.EmotionFusion.WeightText).To(Equal(1.0))
			Expect(result.EmotionFusion.Agreement).To(BeNil())
		})

		It("weights sources by confidence and normalizes the fused distribution", func() {
			req := &Request{
				EEG:  eegResult("relaxed", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "negative", 0.9, "low"),
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())

			fused := result.EmotionFusion
			Expect(fused.WeightEEG + fused.WeightText).To(BeNumerically("~", 1.0, 1e-9))
			Expect(fused.WeightText).To(BeNumerically(">", fused.WeightEEG))
			Expect(probSum(fused.Probabilities)).To(BeNumerically("~", 1.0, 1e-9))
			Expect(probSum(result.AnxietyFusion.Probabilities)).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("reports disagreement and a risk above stable when a relaxed EEG meets strongly negative text", func() {
			req := &Request{
				EEG:  eegResult("relaxed", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "negative", 0.9, "low"),
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())

			// The more confident negative text pulls the fused emotion to sad.
			Expect(result.EmotionFusion.Label).To(Equal("sad"))
			Expect(result.EmotionFusion.Agreement).ToNot(BeNil())
			Expect(*result.EmotionFusion.Agreement).To(BeFalse())
			Expect(result.RiskLevel).ToNot(Equal(RiskStable))
			Expect(result.RiskScore).To(BeNumerically(">", 0))
		})

		It("honors per-user calibration weights", func() {
			req := &Request{
				EEG:  eegResult("relaxed", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "negative", 0.9, "low"),
				Calibration: &Calibration{
					Emotion: SourceWeights{EEG: 0.9, Text: 0.1},
					Anxiety: SourceWeights{EEG: 0.9, Text: 0.1},
				},
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())

			// With the EEG side dominating by calibration, relaxed wins.
			Expect(result.EmotionFusion.Label).To(Equal("relaxed"))
			Expect(result.EmotionFusion.WeightEEG).To(Equal(0.9))
		})
	})

	Describe("bayesian fusion", func() {
		It("produces a normalized posterior and reports agreement with both sources", func() {
			req := &Request{
				EEG:  eegResult("sad", 0.7, "moderate", 0.6),
				Text: textResult("moderate", 0.6, "negative", 0.7, "moderate"),
				Mode: ModeBayesian,
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Mode).To(Equal(ModeBayesian))
			Expect(probSum(result.EmotionFusion.Probabilities)).To(BeNumerically("~", 1.0, 1e-9))
			Expect(result.EmotionFusion.Label).To(Equal("sad"))
			Expect(result.EmotionFusion.Agreement).ToNot(BeNil())
			Expect(*result.EmotionFusion.Agreement).To(BeTrue())
		})

		It("leans on the prior for a single weak source", func() {
			// The neutral prior (0.35) outweighs a mildly peaked happy vector
			// once multiplied through.
			eeg := eegResult("happy", 0.4, "low", 0.7)
			req := &Request{EEG: eeg, Mode: ModeBayesian}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(probSum(result.EmotionFusion.Probabilities)).To(BeNumerically("~", 1.0, 1e-9))
			Expect(result.EmotionFusion.Agreement).To(BeNil())
		})
	})

	Describe("ensemble fusion", func() {
		It("averages attention and bayesian into a normalized distribution", func() {
			req := &Request{
				EEG:  eegResult("relaxed", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "positive", 0.7, "low"),
				Mode: ModeEnsemble,
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Mode).To(Equal(ModeEnsemble))
			Expect(probSum(result.EmotionFusion.Probabilities)).To(BeNumerically("~", 1.0, 1e-9))
			Expect(probSum(result.AnxietyFusion.Probabilities)).To(BeNumerically("~", 1.0, 1e-9))
			Expect(result.EmotionFusion.Agreement).ToNot(BeNil())
		})
	})

	Describe("risk assessment", func() {
		It("stays stable for calm agreeing inputs", func() {
			req := &Request{
				EEG:  eegResult("relaxed", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "positive", 0.7, "low"),
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.RiskLevel).To(Equal(RiskStable))
			Expect(result.RiskScore).To(BeNumerically("<", 0.5))
			Expect(result.Confidence).To(Equal(0.70))
		})

		It("reaches high risk when every target is at maximum severity", func() {
			req := &Request{
				EEG:  eegResult("sad", 0.9, "high", 0.9),
				Text: textResult("severe", 0.7, "negative", 0.9, "high"),
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.SafetyOverride).To(BeFalse())
			Expect(result.RiskScore).To(BeNumerically("~", 2.0, 1e-9))
			Expect(result.RiskLevel).To(Equal(RiskHigh))
		})

		It("renormalizes weights when the depression target is absent", func() {
			// EEG only: emotion sad (2) and anxiety low (0) with weights
			// 0.3/0.4 give 0.6/0.7.
			result, err := engine.Fuse(&Request{EEG: eegResult("sad", 0.8, "low", 0.7)})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.RiskScore).To(BeNumerically("~", 0.6/0.7, 1e-9))
			Expect(result.RiskLevel).To(Equal(RiskMild))
		})
	})

	Describe("explanations", func() {
		It("describes weighting, targets, agreement, risk, and mode in order", func() {
			req := &Request{
				EEG:  eegResult("happy", 0.8, "low", 0.7),
				Text: textResult("not_depressed", 0.6, "positive", 0.7, "low"),
			}

			result, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Explanation).To(HaveLen(6))
			Expect(result.Explanation[0]).To(ContainSubstring("weighted more heavily"))
			Expect(result.Explanation[1]).To(ContainSubstring("emotional state"))
			Expect(result.Explanation[2]).To(ContainSubstring("Anxiety level"))
			Expect(result.Explanation[3]).To(ContainSubstring("agree"))
			Expect(result.Explanation[4]).To(ContainSubstring("risk assessment"))
			Expect(result.Explanation[5]).To(ContainSubstring("attention fusion"))
		})

		It("notes when only one modality was available", func() {
			result, err := engine.Fuse(&Request{EEG: eegResult("neutral", 0.6, "low", 0.7)})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Explanation[0]).To(ContainSubstring("Only EEG-derived predictions"))
		})
	})

	Describe("determinism", func() {
		It("returns identical results for identical requests", func() {
			req := &Request{
				EEG:  eegResult("stressed", 0.65, "moderate", 0.65),
				Text: textResult("moderate", 0.6, "negative", 0.7, "moderate"),
			}

			first, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())
			second, err := engine.Fuse(req)
			Expect(err).ToNot(HaveOccurred())

			Expect(second.RiskLevel).To(Equal(first.RiskLevel))
			Expect(second.RiskScore).To(Equal(first.RiskScore))
			Expect(second.EmotionFusion.Label).To(Equal(first.EmotionFusion.Label))
			Expect(second.EmotionFusion.Probabilities).To(Equal(first.EmotionFusion.Probabilities))
			Expect(second.Explanation).To(Equal(first.Explanation))
		})
	})
})

var _ = Describe("bucketRisk", func() {
	It("maps scores onto the documented thresholds", func() {
		for _, tc := range []struct {
			score      float64
			level      RiskLevel
			confidence float64
		}{
			{0.0, RiskStable, 0.70},
			{0.49, RiskStable, 0.70},
			{0.5, RiskMild, 0.65},
			{0.99, RiskMild, 0.65},
			{1.0, RiskModerate, 0.75},
			{1.49, RiskModerate, 0.75},
			{1.5, RiskHigh, 0.85},
			{2.0, RiskHigh, 0.85},
		} {
			level, confidence := bucketRisk(tc.score)
			Expect(level).To(Equal(tc.level), "score %g", tc.score)
			Expect(confidence).To(Equal(tc.confidence), "score %g", tc.score)
		}
	})
})
