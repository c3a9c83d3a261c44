// Package config holds the YAML-driven configuration for the processing and
// fusion pipeline.
package config

// Config is the root configuration object.
type Config struct {
	// Processing configures the signal-processing pipeline
	Processing ProcessingConfig `yaml:"processing"`

	// Fusion configures the multi-modal fusion engine
	Fusion FusionConfig `yaml:"fusion"`

	// TextRules configures the rule-based reference text predictor
	TextRules TextRulesConfig `yaml:"text_rules"`
}

// ProcessingConfig configures filtering and epoching defaults.
type ProcessingConfig struct {
	// SamplingRateHz is the default sampling rate assumed for uploads that
	// do not declare one
	SamplingRateHz int `yaml:"sampling_rate_hz"`

	// Filter is the default bandpass/notch filter specification
	Filter FilterConfig `yaml:"filter"`

	// EpochLengthSeconds is the default epoch window length
	EpochLengthSeconds float64 `yaml:"epoch_length_seconds"`

	// EpochOverlap is the default overlap fraction between consecutive
	// epochs, in [0, 1)
	EpochOverlap float64 `yaml:"epoch_overlap"`

	// MaxConcurrentSessions limits parallel session processing in the runner
	MaxConcurrentSessions int `yaml:"max_concurrent_sessions,omitempty"`
}

// FilterConfig mirrors signal.FilterSpec in YAML form.
type FilterConfig struct {
	// LowHz is the bandpass low cutoff
	LowHz float64 `yaml:"low_hz"`

	// HighHz is the bandpass high cutoff
	HighHz float64 `yaml:"high_hz"`

	// Order is the Butterworth filter order
	Order int `yaml:"order"`

	// NotchHz lists power-line notch frequencies. Both 50 and 60 Hz are
	// applied by default to cover either grid convention.
	NotchHz []float64 `yaml:"notch_hz,omitempty"`

	// NotchQ is the notch quality factor
	NotchQ float64 `yaml:"notch_q,omitempty"`
}

// FusionConfig configures the fusion engine. All fields are optional; zero
// values fall back to the engine's documented constants so that behavior
// stays reproducible unless deliberately reconfigured.
type FusionConfig struct {
	// Mode selects the default fusion method: attention, bayesian, or ensemble
	Mode string `yaml:"mode,omitempty"`

	// RiskWeights are the emotion/anxiety/depression contributions to the
	// overall risk score, renormalized over whichever targets are present
	RiskWeights RiskWeights `yaml:"risk_weights,omitempty"`
}

// RiskWeights holds the per-target risk aggregation weights.
type RiskWeights struct {
	Emotion    float64 `yaml:"emotion"`
	Anxiety    float64 `yaml:"anxiety"`
	Depression float64 `yaml:"depression"`
}

// TextRulesConfig carries the keyword lists used by the reference text
// predictor. Empty lists fall back to the built-in defaults.
type TextRulesConfig struct {
	// CrisisKeywords trigger the crisis safety flag when present in text
	CrisisKeywords []string `yaml:"crisis_keywords,omitempty"`

	// SevereKeywords and ModerateKeywords score depression severity;
	// PositiveKeywords count against it
	SevereKeywords   []string `yaml:"severe_keywords,omitempty"`
	ModerateKeywords []string `yaml:"moderate_keywords,omitempty"`
	PositiveKeywords []string `yaml:"positive_keywords,omitempty"`

	// Anxiety keyword tiers
	AnxietyHighKeywords     []string `yaml:"anxiety_high_keywords,omitempty"`
	AnxietyModerateKeywords []string `yaml:"anxiety_moderate_keywords,omitempty"`
	AnxietyLowKeywords      []string `yaml:"anxiety_low_keywords,omitempty"`

	// Sentiment word lists for the rule-based sentiment fallback
	SentimentPositive []string `yaml:"sentiment_positive,omitempty"`
	SentimentNegative []string `yaml:"sentiment_negative,omitempty"`
}

// Default returns the built-in configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Processing: ProcessingConfig{
			SamplingRateHz: 128,
			Filter: FilterConfig{
				LowHz:   0.5,
				HighHz:  45,
				Order:   4,
				NotchHz: []float64{50, 60},
				NotchQ:  30,
			},
			EpochLengthSeconds:    2.0,
			EpochOverlap:          0.5,
			MaxConcurrentSessions: 4,
		},
		Fusion: FusionConfig{
			Mode: "attention",
			RiskWeights: RiskWeights{
				Emotion:    0.3,
				Anxiety:    0.4,
				Depression: 0.3,
			},
		},
	}
}
