package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestParse_DefaultsApplyForMissingFields(t *testing.T) {
	path := writeConfig(t, `
processing:
  sampling_rate_hz: 256
`)
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Processing.SamplingRateHz != 256 {
		t.Errorf("sampling rate = %d, want 256", cfg.Processing.SamplingRateHz)
	}
	// Untouched fields keep their defaults.
	if cfg.Processing.Filter.LowHz != 0.5 || cfg.Processing.Filter.HighHz != 45 {
		t.Errorf("filter corners = %g-%g, want defaults 0.5-45",
			cfg.Processing.Filter.LowHz, cfg.Processing.Filter.HighHz)
	}
	if cfg.Fusion.Mode != "attention" {
		t.Errorf("fusion mode = %q, want default attention", cfg.Fusion.Mode)
	}
}

func TestParse_FullOverride(t *testing.T) {
	path := writeConfig(t, `
processing:
  sampling_rate_hz: 250
  filter:
    low_hz: 1.0
    high_hz: 40
    order: 2
    notch_hz: [50]
    notch_q: 25
  epoch_length_seconds: 4.0
  epoch_overlap: 0.25
fusion:
  mode: bayesian
  risk_weights:
    emotion: 0.2
    anxiety: 0.5
    depression: 0.3
text_rules:
  crisis_keywords: ["red alert"]
`)
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Processing.Filter.Order != 2 {
		t.Errorf("order = %d, want 2", cfg.Processing.Filter.Order)
	}
	if len(cfg.Processing.Filter.NotchHz) != 1 || cfg.Processing.Filter.NotchHz[0] != 50 {
		t.Errorf("notches = %v, want [50]", cfg.Processing.Filter.NotchHz)
	}
	if cfg.Fusion.Mode != "bayesian" {
		t.Errorf("mode = %q, want bayesian", cfg.Fusion.Mode)
	}
	if cfg.Fusion.RiskWeights.Anxiety != 0.5 {
		t.Errorf("anxiety weight = %g, want 0.5", cfg.Fusion.RiskWeights.Anxiety)
	}
	if len(cfg.TextRules.CrisisKeywords) != 1 {
		t.Errorf("crisis keywords = %v, want one override", cfg.TextRules.CrisisKeywords)
	}
}

func TestParse_MissingFile(t *testing.T) {
	if _, err := Parse("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:      "zero sampling rate",
			mutate:    func(c *Config) { c.Processing.SamplingRateHz = 0 },
			expectErr: true,
		},
		{
			name:      "low corner above high",
			mutate:    func(c *Config) { c.Processing.Filter.LowHz = 50 },
			expectErr: true,
		},
		{
			name:      "high corner at Nyquist",
			mutate:    func(c *Config) { c.Processing.Filter.HighHz = 64 },
			expectErr: true,
		},
		{
			name:      "zero filter order",
			mutate:    func(c *Config) { c.Processing.Filter.Order = 0 },
			expectErr: true,
		},
		{
			name:      "zero epoch length",
			mutate:    func(c *Config) { c.Processing.EpochLengthSeconds = 0 },
			expectErr: true,
		},
		{
			name:      "overlap of one",
			mutate:    func(c *Config) { c.Processing.EpochOverlap = 1 },
			expectErr: true,
		},
		{
			name:      "unknown fusion mode",
			mutate:    func(c *Config) { c.Fusion.Mode = "voting" },
			expectErr: true,
		},
		{
			name:   "empty fusion mode is allowed",
			mutate: func(c *Config) { c.Fusion.Mode = "" },
		},
		{
			name:      "negative risk weight",
			mutate:    func(c *Config) { c.Fusion.RiskWeights.Emotion = -0.1 },
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Fatal("expected validation error, got none")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
