package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	config     *Config
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the specified YAML file once and caches
// it globally. Subsequent calls return the cached config regardless of path.
func Load(configPath string) (*Config, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses a YAML config file without touching the global cache. Fields
// absent from the file keep their built-in defaults.
func Parse(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks cross-field constraints that YAML decoding cannot express.
func (c *Config) Validate() error {
	p := c.Processing
	if p.SamplingRateHz <= 0 {
		return fmt.Errorf("processing.sampling_rate_hz must be positive, got %d", p.SamplingRateHz)
	}
	nyquist := float64(p.SamplingRateHz) / 2
	if p.Filter.LowHz <= 0 || p.Filter.LowHz >= p.Filter.HighHz {
		return fmt.Errorf("processing.filter: need 0 < low_hz < high_hz, got low=%g high=%g",
			p.Filter.LowHz, p.Filter.HighHz)
	}
	if p.Filter.HighHz >= nyquist {
		return fmt.Errorf("processing.filter.high_hz %g exceeds Nyquist frequency %g",
			p.Filter.HighHz, nyquist)
	}
	if p.Filter.Order < 1 {
		return fmt.Errorf("processing.filter.order must be >= 1, got %d", p.Filter.Order)
	}
	if p.EpochLengthSeconds <= 0 {
		return fmt.Errorf("processing.epoch_length_seconds must be positive, got %g", p.EpochLengthSeconds)
	}
	if p.EpochOverlap < 0 || p.EpochOverlap >= 1 {
		return fmt.Errorf("processing.epoch_overlap must be in [0, 1), got %g", p.EpochOverlap)
	}

	switch c.Fusion.Mode {
	case "", "attention", "bayesian", "ensemble":
	default:
		return fmt.Errorf("fusion.mode must be attention, bayesian, or ensemble, got %q", c.Fusion.Mode)
	}

	w := c.Fusion.RiskWeights
	if w.Emotion < 0 || w.Anxiety < 0 || w.Depression < 0 {
		return fmt.Errorf("fusion.risk_weights must be non-negative")
	}

	return nil
}
