package features

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	bandPowers := []BandPowers{
		{"delta": 1, "theta": 2, "alpha": 3, "beta": 4, "gamma": 5},
		{"delta": 3, "theta": 2, "alpha": 5, "beta": 4, "gamma": 1},
	}
	spectral := []SpectralFeatures{
		{SpectralEntropy: 2, AlphaBetaRatio: 1.0},
		{SpectralEntropy: 4, AlphaBetaRatio: 2.0},
	}
	temporal := []TemporalFeatures{
		{HjorthActivity: 1, ZeroCrossingRate: 0.2},
		{HjorthActivity: 3, ZeroCrossingRate: 0.4},
	}

	summary, err := Summarize(bandPowers, spectral, temporal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.EpochCount != 2 {
		t.Errorf("epoch count = %d, want 2", summary.EpochCount)
	}
	if got := summary.BandPowerMean["delta"]; got != 2 {
		t.Errorf("delta mean = %g, want 2", got)
	}
	if got := summary.BandPowerStd["delta"]; math.Abs(got-1) > 1e-12 {
		t.Errorf("delta std = %g, want 1 (population)", got)
	}
	if got := summary.BandPowerStd["theta"]; got != 0 {
		t.Errorf("theta std = %g, want 0 for identical values", got)
	}
	if got := summary.Spectral.SpectralEntropy; got != 3 {
		t.Errorf("entropy mean = %g, want 3", got)
	}
	if got := summary.Spectral.AlphaBetaRatio; got != 1.5 {
		t.Errorf("alpha/beta mean = %g, want 1.5", got)
	}
	if got := summary.Temporal.HjorthActivity; got != 2 {
		t.Errorf("activity mean = %g, want 2", got)
	}
	if got := summary.Temporal.ZeroCrossingRate; math.Abs(got-0.3) > 1e-12 {
		t.Errorf("crossing rate mean = %g, want 0.3", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for empty epoch list")
	}
	if _, ok := err.(*EmptyEpochListError); !ok {
		t.Fatalf("error type = %T, want *EmptyEpochListError", err)
	}
}

func TestSummarize_MismatchedSlices(t *testing.T) {
	bandPowers := []BandPowers{{"alpha": 1}}
	_, err := Summarize(bandPowers, nil, nil)
	if err == nil {
		t.Fatal("expected error for mismatched slice lengths")
	}
}
