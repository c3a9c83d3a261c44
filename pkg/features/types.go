// Package features computes per-epoch spectral and temporal EEG features and
// aggregates them into session-level summaries.
package features

// Band is a named frequency range in Hz.
type Band struct {
	Name string
	Low  float64
	High float64
}

// Bands is the fixed five-band EEG decomposition used throughout the
// pipeline. Order matters: summaries and explanations iterate it directly so
// output stays deterministic.
var Bands = []Band{
	{Name: "delta", Low: 0.5, High: 4},
	{Name: "theta", Low: 4, High: 8},
	{Name: "alpha", Low: 8, High: 12},
	{Name: "beta", Low: 12, High: 30},
	{Name: "gamma", Low: 30, High: 45},
}

// BandPowers maps band name to integrated (non-negative) spectral power for
// one epoch.
type BandPowers map[string]float64

// SpectralFeatures summarizes the shape of one epoch's power spectrum.
type SpectralFeatures struct {
	// SpectralEntropy is the base-2 entropy of the normalized PSD
	SpectralEntropy float64

	// PeakFrequencyHz is the frequency of the PSD maximum
	PeakFrequencyHz float64

	// SpectralEdge95Hz is the lowest frequency at which the cumulative PSD
	// reaches 95% of total power
	SpectralEdge95Hz float64

	// TotalPower is the sum over all PSD bins
	TotalPower float64

	// AlphaBetaRatio and ThetaBetaRatio are band-power ratios; 0 whenever
	// the denominator band power is 0
	AlphaBetaRatio float64
	ThetaBetaRatio float64
}

// TemporalFeatures summarizes one epoch in the time domain.
type TemporalFeatures struct {
	// Hjorth parameters: amplitude, frequency, and shape complexity
	HjorthActivity   float64
	HjorthMobility   float64
	HjorthComplexity float64

	// ZeroCrossingRate is the fraction of consecutive sample pairs that
	// change sign, in [0, 1]
	ZeroCrossingRate float64

	Variance float64
	Skewness float64
	Kurtosis float64
}

// FeatureSummary aggregates per-epoch features across a whole session.
// Created once per completed processing run and immutable thereafter.
type FeatureSummary struct {
	// BandPowerMean and BandPowerStd hold per-band statistics across epochs
	BandPowerMean BandPowers
	BandPowerStd  BandPowers

	// Spectral and Temporal hold the field-wise mean across epochs
	Spectral SpectralFeatures
	Temporal TemporalFeatures

	// EpochCount is the number of epochs that fed the summary
	EpochCount int
}

// EmptyEpochListError reports a summarize call with zero epochs. The epoching
// stage guarantees at least one epoch even for short recordings, so seeing
// this error means an internal invariant was violated upstream.
type EmptyEpochListError struct{}

func (e *EmptyEpochListError) Error() string {
	return "cannot summarize an empty epoch list"
}
