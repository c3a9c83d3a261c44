package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurofuse/neurofuse/pkg/signal"
)

func sineSamples(freqHz float64, samplingRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / float64(samplingRate))
	}
	return out
}

func TestProcess_AlphaToneYieldsAlphaDominance(t *testing.T) {
	const rate = 128
	raw := sineSamples(10, rate, 10*rate) // 10 s of a 10 Hz alpha tone

	summary, err := Process(raw, rate, signal.DefaultFilterSpec(), 2.0, 0.5)
	require.NoError(t, err)

	// 10 s at 2 s epochs with 50% overlap.
	assert.Equal(t, 9, summary.EpochCount)

	alpha := summary.BandPowerMean["alpha"]
	assert.Greater(t, alpha, summary.BandPowerMean["beta"],
		"alpha power must dominate beta for an alpha-band tone")
	assert.Greater(t, alpha, summary.BandPowerMean["theta"])
	assert.Greater(t, alpha, summary.BandPowerMean["delta"])
	assert.Greater(t, alpha, summary.BandPowerMean["gamma"])

	assert.InDelta(t, 10, summary.Spectral.PeakFrequencyHz, 0.5)
	assert.Greater(t, summary.Spectral.AlphaBetaRatio, 1.0)
}

func TestProcess_BandPowersNonNegative(t *testing.T) {
	const rate = 128
	raw := sineSamples(10, rate, 5*rate)
	for i := range raw {
		raw[i] += 0.5*math.Sin(2*math.Pi*22*float64(i)/rate) + 0.1*float64(i%7)
	}

	summary, err := Process(raw, rate, signal.DefaultFilterSpec(), 2.0, 0.5)
	require.NoError(t, err)
	for band, power := range summary.BandPowerMean {
		assert.GreaterOrEqual(t, power, 0.0, "band %s", band)
	}
}

func TestProcess_TooShortRecording(t *testing.T) {
	const rate = 128
	_, err := Process(sineSamples(10, rate, rate), rate, signal.DefaultFilterSpec(), 2.0, 0.5)
	require.Error(t, err)

	var insufficient *signal.InsufficientDataError
	assert.ErrorAs(t, err, &insufficient)
}

func TestProcess_InvalidFilterSpec(t *testing.T) {
	const rate = 128
	spec := signal.FilterSpec{LowHz: 45, HighHz: 0.5, Order: 4}
	_, err := Process(sineSamples(10, rate, 10*rate), rate, spec, 2.0, 0.5)
	require.Error(t, err)
}

func TestProcess_Deterministic(t *testing.T) {
	const rate = 128
	raw := sineSamples(10, rate, 6*rate)

	first, err := Process(raw, rate, signal.DefaultFilterSpec(), 2.0, 0.5)
	require.NoError(t, err)
	second, err := Process(raw, rate, signal.DefaultFilterSpec(), 2.0, 0.5)
	require.NoError(t, err)

	assert.Equal(t, first.BandPowerMean, second.BandPowerMean)
	assert.Equal(t, first.Spectral, second.Spectral)
	assert.Equal(t, first.Temporal, second.Temporal)
}
