package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summarize aggregates per-epoch features into one session-level summary:
// mean and standard deviation per band power, field-wise mean of the
// spectral and temporal features. The three slices must be parallel (one
// entry per epoch).
func Summarize(bandPowers []BandPowers, spectral []SpectralFeatures, temporal []TemporalFeatures) (*FeatureSummary, error) {
	n := len(bandPowers)
	if n == 0 || len(spectral) != n || len(temporal) != n {
		return nil, &EmptyEpochListError{}
	}

	summary := &FeatureSummary{
		BandPowerMean: make(BandPowers, len(Bands)),
		BandPowerStd:  make(BandPowers, len(Bands)),
		EpochCount:    n,
	}

	values := make([]float64, n)
	for _, band := range Bands {
		for i, bp := range bandPowers {
			values[i] = bp[band.Name]
		}
		mean := stat.Mean(values, nil)
		summary.BandPowerMean[band.Name] = mean

		var ss float64
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		summary.BandPowerStd[band.Name] = math.Sqrt(ss / float64(n))
	}

	summary.Spectral = SpectralFeatures{
		SpectralEntropy:  meanOf(spectral, func(s SpectralFeatures) float64 { return s.SpectralEntropy }),
		PeakFrequencyHz:  meanOf(spectral, func(s SpectralFeatures) float64 { return s.PeakFrequencyHz }),
		SpectralEdge95Hz: meanOf(spectral, func(s SpectralFeatures) float64 { return s.SpectralEdge95Hz }),
		TotalPower:       meanOf(spectral, func(s SpectralFeatures) float64 { return s.TotalPower }),
		AlphaBetaRatio:   meanOf(spectral, func(s SpectralFeatures) float64 { return s.AlphaBetaRatio }),
		ThetaBetaRatio:   meanOf(spectral, func(s SpectralFeatures) float64 { return s.ThetaBetaRatio }),
	}

	summary.Temporal = TemporalFeatures{
		HjorthActivity:   meanTemporal(temporal, func(t TemporalFeatures) float64 { return t.HjorthActivity }),
		HjorthMobility:   meanTemporal(temporal, func(t TemporalFeatures) float64 { return t.HjorthMobility }),
		HjorthComplexity: meanTemporal(temporal, func(t TemporalFeatures) float64 { return t.HjorthComplexity }),
		ZeroCrossingRate: meanTemporal(temporal, func(t TemporalFeatures) float64 { return t.ZeroCrossingRate }),
		Variance:         meanTemporal(temporal, func(t TemporalFeatures) float64 { return t.Variance }),
		Skewness:         meanTemporal(temporal, func(t TemporalFeatures) float64 { return t.Skewness }),
		Kurtosis:         meanTemporal(temporal, func(t TemporalFeatures) float64 { return t.Kurtosis }),
	}

	return summary, nil
}

func meanOf(items []SpectralFeatures, field func(SpectralFeatures) float64) float64 {
	var sum float64
	for _, item := range items {
		sum += field(item)
	}
	return sum / float64(len(items))
}

func meanTemporal(items []TemporalFeatures, field func(TemporalFeatures) float64) float64 {
	var sum float64
	for _, item := range items {
		sum += field(item)
	}
	return sum / float64(len(items))
}
