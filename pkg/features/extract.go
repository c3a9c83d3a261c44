package features

import (
	"math"

	"github.com/neurofuse/neurofuse/pkg/signal"
)

// entropyFloor keeps log2 defined on empty PSD bins.
const entropyFloor = 1e-12

// ComputeBandPowers integrates the Welch PSD of one epoch within each of the
// five fixed frequency bands. Power is the sum of PSD bins inside the band,
// chosen over trapezoidal integration and applied consistently everywhere so
// relative comparisons are unaffected. Bands are half-open [Low, High): a bin
// on a shared edge belongs to the upper band only, so no bin is ever counted
// twice and the band powers can never exceed the spectrum's total power. The
// final band is closed at its upper edge.
func ComputeBandPowers(epoch signal.Epoch, samplingRate int) BandPowers {
	freqs, psd := welchPSD(epoch.Samples, float64(samplingRate))

	powers := make(BandPowers, len(Bands))
	for i, band := range Bands {
		last := i == len(Bands)-1
		var sum float64
		for k, f := range freqs {
			if f < band.Low || f > band.High {
				continue
			}
			if f == band.High && !last {
				continue
			}
			sum += psd[k]
		}
		powers[band.Name] = sum
	}
	return powers
}

// ComputeSpectralFeatures derives spectrum-shape features from the same
// Welch PSD that feeds the band powers.
func ComputeSpectralFeatures(epoch signal.Epoch, samplingRate int) SpectralFeatures {
	freqs, psd := welchPSD(epoch.Samples, float64(samplingRate))
	if len(psd) == 0 {
		return SpectralFeatures{}
	}

	var total float64
	for _, p := range psd {
		total += p
	}

	var entropy float64
	if total > 0 {
		for _, p := range psd {
			pn := p / total
			entropy -= pn * math.Log2(pn+entropyFloor)
		}
	}

	peakIdx := 0
	for k, p := range psd {
		if p > psd[peakIdx] {
			peakIdx = k
		}
	}

	// Lowest frequency at which the cumulative PSD reaches 95% of total.
	edgeHz := freqs[len(freqs)-1]
	var cum float64
	for k, p := range psd {
		cum += p
		if cum >= 0.95*total {
			edgeHz = freqs[k]
			break
		}
	}

	powers := ComputeBandPowers(epoch, samplingRate)

	return SpectralFeatures{
		SpectralEntropy:  entropy,
		PeakFrequencyHz:  freqs[peakIdx],
		SpectralEdge95Hz: edgeHz,
		TotalPower:       total,
		AlphaBetaRatio:   safeRatio(powers["alpha"], powers["beta"]),
		ThetaBetaRatio:   safeRatio(powers["theta"], powers["beta"]),
	}
}

// ComputeTemporalFeatures derives time-domain features: Hjorth parameters,
// zero-crossing rate, and the standardized third and fourth moments. All
// zero-variance denominators clamp to 0 rather than erroring, since they
// arise from legitimate flat recordings.
func ComputeTemporalFeatures(epoch signal.Epoch) TemporalFeatures {
	x := epoch.Samples
	if len(x) == 0 {
		return TemporalFeatures{}
	}

	firstDeriv := diff(x)
	secondDeriv := diff(firstDeriv)

	activity := popVariance(x)
	varFirst := popVariance(firstDeriv)
	varSecond := popVariance(secondDeriv)

	var mobility float64
	if activity > 0 {
		mobility = math.Sqrt(varFirst / activity)
	}
	var complexity float64
	if varFirst > 0 && mobility > 0 {
		complexity = math.Sqrt(varSecond/varFirst) / mobility
	}

	var crossings int
	for i := 1; i < len(x); i++ {
		if math.Signbit(x[i]) != math.Signbit(x[i-1]) {
			crossings++
		}
	}

	skew, kurt := standardizedMoments(x)

	return TemporalFeatures{
		HjorthActivity:   activity,
		HjorthMobility:   mobility,
		HjorthComplexity: complexity,
		ZeroCrossingRate: float64(crossings) / float64(len(x)),
		Variance:         activity,
		Skewness:         skew,
		Kurtosis:         kurt,
	}
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		d[i-1] = x[i] - x[i-1]
	}
	return d
}

// popVariance is the population variance (divide by n), matching the Hjorth
// parameter definitions.
func popVariance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(len(x))
	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(x))
}

// standardizedMoments returns population skewness m3/m2^1.5 and excess
// kurtosis m4/m2^2 - 3. Both are 0 for a zero-variance signal.
func standardizedMoments(x []float64) (skewness, kurtosis float64) {
	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(len(x))

	var m2, m3, m4 float64
	for _, v := range x {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	n := float64(len(x))
	m2 /= n
	m3 /= n
	m4 /= n

	if m2 == 0 {
		return 0, 0
	}
	return m3 / math.Pow(m2, 1.5), m4/(m2*m2) - 3
}
