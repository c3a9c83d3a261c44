package features

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// maxSegmentLength caps the Welch segment size. Shorter epochs use the whole
// epoch as a single segment.
const maxSegmentLength = 256

// welchPSD estimates the one-sided power spectral density of x using Welch's
// method: Hann-windowed segments with 50% overlap, per-segment mean removal,
// density scaling. Returns bin frequencies in Hz and the averaged PSD.
func welchPSD(x []float64, samplingRate float64) (freqs, psd []float64) {
	nperseg := maxSegmentLength
	if len(x) < nperseg {
		nperseg = len(x)
	}
	if nperseg == 0 {
		return nil, nil
	}
	step := nperseg / 2
	if step < 1 {
		step = 1
	}

	window := hann(nperseg)
	var windowPower float64
	for _, w := range window {
		windowPower += w * w
	}
	scale := 1 / (samplingRate * windowPower)

	fft := fourier.NewFFT(nperseg)
	nbins := nperseg/2 + 1
	psd = make([]float64, nbins)
	segment := make([]float64, nperseg)

	var nsegs int
	for start := 0; start+nperseg <= len(x); start += step {
		copy(segment, x[start:start+nperseg])
		detrend(segment)
		for i := range segment {
			segment[i] *= window[i]
		}
		coeffs := fft.Coefficients(nil, segment)
		for k, c := range coeffs {
			p := cmplx.Abs(c)
			p = p * p * scale
			// One-sided spectrum: interior bins carry both halves.
			if k != 0 && !(nperseg%2 == 0 && k == nbins-1) {
				p *= 2
			}
			psd[k] += p
		}
		nsegs++
	}
	if nsegs == 0 {
		// Epochs shorter than one segment cannot happen (nperseg is clamped
		// to the epoch length), but keep the math total.
		return nil, nil
	}
	for k := range psd {
		psd[k] /= float64(nsegs)
	}

	freqs = make([]float64, nbins)
	for k := range freqs {
		freqs[k] = float64(k) * samplingRate / float64(nperseg)
	}
	return freqs, psd
}

// hann returns a periodic Hann window, the standard choice for spectral
// estimation.
func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

func detrend(x []float64) {
	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(len(x))
	for i := range x {
		x[i] -= mean
	}
}
