package signal

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// iirFilter is a transfer-function IIR filter with numerator b and
// denominator a, normalized so a[0] == 1.
type iirFilter struct {
	b []float64
	a []float64
}

// butterBandpass designs a digital Butterworth bandpass filter via the
// standard analog-prototype route: lowpass prototype poles, lowpass-to-
// bandpass transform in zpk form, then the bilinear transform with frequency
// prewarping. Corner frequencies are in Hz against the given sampling rate.
func butterBandpass(order int, lowHz, highHz, samplingRate float64) (*iirFilter, error) {
	nyquist := samplingRate / 2
	wLow := lowHz / nyquist
	wHigh := highHz / nyquist
	if wLow <= 0 || wHigh >= 1 || wLow >= wHigh {
		return nil, fmt.Errorf("bandpass corners out of range: low=%g high=%g (normalized %g..%g)",
			lowHz, highHz, wLow, wHigh)
	}

	// Prewarp the corner frequencies for the bilinear transform (design
	// sampling rate fixed at 2 so cutoffs are in normalized frequency).
	const fs = 2.0
	warpedLow := 2 * fs * math.Tan(math.Pi*wLow/fs)
	warpedHigh := 2 * fs * math.Tan(math.Pi*wHigh/fs)

	wo := math.Sqrt(warpedLow * warpedHigh)
	bw := warpedHigh - warpedLow

	// Analog lowpass prototype: poles evenly spaced on the left half of the
	// unit circle, no zeros, unit gain.
	poles := make([]complex128, order)
	for i := 0; i < order; i++ {
		m := float64(-order + 1 + 2*i)
		poles[i] = -cmplx.Exp(complex(0, math.Pi*m/(2*float64(order))))
	}
	gain := 1.0

	// Lowpass-to-bandpass transform: each prototype pole splits into a
	// conjugate pair; N zeros appear at the origin.
	bpPoles := make([]complex128, 0, 2*order)
	for _, p := range poles {
		scaled := p * complex(bw/2, 0)
		d := cmplx.Sqrt(scaled*scaled - complex(wo*wo, 0))
		bpPoles = append(bpPoles, scaled+d, scaled-d)
	}
	bpZeros := make([]complex128, order) // zeros at s = 0
	gain *= math.Pow(bw, float64(order))

	// Bilinear transform s -> z.
	zZeros, zPoles, zGain := bilinear(bpZeros, bpPoles, gain, fs)

	b := polyReal(zZeros)
	a := polyReal(zPoles)
	for i := range b {
		b[i] *= zGain
	}
	return newIIRFilter(b, a)
}

// designNotch designs a second-order IIR notch at the given center frequency
// using the classic RBJ/Matlab formulation with quality factor Q.
func designNotch(notchHz, q, samplingRate float64) (*iirFilter, error) {
	nyquist := samplingRate / 2
	w0 := notchHz / nyquist
	if w0 <= 0 || w0 >= 1 {
		return nil, fmt.Errorf("notch frequency %g Hz out of range for sampling rate %g", notchHz, samplingRate)
	}
	w0 *= math.Pi

	// -3 dB bandwidth gain.
	gb := 1 / math.Sqrt2
	beta := math.Sqrt(1-gb*gb) / gb * math.Tan(w0/(2*q))
	g := 1 / (1 + beta)

	b := []float64{g, -2 * g * math.Cos(w0), g}
	a := []float64{1, -2 * g * math.Cos(w0), 2*g - 1}
	return newIIRFilter(b, a)
}

func newIIRFilter(b, a []float64) (*iirFilter, error) {
	if len(a) == 0 || a[0] == 0 {
		return nil, fmt.Errorf("denominator must have a nonzero leading coefficient")
	}
	// Normalize and pad to equal length so the filter loop is uniform.
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	nb := make([]float64, n)
	na := make([]float64, n)
	for i, v := range b {
		nb[i] = v / a[0]
	}
	for i, v := range a {
		na[i] = v / a[0]
	}
	return &iirFilter{b: nb, a: na}, nil
}

// bilinear maps analog zeros/poles/gain into the z-domain with sampling rate
// fs, appending zeros at z = -1 to balance the pole excess.
func bilinear(zeros, poles []complex128, gain, fs float64) ([]complex128, []complex128, float64) {
	fs2 := complex(2*fs, 0)

	zd := make([]complex128, 0, len(poles))
	for _, z := range zeros {
		zd = append(zd, (fs2+z)/(fs2-z))
	}
	pd := make([]complex128, 0, len(poles))
	for _, p := range poles {
		pd = append(pd, (fs2+p)/(fs2-p))
	}
	for len(zd) < len(pd) {
		zd = append(zd, -1)
	}

	num := complex(1, 0)
	for _, z := range zeros {
		num *= fs2 - z
	}
	den := complex(1, 0)
	for _, p := range poles {
		den *= fs2 - p
	}
	return zd, pd, gain * real(num/den)
}

// polyReal expands a set of roots into monic polynomial coefficients. Roots
// come in conjugate pairs so the imaginary parts cancel.
func polyReal(roots []complex128) []float64 {
	coeffs := make([]complex128, 1, len(roots)+1)
	coeffs[0] = 1
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// lfilter applies the filter in direct form II transposed with initial state
// zi (length len(b)-1, may be nil for zero state). It returns the output and
// the final state.
func (f *iirFilter) lfilter(x, zi []float64) ([]float64, []float64) {
	n := len(f.b)
	y := make([]float64, len(x))
	if n == 1 {
		for m, xm := range x {
			y[m] = f.b[0] * xm
		}
		return y, nil
	}
	z := make([]float64, n-1)
	copy(z, zi)

	for m, xm := range x {
		ym := f.b[0]*xm + z[0]
		for i := 0; i < n-2; i++ {
			z[i] = f.b[i+1]*xm + z[i+1] - f.a[i+1]*ym
		}
		z[n-2] = f.b[n-1]*xm - f.a[n-1]*ym
		y[m] = ym
	}
	return y, z
}

// steadyStateZi computes the initial filter state that makes the step
// response start at its steady-state value, which suppresses edge transients
// in forward-backward filtering. Solves (I - A^T) zi = B for the companion
// state-space form.
func (f *iirFilter) steadyStateZi() []float64 {
	n := len(f.b) - 1
	if n == 0 {
		return nil
	}

	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := 0.0
			if i == j {
				v = 1
			}
			// Transposed companion matrix of a.
			var comp float64
			if j == 0 {
				comp = -f.a[i+1]
			} else if i == j-1 {
				comp = 1
			}
			m.Set(i, j, v-comp)
		}
	}

	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, f.b[i+1]-f.a[i+1]*f.b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(m, rhs); err != nil {
		// Singular systems only arise from degenerate coefficient sets that
		// newIIRFilter already rejects; fall back to zero state.
		return make([]float64, n)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = zi.AtVec(i)
	}
	return out
}

// filtfilt applies the filter forward and backward for zero phase
// distortion, with odd extension at both edges to suppress transients.
func (f *iirFilter) filtfilt(x []float64) ([]float64, error) {
	ntaps := len(f.b)
	edge := 3 * ntaps
	if len(x) <= edge {
		return nil, &InsufficientDataError{
			Reason: fmt.Sprintf("need more than %d samples for zero-phase filtering, got %d", edge, len(x)),
		}
	}

	ext := make([]float64, 0, len(x)+2*edge)
	for i := edge; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	last := len(x) - 1
	for i := 1; i <= edge; i++ {
		ext = append(ext, 2*x[last]-x[last-i])
	}

	zi := f.steadyStateZi()
	scaled := make([]float64, len(zi))

	for i := range zi {
		scaled[i] = zi[i] * ext[0]
	}
	y, _ := f.lfilter(ext, scaled)

	reverse(y)
	for i := range zi {
		scaled[i] = zi[i] * y[0]
	}
	y, _ = f.lfilter(y, scaled)
	reverse(y)

	return y[edge : len(y)-edge], nil
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
