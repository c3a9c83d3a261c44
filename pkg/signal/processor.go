package signal

import (
	"fmt"
	"math"

	"github.com/neurofuse/neurofuse/pkg/observability/logging"
)

// minSeconds is the shortest recording the pipeline accepts.
const minSeconds = 2

// flatTolerance bounds the sample deviation, relative to signal magnitude,
// below which a recording counts as flat. Subtracting the mean from a
// constant channel leaves rounding residue on the order of one ulp, so an
// exact zero-variance comparison would miss it.
const flatTolerance = 1e-12

// Processor runs the preprocessing chain for a fixed sampling rate.
type Processor struct {
	samplingRate int
}

// NewProcessor creates a Processor for the given sampling rate.
func NewProcessor(samplingRate int) *Processor {
	return &Processor{samplingRate: samplingRate}
}

// SamplingRate returns the configured sampling rate in Hz.
func (p *Processor) SamplingRate() int {
	return p.samplingRate
}

// Preprocess applies, in order: DC-offset removal, a zero-phase Butterworth
// bandpass, the configured notch filters, and z-score normalization. The
// input channel is never modified; the result is a fresh slice.
//
// A zero-variance (constant) input normalizes to the zero vector rather than
// failing: flat recordings are a legitimate degenerate case, not a caller
// bug, and downstream feature math clamps the matching denominators to 0.
func (p *Processor) Preprocess(channel Channel, spec FilterSpec) (Channel, error) {
	if err := spec.Validate(p.samplingRate); err != nil {
		return nil, err
	}
	if len(channel) < minSeconds*p.samplingRate {
		return nil, &InsufficientDataError{
			Reason: fmt.Sprintf("recording has %d samples, need at least %d (%d seconds at %d Hz)",
				len(channel), minSeconds*p.samplingRate, minSeconds, p.samplingRate),
		}
	}

	data := channel.Clone()
	if isFlat(data) {
		return make(Channel, len(data)), nil
	}
	removeMean(data)

	bandpass, err := butterBandpass(spec.Order, spec.LowHz, spec.HighHz, float64(p.samplingRate))
	if err != nil {
		return nil, fmt.Errorf("bandpass design failed: %w", err)
	}
	data, err = bandpass.filtfilt(data)
	if err != nil {
		return nil, fmt.Errorf("bandpass filtering failed: %w", err)
	}

	nyquist := float64(p.samplingRate) / 2
	for _, notchHz := range spec.NotchHz {
		if notchHz >= nyquist {
			// A notch at or above Nyquist cannot exist in this recording's
			// spectrum; skip it instead of failing the whole run.
			logging.Warnf("skipping %g Hz notch: at or above Nyquist frequency %g Hz", notchHz, nyquist)
			continue
		}
		notch, err := designNotch(notchHz, spec.NotchQ, float64(p.samplingRate))
		if err != nil {
			return nil, fmt.Errorf("notch design failed at %g Hz: %w", notchHz, err)
		}
		data, err = notch.filtfilt(data)
		if err != nil {
			return nil, fmt.Errorf("notch filtering failed at %g Hz: %w", notchHz, err)
		}
	}

	zscore(data)
	return data, nil
}

// Epochs splits a channel into fixed-length windows with the given overlap
// fraction in [0, 1). Pure and deterministic.
//
// Degraded mode: when the requested window is longer than the recording, the
// whole channel is returned as a single epoch so short recordings still flow
// through the rest of the pipeline.
func (p *Processor) Epochs(channel Channel, epochLengthSeconds, overlap float64) ([]Epoch, error) {
	if epochLengthSeconds <= 0 {
		return nil, fmt.Errorf("epoch length must be positive, got %g", epochLengthSeconds)
	}
	if overlap < 0 || overlap >= 1 {
		return nil, fmt.Errorf("overlap must be in [0, 1), got %g", overlap)
	}
	if len(channel) == 0 {
		return nil, &InsufficientDataError{Reason: "empty channel"}
	}

	epochSamples := int(math.Round(epochLengthSeconds * float64(p.samplingRate)))
	if epochSamples < 1 {
		epochSamples = 1
	}

	if epochSamples > len(channel) {
		logging.Warnf("epoch window (%d samples) longer than recording (%d samples); returning whole channel as one epoch",
			epochSamples, len(channel))
		return []Epoch{{Start: 0, Samples: channel.Clone()}}, nil
	}

	stepSamples := int(math.Round(float64(epochSamples) * (1 - overlap)))
	if stepSamples < 1 {
		stepSamples = 1
	}

	var epochs []Epoch
	for start := 0; start+epochSamples <= len(channel); start += stepSamples {
		window := make([]float64, epochSamples)
		copy(window, channel[start:start+epochSamples])
		epochs = append(epochs, Epoch{Start: start, Samples: window})
	}
	return epochs, nil
}

func removeMean(x []float64) {
	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(len(x))
	for i := range x {
		x[i] -= mean
	}
}

// isFlat reports whether the recording carries no signal: its sample
// deviation is negligible relative to its magnitude. Catches both the exact
// zero vector and a constant channel whose mean subtraction leaves only
// floating-point residue.
func isFlat(x []float64) bool {
	var sum, maxAbs float64
	for _, v := range x {
		sum += v
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return true
	}
	mean := sum / float64(len(x))
	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(x)))
	return std <= flatTolerance*maxAbs
}

// zscore normalizes in place. Population standard deviation, matching the
// feature math downstream. A degenerate signal becomes the zero vector
// instead of having its rounding residue amplified to unit variance.
func zscore(x []float64) {
	removeMean(x)
	var ss, maxAbs float64
	for _, v := range x {
		ss += v * v
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	std := math.Sqrt(ss / float64(len(x)))
	if std <= flatTolerance*maxAbs || std == 0 {
		for i := range x {
			x[i] = 0
		}
		return
	}
	for i := range x {
		x[i] /= std
	}
}
