// Package signal implements the EEG preprocessing pipeline: DC removal,
// zero-phase Butterworth bandpass filtering, power-line notch filtering,
// z-score normalization, and epoching of the continuous channel.
package signal

import "fmt"

// Channel is an ordered sequence of samples from a single electrode at a
// known sampling rate. Channels are treated as immutable once captured; every
// processing step returns a fresh slice.
type Channel []float64

// Clone returns an independent copy of the channel.
func (c Channel) Clone() Channel {
	out := make(Channel, len(c))
	copy(out, c)
	return out
}

// FilterSpec describes the preprocessing filter chain.
type FilterSpec struct {
	// LowHz and HighHz are the Butterworth bandpass corner frequencies
	LowHz  float64
	HighHz float64

	// Order is the Butterworth filter order
	Order int

	// NotchHz lists IIR notch center frequencies. Both 50 and 60 Hz are
	// applied by default so recordings from either power-grid convention
	// come out clean.
	NotchHz []float64

	// NotchQ is the notch quality factor
	NotchQ float64
}

// DefaultFilterSpec returns the standard EEG preprocessing configuration:
// 0.5-45 Hz bandpass (order 4) with 50 and 60 Hz notches at Q=30.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		LowHz:   0.5,
		HighHz:  45,
		Order:   4,
		NotchHz: []float64{50, 60},
		NotchQ:  30,
	}
}

// Validate checks the filter parameters against the given sampling rate.
func (s FilterSpec) Validate(samplingRate int) error {
	if samplingRate <= 0 {
		return fmt.Errorf("sampling rate must be positive, got %d", samplingRate)
	}
	nyquist := float64(samplingRate) / 2
	if s.LowHz <= 0 || s.LowHz >= s.HighHz {
		return &InsufficientDataError{
			Reason: fmt.Sprintf("invalid bandpass corners: need 0 < low < high, got low=%g high=%g", s.LowHz, s.HighHz),
		}
	}
	if s.HighHz >= nyquist {
		return &InsufficientDataError{
			Reason: fmt.Sprintf("bandpass high corner %g Hz exceeds Nyquist frequency %g Hz", s.HighHz, nyquist),
		}
	}
	if s.Order < 1 {
		return fmt.Errorf("filter order must be >= 1, got %d", s.Order)
	}
	if len(s.NotchHz) > 0 && s.NotchQ <= 0 {
		return fmt.Errorf("notch quality factor must be positive, got %g", s.NotchQ)
	}
	return nil
}

// Epoch is a fixed-length contiguous window of a filtered channel. Samples
// are an independent copy; an epoch holds no reference back to its channel.
type Epoch struct {
	// Start is the sample offset of the window within the source channel
	Start int

	// Samples is the windowed data
	Samples []float64
}
