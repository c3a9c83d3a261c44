// Package pipeline wires the processing stages together: filter, epoch,
// feature extraction, summarization, prediction, fusion, and explanation.
// Each session is processed on its own copies of the data; sessions are
// independent and safely parallelizable, while stages within one session are
// strictly sequential.
package pipeline

import (
	"fmt"
	"time"

	"github.com/neurofuse/neurofuse/pkg/features"
	"github.com/neurofuse/neurofuse/pkg/observability/logging"
	"github.com/neurofuse/neurofuse/pkg/observability/metrics"
	"github.com/neurofuse/neurofuse/pkg/signal"
)

// Process runs the signal side of one session: preprocess the raw channel,
// epoch it, extract per-epoch features, and aggregate them into a session
// summary. The raw slice is never modified.
func Process(raw []float64, samplingRate int, spec signal.FilterSpec, epochLengthSeconds, overlap float64) (*features.FeatureSummary, error) {
	start := time.Now()

	processor := signal.NewProcessor(samplingRate)

	filtered, err := processor.Preprocess(signal.Channel(raw), spec)
	if err != nil {
		metrics.RecordProcessingError("preprocess")
		return nil, fmt.Errorf("preprocessing failed: %w", err)
	}

	epochs, err := processor.Epochs(filtered, epochLengthSeconds, overlap)
	if err != nil {
		metrics.RecordProcessingError("epoch")
		return nil, fmt.Errorf("epoching failed: %w", err)
	}
	metrics.RecordEpochCount(len(epochs))

	bandPowers := make([]features.BandPowers, len(epochs))
	spectral := make([]features.SpectralFeatures, len(epochs))
	temporal := make([]features.TemporalFeatures, len(epochs))
	for i, epoch := range epochs {
		bandPowers[i] = features.ComputeBandPowers(epoch, samplingRate)
		spectral[i] = features.ComputeSpectralFeatures(epoch, samplingRate)
		temporal[i] = features.ComputeTemporalFeatures(epoch)
	}

	summary, err := features.Summarize(bandPowers, spectral, temporal)
	if err != nil {
		metrics.RecordProcessingError("summarize")
		return nil, fmt.Errorf("feature summarization failed: %w", err)
	}

	elapsed := time.Since(start)
	metrics.RecordProcessingDuration(elapsed.Seconds())
	logging.Debugf("processed %d samples into %d epochs in %s", len(raw), len(epochs), elapsed)

	return summary, nil
}
