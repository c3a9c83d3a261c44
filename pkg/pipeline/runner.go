package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/neurofuse/neurofuse/pkg/config"
	"github.com/neurofuse/neurofuse/pkg/explanation"
	"github.com/neurofuse/neurofuse/pkg/features"
	"github.com/neurofuse/neurofuse/pkg/fusion"
	"github.com/neurofuse/neurofuse/pkg/observability/logging"
	"github.com/neurofuse/neurofuse/pkg/prediction"
	"github.com/neurofuse/neurofuse/pkg/signal"
)

// Session is one unit of work for the runner: a raw EEG channel, optionally a
// journal text, and the processing parameters to apply.
type Session struct {
	// ID tags log lines and results. Assigned by the runner when empty.
	ID string

	Raw          []float64
	SamplingRate int
	Filter       signal.FilterSpec
	EpochSeconds float64
	Overlap      float64

	// Text is the optional journal entry. Empty means EEG-only analysis.
	Text string

	// Mode overrides the engine's default fusion mode when set.
	Mode fusion.Mode

	// Calibration carries per-user source weights, when known.
	Calibration *fusion.Calibration
}

// SessionResult pairs a session ID with its outcome. Exactly one of Err or
// the result fields is meaningful.
type SessionResult struct {
	ID          string
	Summary     *features.FeatureSummary
	Fusion      *fusion.Result
	Explanation []string
	Err         error
}

// Runner executes full analysis sessions with bounded concurrency. All
// fields are set at construction and never mutated, so runners are safe for
// concurrent use without locking; each session works on its own data.
type Runner struct {
	eeg           prediction.EEGPredictor
	text          prediction.TextPredictor
	engine        *fusion.Engine
	builder       *explanation.Builder
	maxConcurrent int
}

// NewRunner builds a runner from the given predictors and fusion config. A
// nil config uses the documented defaults.
func NewRunner(eeg prediction.EEGPredictor, text prediction.TextPredictor, cfg *config.Config) *Runner {
	maxConcurrent := 4
	var fusionCfg *config.FusionConfig
	if cfg != nil {
		fusionCfg = &cfg.Fusion
		if cfg.Processing.MaxConcurrentSessions > 0 {
			maxConcurrent = cfg.Processing.MaxConcurrentSessions
		}
	}
	return &Runner{
		eeg:           eeg,
		text:          text,
		engine:        fusion.NewEngine(fusionCfg),
		builder:       explanation.NewBuilder(),
		maxConcurrent: maxConcurrent,
	}
}

// RunOne executes a single session end to end: signal processing, per-modality
// prediction, fusion, and explanation.
func (r *Runner) RunOne(ctx context.Context, session Session) SessionResult {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	result := SessionResult{ID: session.ID}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	req := &fusion.Request{Mode: session.Mode, Calibration: session.Calibration}

	if len(session.Raw) > 0 {
		summary, err := Process(session.Raw, session.SamplingRate, session.Filter, session.EpochSeconds, session.Overlap)
		if err != nil {
			result.Err = err
			return result
		}
		result.Summary = summary

		eegResult, err := r.eeg.Predict(summary)
		if err != nil {
			result.Err = err
			return result
		}
		req.EEG = eegResult
	}

	if session.Text != "" {
		textResult, err := r.text.Predict(session.Text)
		if err != nil {
			result.Err = err
			return result
		}
		req.Text = textResult
	}

	fused, err := r.engine.Fuse(req)
	if err != nil {
		result.Err = err
		return result
	}
	result.Fusion = fused
	result.Explanation = r.builder.Build(result.Summary, fused)

	logging.Infof("session %s complete: risk=%s override=%t",
		session.ID, fused.RiskLevel, fused.SafetyOverride)
	return result
}

// RunAll executes the sessions in parallel with at most maxConcurrent in
// flight at once. Results come back in input order; a per-session failure is
// recorded in its slot and never aborts the batch.
func (r *Runner) RunAll(ctx context.Context, sessions []Session) []SessionResult {
	results := make([]SessionResult, len(sessions))
	var wg sync.WaitGroup

	// Limit concurrent sessions
	semaphore := make(chan struct{}, r.maxConcurrent)

	for i, session := range sessions {
		wg.Add(1)
		go func(idx int, s Session) {
			defer wg.Done()

			// Acquire semaphore
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx] = r.RunOne(ctx, s)
		}(i, session)
	}

	wg.Wait()
	return results
}
