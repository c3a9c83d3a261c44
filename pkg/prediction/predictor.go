package prediction

import (
	"github.com/neurofuse/neurofuse/pkg/features"
)

// EEGPredictor classifies emotion and anxiety from a session feature
// summary. Real trained models implement this interface; the fusion engine
// never depends on anything more specific, so models are swappable without
// touching fusion.
type EEGPredictor interface {
	Predict(summary *features.FeatureSummary) (*EEGResult, error)
}

// TextPredictor analyzes a journal entry for depression severity, sentiment,
// anxiety keywords, and crisis language. The production implementation lives
// with the text-analysis collaborator; the rule-based one here exists so the
// fusion pipeline can be exercised and tested end to end.
type TextPredictor interface {
	Predict(text string) (*TextResult, error)
}
