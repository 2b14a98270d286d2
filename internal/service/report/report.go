// Package report aggregates metric, verdict and critique outputs into the final document.
package report

import (
	"time"

	"ai-speech-delivery-service/internal/models"
)

// Critique status values.
const (
	StatusSkippedNoTranscript = "skipped: transcript required"
	StatusPartial             = "partial: some personas failed"
)

// Input is everything one analysis produced.
type Input struct {
	AnalysisID     string
	Source         string
	Transcript     string
	GeneratedAt    time.Time
	Metrics        models.DeliveryMetrics
	Verdict        models.ConfidenceVerdict
	Critiques      map[string]models.CritiqueResult
	DispatchErrors map[string]error
	// CritiqueSkipped is set when no transcript was available for the panel.
	CritiqueSkipped bool
}

// Assemble builds the report. It performs no computation beyond copying and labelling.
func Assemble(in Input) *models.Report {
	r := &models.Report{
		AnalysisID:        in.AnalysisID,
		Source:            in.Source,
		Transcript:        in.Transcript,
		GeneratedAt:       in.GeneratedAt.UTC(),
		Metrics:           in.Metrics,
		ConfidenceVerdict: in.Verdict,
		Critiques:         make(map[string]models.CritiqueResult, len(in.Critiques)),
	}
	if r.ConfidenceVerdict.Indicators == nil {
		r.ConfidenceVerdict.Indicators = []models.Indicator{}
	}
	for name, c := range in.Critiques {
		r.Critiques[name] = c
	}

	if len(in.DispatchErrors) > 0 {
		r.DispatchErrors = make(map[string]string, len(in.DispatchErrors))
		for name, err := range in.DispatchErrors {
			r.DispatchErrors[name] = err.Error()
		}
	}

	switch {
	case in.CritiqueSkipped:
		r.CritiqueStatus = StatusSkippedNoTranscript
	case len(r.DispatchErrors) > 0:
		r.CritiqueStatus = StatusPartial
	}
	return r
}
