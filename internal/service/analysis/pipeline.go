// Package analysis runs one recording through metrics, fusion and the critique
// panel, and assembles the report.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/observability/logging"
	"ai-speech-delivery-service/internal/observability/metrics"
	"ai-speech-delivery-service/internal/schema"
	"ai-speech-delivery-service/internal/service/critique"
	"ai-speech-delivery-service/internal/service/delivery"
	"ai-speech-delivery-service/internal/service/report"
	"ai-speech-delivery-service/internal/service/stt"
)

// Publisher receives analysis events. *events.Publisher satisfies it.
type Publisher interface {
	PublishCritique(ctx context.Context, event models.CritiqueEvent) error
	PublishReport(ctx context.Context, event models.ReportEvent) error
}

// Pipeline analyzes requests. It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	critic      *critique.Orchestrator
	publisher   Publisher
	transcriber stt.Transcriber
	validator   *schema.Validator
	metrics     *metrics.Metrics
	now         func() time.Time
}

// New creates a pipeline. publisher may be nil.
func New(critic *critique.Orchestrator, publisher Publisher) *Pipeline {
	return &Pipeline{
		critic:    critic,
		publisher: publisher,
		validator: schema.New(),
		metrics:   metrics.DefaultMetrics,
		now:       time.Now,
	}
}

// WithTranscriber enables transcription of requests that carry audio but no transcript.
func (p *Pipeline) WithTranscriber(t stt.Transcriber) *Pipeline {
	p.transcriber = t
	return p
}

// WithValidator replaces the request validator.
func (p *Pipeline) WithValidator(v *schema.Validator) *Pipeline {
	p.validator = v
	return p
}

// WithMetrics replaces the metrics sink.
func (p *Pipeline) WithMetrics(m *metrics.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// Personas returns the critique panel.
func (p *Pipeline) Personas() []critique.Persona {
	return p.critic.Table().Personas()
}

// NewAnalysisID returns a fresh analysis identifier.
func NewAnalysisID() string {
	return "analysis-" + uuid.NewString()
}

// Analyze produces a report for req. A report is returned whenever the request
// is well formed; persona transport failures come back joined in the error and
// labelled in the report.
func (p *Pipeline) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.Report, error) {
	start := time.Now()

	notes, err := p.validator.Validate(req)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.AnalysisID == "" {
		req.AnalysisID = NewAnalysisID()
	}

	logger := logging.WithAnalysis(req.AnalysisID, req.Source)
	for _, n := range notes {
		logger.Warn().Str("note", n).Msg("Request normalized")
	}
	p.metrics.RecordAnalysisStart()

	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		transcript = p.transcribe(ctx, req.Audio, logger)
	}

	var (
		signals delivery.Result
		outcome *critique.Outcome
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		signals = delivery.Analyze(req.Signals, transcript)
		return nil
	})
	if transcript != "" {
		g.Go(func() error {
			outcome = p.critic.Critique(gctx, req.AnalysisID, transcript)
			return nil
		})
	}
	_ = g.Wait()

	in := report.Input{
		AnalysisID:      req.AnalysisID,
		Source:          req.Source,
		Transcript:      transcript,
		GeneratedAt:     p.now(),
		Metrics:         signals.Metrics,
		Verdict:         signals.Verdict,
		CritiqueSkipped: outcome == nil,
	}
	var dispatchErr error
	if outcome != nil {
		in.Critiques = outcome.Results
		in.DispatchErrors = make(map[string]error, len(outcome.Failures))
		for name, f := range outcome.Failures {
			in.DispatchErrors[name] = f
		}
		dispatchErr = outcome.Err()
	}
	rep := report.Assemble(in)

	p.recordDegraded(rep)
	p.publish(ctx, rep, logger)

	elapsed := time.Since(start)
	p.metrics.RecordAnalysisEnd(rep.ConfidenceVerdict.Mood, elapsed.Seconds())

	event := logger.Info()
	if dispatchErr != nil {
		event = logger.Warn().Err(dispatchErr)
	}
	event.
		Int("score", rep.ConfidenceVerdict.Score).
		Str("mood", rep.ConfidenceVerdict.Mood).
		Int("critiques", len(rep.Critiques)).
		Int("dispatchErrors", len(rep.DispatchErrors)).
		Dur("elapsed", elapsed).
		Msg("Analysis completed")

	return rep, dispatchErr
}

// transcribe returns "" when no transcriber is configured, there is no audio, or the provider fails.
func (p *Pipeline) transcribe(ctx context.Context, audio []byte, logger zerolog.Logger) string {
	if p.transcriber == nil || len(audio) == 0 {
		return ""
	}
	start := time.Now()
	text, err := p.transcriber.Transcribe(ctx, audio)
	p.metrics.RecordTranscription(p.transcriber.Name(), err, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordDegraded("transcription_failed")
		logger.Warn().Err(err).Str("provider", p.transcriber.Name()).Msg("Transcription failed, continuing without transcript")
		return ""
	}
	logger.Debug().Int("chars", len(text)).Msg("Audio transcribed")
	return strings.TrimSpace(text)
}

func (p *Pipeline) recordDegraded(rep *models.Report) {
	m := rep.Metrics
	for reason, degraded := range map[string]bool{
		"pitch_undetermined":  m.Pitch.Status != "",
		"volume_undetermined": m.Volume.Status != "",
		"pauses_undetermined": m.Pauses.Status != "",
		"no_transcript":       rep.Transcript == "",
	} {
		if degraded {
			p.metrics.RecordDegraded(reason)
		}
	}
}

// publish sends events best-effort; failures are logged and never affect the report.
func (p *Pipeline) publish(ctx context.Context, rep *models.Report, logger zerolog.Logger) {
	if p.publisher == nil {
		return
	}
	ts := rep.GeneratedAt.UnixMilli()

	for _, name := range p.critic.Table().Names() {
		res, ok := rep.Critiques[name]
		if !ok {
			continue
		}
		err := p.publisher.PublishCritique(ctx, models.CritiqueEvent{
			EventType:  models.EventTypeCritique,
			AnalysisID: rep.AnalysisID,
			Source:     rep.Source,
			Persona:    name,
			Timestamp:  ts,
			Result:     res,
		})
		if err != nil {
			logger.Error().Err(err).Str("persona", name).Msg("Failed to publish critique event")
		}
	}

	err := p.publisher.PublishReport(ctx, models.ReportEvent{
		EventType:  models.EventTypeReport,
		AnalysisID: rep.AnalysisID,
		Source:     rep.Source,
		Timestamp:  ts,
		Score:      rep.ConfidenceVerdict.Score,
		Mood:       rep.ConfidenceVerdict.Mood,
		Report:     rep,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to publish report event")
	}
}
