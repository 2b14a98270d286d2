package critique

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/observability/logging"
	"ai-speech-delivery-service/internal/observability/metrics"
	"ai-speech-delivery-service/internal/service/textgen"
)

// Default dispatch settings.
const (
	DefaultTemperature = 0.5
	DefaultWorkers     = PanelSize
)

// Config tunes the orchestrator.
type Config struct {
	Temperature     float64
	Workers         int           // concurrent dispatches, clamped to [1, PanelSize]
	DispatchTimeout time.Duration // zero disables the per-dispatch deadline
}

// DefaultConfig returns the standard dispatch settings.
func DefaultConfig() Config {
	return Config{Temperature: DefaultTemperature, Workers: DefaultWorkers}
}

// DispatchError is a transport failure for one persona. State is the slot
// state the persona ended in.
type DispatchError struct {
	Persona string
	State   SlotState
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("persona %q (%s): %v", e.Persona, e.State, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Outcome is the joined result of one panel run.
// Every persona appears in exactly one of Results or Failures, and in States.
type Outcome struct {
	Results  map[string]models.CritiqueResult
	Failures map[string]*DispatchError
	States   map[string]SlotState
	order    []string
}

// Err joins transport failures in panel order, or returns nil.
func (o *Outcome) Err() error {
	var errs []error
	for _, name := range o.order {
		if f, ok := o.Failures[name]; ok {
			errs = append(errs, f)
		}
	}
	return errors.Join(errs...)
}

// Orchestrator dispatches the persona panel against a text generator.
type Orchestrator struct {
	gen     textgen.Generator
	table   *Table
	cfg     Config
	metrics *metrics.Metrics
}

// New creates an orchestrator. A nil table uses the default panel.
func New(gen textgen.Generator, table *Table, cfg Config) *Orchestrator {
	if table == nil {
		table = DefaultTable()
	}
	if cfg.Workers <= 0 || cfg.Workers > PanelSize {
		cfg.Workers = PanelSize
	}
	return &Orchestrator{
		gen:     gen,
		table:   table,
		cfg:     cfg,
		metrics: metrics.DefaultMetrics,
	}
}

// WithMetrics replaces the metrics sink.
func (o *Orchestrator) WithMetrics(m *metrics.Metrics) *Orchestrator {
	o.metrics = m
	return o
}

// Table returns the persona panel.
func (o *Orchestrator) Table() *Table {
	return o.table
}

type slotResult struct {
	result models.CritiqueResult
	err    error
}

// Critique prompts every persona about transcript and waits for all of them.
// A persona's transport failure never cancels the others.
func (o *Orchestrator) Critique(ctx context.Context, analysisID, transcript string) *Outcome {
	personas := o.table.Personas()
	slots := make([]*Slot, len(personas))
	settled := make([]slotResult, len(personas))
	for i, p := range personas {
		slots[i] = NewSlot(p.Name)
	}

	// Goroutines never return an error, so the group context is never cancelled by a sibling.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, p := range personas {
		g.Go(func() error {
			settled[i] = o.dispatch(gctx, analysisID, p, slots[i], transcript)
			return nil
		})
	}
	_ = g.Wait()

	return collect(slots, settled)
}

// collect builds the outcome from the final slot states. A slot that is not
// terminal after the join is reported as a failure.
func collect(slots []*Slot, settled []slotResult) *Outcome {
	out := &Outcome{
		Results:  make(map[string]models.CritiqueResult, len(slots)),
		Failures: make(map[string]*DispatchError),
		States:   make(map[string]SlotState, len(slots)),
		order:    make([]string, 0, len(slots)),
	}
	for i, slot := range slots {
		name, state := slot.Persona(), slot.State()
		out.order = append(out.order, name)
		out.States[name] = state

		switch state {
		case SlotRecovered:
			out.Results[name] = settled[i].result
		case SlotFailed:
			out.Failures[name] = &DispatchError{Persona: name, State: state, Err: settled[i].err}
		default:
			out.Failures[name] = &DispatchError{
				Persona: name,
				State:   state,
				Err:     errors.Join(ErrSlotUnsettled, settled[i].err),
			}
		}
	}
	return out
}

func (o *Orchestrator) dispatch(ctx context.Context, analysisID string, p Persona, slot *Slot, transcript string) slotResult {
	logger := logging.WithPersona(analysisID, p.Name, o.gen.Name())

	if err := ctx.Err(); err != nil {
		if aerr := slot.Abandon(); aerr != nil {
			return slotResult{err: errors.Join(err, aerr)}
		}
		o.metrics.RecordPersonaDispatch(p.Name, metrics.OutcomeTransportFailed, 0)
		logger.Warn().Err(err).Msg("Persona not dispatched")
		return slotResult{err: fmt.Errorf("not dispatched: %w", err)}
	}

	if o.cfg.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.DispatchTimeout)
		defer cancel()
	}

	if err := slot.Dispatch(); err != nil {
		return slotResult{err: err}
	}
	start := time.Now()
	raw, err := o.gen.Generate(ctx, BuildPrompt(p, transcript), o.cfg.Temperature)
	latency := time.Since(start)

	if err != nil {
		if ferr := slot.Fail(); ferr != nil {
			err = errors.Join(err, ferr)
		}
		o.metrics.RecordPersonaDispatch(p.Name, metrics.OutcomeTransportFailed, latency.Seconds())
		logger.Warn().Err(err).Dur("latency", latency).Str("state", slot.State().String()).Msg("Persona dispatch failed")
		return slotResult{err: err}
	}

	res := Recover(raw)
	if err := slot.Recover(); err != nil {
		return slotResult{result: res, err: err}
	}
	if res.Failure != nil {
		o.metrics.RecordPersonaDispatch(p.Name, metrics.OutcomeRecoveryFailed, latency.Seconds())
		o.metrics.RecordRecoveryFailure(p.Name, res.Failure.Kind.String())
		logger.Warn().
			Str("kind", res.Failure.Kind.String()).
			Int("rawLength", len(res.Failure.Raw)).
			Dur("latency", latency).
			Msg("Persona reply not recoverable")
		return slotResult{result: res}
	}

	o.metrics.RecordPersonaDispatch(p.Name, metrics.OutcomeRecovered, latency.Seconds())
	logger.Debug().
		Str("verdict", string(res.Critique.Verdict())).
		Dur("latency", latency).
		Msg("Persona critique recovered")
	return slotResult{result: res}
}
