package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/observability/metrics"
	"ai-speech-delivery-service/internal/service/critique"
	"ai-speech-delivery-service/internal/service/delivery"
	"ai-speech-delivery-service/internal/service/report"
	sttmock "ai-speech-delivery-service/internal/service/stt/mock"
	"ai-speech-delivery-service/internal/service/textgen"
	"ai-speech-delivery-service/internal/service/textgen/mock"
)

type recordingPublisher struct {
	mu        sync.Mutex
	critiques []models.CritiqueEvent
	reports   []models.ReportEvent
	err       error
}

func (r *recordingPublisher) PublishCritique(ctx context.Context, ev models.CritiqueEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.critiques = append(r.critiques, ev)
	return r.err
}

func (r *recordingPublisher) PublishReport(ctx context.Context, ev models.ReportEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, ev)
	return r.err
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestPipeline(gen textgen.Generator, pub Publisher) *Pipeline {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	critic := critique.New(gen, nil, critique.DefaultConfig()).WithMetrics(m)
	p := New(critic, pub).WithMetrics(m)
	p.now = func() time.Time { return fixedNow }
	return p
}

func sampleRequest() *models.AnalysisRequest {
	return &models.AnalysisRequest{
		AnalysisID: "analysis-test",
		Source:     "upload",
		Transcript: "Um, we are building a smart sock. It basically tracks your steps and, you know, your posture.",
		Signals: models.Signals{
			Pitch:       models.PitchTrack{Frames: []float64{110, 150, 190, 130, 170}},
			Energy:      models.EnergyTrack{Frames: []float64{0.02, 0.05, 0.03, 0.06}},
			Silences:    []models.Interval{{1.0, 1.6}, {4.2, 5.0}},
			DurationSec: 12,
		},
	}
}

func TestAnalyze_FullReport(t *testing.T) {
	pub := &recordingPublisher{}
	gen := mock.New()
	p := newTestPipeline(gen, pub)
	req := sampleRequest()
	want := delivery.Analyze(req.Signals, req.Transcript)

	rep, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.AnalysisID != "analysis-test" || rep.Source != "upload" {
		t.Errorf("identity not carried: %s / %s", rep.AnalysisID, rep.Source)
	}
	if !rep.GeneratedAt.Equal(fixedNow) {
		t.Errorf("expected generated_at %v, got %v", fixedNow, rep.GeneratedAt)
	}
	if diff := cmp.Diff(want.Verdict, rep.ConfidenceVerdict); diff != "" {
		t.Errorf("verdict mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Metrics, rep.Metrics); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
	if len(rep.Critiques) != critique.PanelSize {
		t.Errorf("expected %d critiques, got %d", critique.PanelSize, len(rep.Critiques))
	}
	if rep.CritiqueStatus != "" || rep.DispatchErrors != nil {
		t.Errorf("expected clean critique status, got %q %v", rep.CritiqueStatus, rep.DispatchErrors)
	}

	for _, prompt := range gen.Prompts() {
		if !strings.Contains(prompt, req.Transcript) {
			t.Error("expected prompt to embed transcript")
		}
	}

	if len(pub.critiques) != critique.PanelSize {
		t.Errorf("expected %d critique events, got %d", critique.PanelSize, len(pub.critiques))
	}
	if len(pub.reports) != 1 {
		t.Fatalf("expected 1 report event, got %d", len(pub.reports))
	}
	ev := pub.reports[0]
	if ev.EventType != models.EventTypeReport || ev.Report != rep || ev.Timestamp != fixedNow.UnixMilli() {
		t.Errorf("unexpected report event %+v", ev)
	}
}

func TestAnalyze_PersonaTransportFailure(t *testing.T) {
	pub := &recordingPublisher{}
	boom := &textgen.TransportError{Provider: "mock", StatusCode: 500, Err: errors.New("internal")}
	gen := mock.New().Fail("You are *Finance Shark*", boom)
	p := newTestPipeline(gen, pub)

	rep, err := p.Analyze(context.Background(), sampleRequest())

	if rep == nil {
		t.Fatal("expected a report despite persona failure")
	}
	var te *textgen.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError, got %v", err)
	}
	if len(rep.Critiques) != 3 {
		t.Errorf("expected 3 critiques, got %d", len(rep.Critiques))
	}
	if msg, ok := rep.DispatchErrors["Finance Shark"]; !ok || !strings.Contains(msg, "internal") {
		t.Errorf("expected labelled dispatch error, got %v", rep.DispatchErrors)
	}
	if msg := rep.DispatchErrors["Finance Shark"]; !strings.Contains(msg, "(FAILED)") {
		t.Errorf("expected slot state in dispatch error, got %q", msg)
	}
	if rep.CritiqueStatus != report.StatusPartial {
		t.Errorf("expected partial status, got %q", rep.CritiqueStatus)
	}
	if len(pub.critiques) != 3 {
		t.Errorf("expected 3 critique events, got %d", len(pub.critiques))
	}
}

func TestAnalyze_NoTranscriptSkipsCritique(t *testing.T) {
	pub := &recordingPublisher{}
	gen := mock.New()
	p := newTestPipeline(gen, pub)
	req := sampleRequest()
	req.Transcript = "   "

	rep, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.CritiqueStatus != report.StatusSkippedNoTranscript {
		t.Errorf("expected skipped status, got %q", rep.CritiqueStatus)
	}
	if len(rep.Critiques) != 0 {
		t.Errorf("expected no critiques, got %d", len(rep.Critiques))
	}
	if len(gen.Prompts()) != 0 {
		t.Errorf("expected no model calls, got %d", len(gen.Prompts()))
	}
	if rep.Metrics.Pace.WPM != nil || rep.Metrics.Pace.PaceType != "Unknown" {
		t.Errorf("expected unknown pace, got %+v", rep.Metrics.Pace)
	}
	if len(pub.critiques) != 0 || len(pub.reports) != 1 {
		t.Errorf("expected only the report event, got %d/%d", len(pub.critiques), len(pub.reports))
	}
}

func TestAnalyze_TranscribesAudio(t *testing.T) {
	gen := mock.New()
	tr := sttmock.New().WithTranscript("Transcribed pitch about socks.")
	p := newTestPipeline(gen, nil).WithTranscriber(tr)
	req := sampleRequest()
	req.Transcript = ""
	req.Audio = []byte{0, 1, 2, 3}

	rep, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tr.Calls() != 1 {
		t.Errorf("expected one transcription, got %d", tr.Calls())
	}
	if rep.Transcript != "Transcribed pitch about socks." {
		t.Errorf("expected transcribed text in report, got %q", rep.Transcript)
	}
	if len(rep.Critiques) != critique.PanelSize {
		t.Errorf("expected %d critiques, got %d", critique.PanelSize, len(rep.Critiques))
	}
}

func TestAnalyze_TranscriptionFailureDegrades(t *testing.T) {
	tr := sttmock.New().WithError(errors.New("quota exceeded"))
	p := newTestPipeline(mock.New(), nil).WithTranscriber(tr)
	req := sampleRequest()
	req.Transcript = ""
	req.Audio = []byte{1}

	rep, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.CritiqueStatus != report.StatusSkippedNoTranscript {
		t.Errorf("expected skipped status, got %q", rep.CritiqueStatus)
	}
	if rep.Metrics.FillerWords.Status == "" {
		t.Error("expected filler metrics to be labelled as needing a transcript")
	}
}

func TestAnalyze_ExistingTranscriptNotTranscribed(t *testing.T) {
	tr := sttmock.New()
	p := newTestPipeline(mock.New(), nil).WithTranscriber(tr)
	req := sampleRequest()
	req.Audio = []byte{1}

	if _, err := p.Analyze(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Calls() != 0 {
		t.Errorf("expected no transcription, got %d calls", tr.Calls())
	}
}

func TestAnalyze_GeneratesID(t *testing.T) {
	p := newTestPipeline(mock.New(), nil)
	req := sampleRequest()
	req.AnalysisID = ""

	rep, _ := p.Analyze(context.Background(), req)

	if !strings.HasPrefix(rep.AnalysisID, "analysis-") || len(rep.AnalysisID) <= len("analysis-") {
		t.Errorf("expected generated ID, got %q", rep.AnalysisID)
	}
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	p := newTestPipeline(mock.New(), nil)

	rep, err := p.Analyze(context.Background(), nil)
	if err == nil || rep != nil {
		t.Errorf("expected error and no report, got %v / %v", rep, err)
	}
}

func TestAnalyze_PublishFailureIgnored(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	p := newTestPipeline(mock.New(), pub)

	rep, err := p.Analyze(context.Background(), sampleRequest())
	if err != nil {
		t.Errorf("expected publish failures not to surface, got %v", err)
	}
	if rep == nil {
		t.Error("expected report")
	}
}

func TestAnalyze_ConcurrentRequests(t *testing.T) {
	p := newTestPipeline(mock.New(), &recordingPublisher{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := sampleRequest()
			req.AnalysisID = ""
			if _, err := p.Analyze(context.Background(), req); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
}
