package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/observability"
	"ai-speech-delivery-service/internal/observability/metrics"
	"ai-speech-delivery-service/internal/schema"
	"ai-speech-delivery-service/internal/service/analysis"
	"ai-speech-delivery-service/internal/service/critique"
	"ai-speech-delivery-service/internal/service/textgen/mock"
)

func dial(t *testing.T, analyzer Analyzer) *Client {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(observability.UnaryServerInterceptor(m)))
	Register(srv, analyzer)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn)
}

func newPipeline() *analysis.Pipeline {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	critic := critique.New(mock.New(), nil, critique.DefaultConfig()).WithMetrics(m)
	return analysis.New(critic, nil).WithMetrics(m)
}

func TestAnalyze_RoundTrip(t *testing.T) {
	client := dial(t, newPipeline())

	rep, err := client.AnalyzeRequest(context.Background(), &models.AnalysisRequest{
		AnalysisID: "analysis-grpc",
		Transcript: "We are, like, building the future of socks.",
		Signals: models.Signals{
			Pitch:       models.PitchTrack{Frames: []float64{100, 140, 180}},
			Energy:      models.EnergyTrack{Frames: []float64{0.1, 0.2}},
			DurationSec: 6,
		},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if rep.AnalysisID != "analysis-grpc" {
		t.Errorf("expected analysis-grpc, got %s", rep.AnalysisID)
	}
	if rep.Source != "grpc" {
		t.Errorf("expected default source grpc, got %s", rep.Source)
	}
	if len(rep.Critiques) != critique.PanelSize {
		t.Errorf("expected %d critiques, got %d", critique.PanelSize, len(rep.Critiques))
	}
	for name, c := range rep.Critiques {
		if !c.Succeeded() || c.Critique.Verdict() != models.VerdictNeedMoreInfo {
			t.Errorf("%s: unexpected critique %+v", name, c)
		}
	}
	if rep.Metrics.Pace.WPM == nil {
		t.Error("expected wpm to survive the round trip")
	}
}

type failingAnalyzer struct{ err error }

func (f failingAnalyzer) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.Report, error) {
	return nil, f.err
}

func TestAnalyze_StatusCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("invalid request: %w", schema.ErrTooLarge), codes.InvalidArgument},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("boom"), codes.Internal},
		{nil, codes.Internal},
	}

	for _, tt := range tests {
		client := dial(t, failingAnalyzer{err: tt.err})
		_, err := client.AnalyzeRequest(context.Background(), &models.AnalysisRequest{})
		if status.Code(err) != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.err, tt.want, status.Code(err))
		}
	}
}

func TestStructConversion(t *testing.T) {
	req := &models.AnalysisRequest{
		Source: "s",
		Audio:  []byte{0xff, 0x00},
		Signals: models.Signals{
			Silences:    []models.Interval{{1, 2}},
			DurationSec: 3.5,
		},
	}
	st, err := ToStruct(req)
	if err != nil {
		t.Fatalf("to struct: %v", err)
	}

	var got models.AnalysisRequest
	if err := FromStruct(st, &got); err != nil {
		t.Fatalf("from struct: %v", err)
	}
	if got.Source != "s" || len(got.Audio) != 2 || got.Audio[0] != 0xff || got.Signals.Silences[0] != (models.Interval{1, 2}) || got.Signals.DurationSec != 3.5 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := FromStruct(nil, &got); err != nil {
		t.Errorf("nil struct: %v", err)
	}
}
