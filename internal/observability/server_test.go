package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ai-speech-delivery-service/internal/observability/metrics"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func TestServer_Endpoints(t *testing.T) {
	s := NewServer(":0")
	h := s.Handler()

	if code, body := get(t, h, "/healthz"); code != http.StatusOK || body != "ok" {
		t.Errorf("healthz: got %d %q", code, body)
	}
	if code, _ := get(t, h, "/readyz"); code != http.StatusServiceUnavailable {
		t.Errorf("readyz before SetReady: expected 503, got %d", code)
	}

	s.SetReady(true)
	if !s.Ready() {
		t.Error("expected Ready after SetReady(true)")
	}
	if code, body := get(t, h, "/readyz"); code != http.StatusOK || body != "ready" {
		t.Errorf("readyz: got %d %q", code, body)
	}

	if code, body := get(t, h, "/metrics"); code != http.StatusOK || !strings.Contains(body, "go_goroutines") {
		t.Errorf("metrics: got %d", code)
	}
}

func TestServer_ShutdownClearsReady(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	s.SetReady(true)

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if code, _ := get(t, s.Handler(), "/readyz"); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after shutdown, got %d", code)
	}
}

func TestUnaryServerInterceptor_RecordsCode(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	icpt := UnaryServerInterceptor(m)
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Analyze"}

	_, _ = icpt(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	_, err := icpt(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.InvalidArgument, "bad")
	})

	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected error passed through, got %v", err)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("grpc", "/svc/Analyze", "OK")); got != 1 {
		t.Errorf("expected 1 OK call, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("grpc", "/svc/Analyze", "InvalidArgument")); got != 1 {
		t.Errorf("expected 1 InvalidArgument call, got %v", got)
	}
}

func TestStreamServerInterceptor_RecordsCode(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	icpt := StreamServerInterceptor(m)
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch"}

	err := icpt(nil, nil, info, func(srv interface{}, ss grpc.ServerStream) error {
		return errors.New("plain error")
	})

	if err == nil {
		t.Fatal("expected error passed through")
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("grpc", "/grpc.health.v1.Health/Watch", "Unknown")); got != 1 {
		t.Errorf("expected 1 Unknown call, got %v", got)
	}
}
