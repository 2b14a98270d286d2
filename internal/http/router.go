// Package http exposes the analysis pipeline over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/observability/metrics"
	"ai-speech-delivery-service/internal/schema"
	"ai-speech-delivery-service/internal/service/critique"
)

// maxBodyBytes bounds request bodies; base64 audio is the largest field.
const maxBodyBytes = 16 << 20

// Service is the analysis surface the router needs. *analysis.Pipeline satisfies it.
type Service interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.Report, error)
	Personas() []critique.Persona
}

// Readiness reports whether the process accepts traffic. *observability.Server satisfies it.
type Readiness interface {
	Ready() bool
}

type personaView struct {
	Name  string `json:"name"`
	Focus string `json:"focus"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewRouter constructs the HTTP router for the service. A nil ready always reports ready.
func NewRouter(svc Service, ready Readiness, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics(m))

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", analyzeHandler(svc))
		r.Get("/personas", func(w http.ResponseWriter, _ *http.Request) {
			ps := svc.Personas()
			out := make([]personaView, len(ps))
			for i, p := range ps {
				out[i] = personaView{Name: p.Name, Focus: p.Focus}
			}
			writeJSON(w, http.StatusOK, out)
		})
	})

	return r
}

func analyzeHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AnalysisRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
				return
			}
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "decode request: " + err.Error()})
			return
		}
		if req.Source == "" {
			req.Source = "http"
		}

		rep, err := svc.Analyze(r.Context(), &req)
		if rep == nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, schema.ErrTooLarge):
				status = http.StatusRequestEntityTooLarge
			case errors.Is(err, schema.ErrNilRequest):
				status = http.StatusBadRequest
			}
			log.Error().Err(err).Str("requestId", middleware.GetReqID(r.Context())).Msg("Analysis failed")
			writeJSON(w, status, errorBody{Error: errString(err)})
			return
		}

		// Persona transport failures are labelled inside the report.
		w.Header().Set("X-Analysis-ID", rep.AnalysisID)
		writeJSON(w, http.StatusOK, rep)
	}
}

func errString(err error) string {
	if err == nil {
		return "analysis produced no report"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// requestMetrics records every request by route pattern and status code.
func requestMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordRequest("http", r.Method+" "+route, strconv.Itoa(status), time.Since(start).Seconds())
		})
	}
}
