// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_speech_delivery"

// Persona dispatch outcomes.
const (
	OutcomeRecovered       = "recovered"
	OutcomeRecoveryFailed  = "recovery_failed"
	OutcomeTransportFailed = "transport_failed"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    prometheus.Counter
	AnalysesActive   prometheus.Gauge
	AnalysisDuration prometheus.Histogram
	AnalysesDegraded *prometheus.CounterVec
	MoodTotal        *prometheus.CounterVec

	// Persona critique metrics
	PersonaDispatchTotal *prometheus.CounterVec
	PersonaLatency       *prometheus.HistogramVec
	RecoveryFailures     *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// STT metrics
	STTLatency *prometheus.HistogramVec
	STTErrors  *prometheus.CounterVec

	// API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Analysis metrics
		AnalysesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of delivery analyses started",
		}),
		AnalysesActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analyses_active",
			Help:      "Number of analyses currently in progress",
		}),
		AnalysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall clock duration of a full analysis in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		AnalysesDegraded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_degraded_total",
			Help:      "Total number of analyses that reported an unavailable field",
		}, []string{"reason"}),
		MoodTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mood_total",
			Help:      "Total number of confidence verdicts by mood",
		}, []string{"mood"}),

		// Persona critique metrics
		PersonaDispatchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persona_dispatch_total",
			Help:      "Total number of persona critique dispatches by outcome",
		}, []string{"persona", "outcome"}),
		PersonaLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persona_latency_seconds",
			Help:      "Text generation latency per persona in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"persona"}),
		RecoveryFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_failures_total",
			Help:      "Total number of persona responses that did not yield a structured critique",
		}, []string{"persona", "kind"}),

		// Kafka publish metrics
		KafkaPublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		// STT metrics
		STTLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stt_latency_seconds",
			Help:      "Speech-to-text transcription latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"provider"}),
		STTErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider"}),

		// API metrics
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of API requests",
		}, []string{"transport", "method", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"transport", "method"}),
	}
}

// RecordAnalysisStart records a new analysis starting.
func (m *Metrics) RecordAnalysisStart() {
	m.AnalysesTotal.Inc()
	m.AnalysesActive.Inc()
}

// RecordAnalysisEnd records an analysis finishing with the given mood.
func (m *Metrics) RecordAnalysisEnd(mood string, durationSeconds float64) {
	m.AnalysesActive.Dec()
	m.AnalysisDuration.Observe(durationSeconds)
	m.MoodTotal.WithLabelValues(mood).Inc()
}

// RecordDegraded records a field of the report that could not be computed.
func (m *Metrics) RecordDegraded(reason string) {
	m.AnalysesDegraded.WithLabelValues(reason).Inc()
}

// RecordPersonaDispatch records one persona dispatch and its latency.
func (m *Metrics) RecordPersonaDispatch(persona, outcome string, latencySeconds float64) {
	m.PersonaDispatchTotal.WithLabelValues(persona, outcome).Inc()
	m.PersonaLatency.WithLabelValues(persona).Observe(latencySeconds)
}

// RecordRecoveryFailure records a response that could not be recovered.
func (m *Metrics) RecordRecoveryFailure(persona, kind string) {
	m.RecoveryFailures.WithLabelValues(persona, kind).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordTranscription records an STT call.
func (m *Metrics) RecordTranscription(provider string, err error, latencySeconds float64) {
	m.STTLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.STTErrors.WithLabelValues(provider).Inc()
	}
}

// RecordRequest records an API request.
func (m *Metrics) RecordRequest(transport, method, code string, durationSeconds float64) {
	m.RequestsTotal.WithLabelValues(transport, method, code).Inc()
	m.RequestDuration.WithLabelValues(transport, method).Observe(durationSeconds)
}
