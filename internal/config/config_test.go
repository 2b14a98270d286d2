package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var allKeys = []string{
	"SERVICE_PRINCIPAL", "GRPC_PORT", "HTTP_PORT", "METRICS_ADDR", "SHUTDOWN_TIMEOUT",
	"TEXTGEN_PROVIDER", "TEXTGEN_BASE_URL", "TEXTGEN_MODEL", "DEEPSEEK_API_KEY", "TEXTGEN_TIMEOUT",
	"STT_PROVIDER", "STT_LANGUAGE_CODE", "STT_SAMPLE_RATE_HZ", "STT_AUDIO_ENCODING",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_CRITIQUE", "KAFKA_TOPIC_REPORT", "KAFKA_PRINCIPAL",
	"CRITIQUE_PERSONAS_FILE", "CRITIQUE_TEMPERATURE", "CRITIQUE_WORKERS", "CRITIQUE_DISPATCH_TIMEOUT",
	"LIMIT_MAX_TRANSCRIPT_BYTES", "LIMIT_MAX_AUDIO_BYTES", "LIMIT_MAX_FRAMES",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	// Service defaults
	if cfg.Service.Principal != "svc-speech-delivery" {
		t.Errorf("expected default principal 'svc-speech-delivery', got %s", cfg.Service.Principal)
	}
	if cfg.Service.GRPCPort != "50051" {
		t.Errorf("expected default port '50051', got %s", cfg.Service.GRPCPort)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected default shutdown timeout 15s, got %v", cfg.Service.ShutdownTimeout)
	}

	// Text generation defaults
	if cfg.TextGen.Provider != "mock" {
		t.Errorf("expected default provider 'mock', got %s", cfg.TextGen.Provider)
	}
	if cfg.TextGen.Model != "deepseek-chat" {
		t.Errorf("expected default model 'deepseek-chat', got %s", cfg.TextGen.Model)
	}

	// STT defaults
	if cfg.STT.Provider != "none" {
		t.Errorf("expected default STT provider 'none', got %s", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}

	// Kafka defaults
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.Brokers != nil {
		t.Errorf("expected no brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.TopicCritique != "speech.delivery.critique" || cfg.Kafka.TopicReport != "speech.delivery.report" {
		t.Errorf("unexpected default topics %s / %s", cfg.Kafka.TopicCritique, cfg.Kafka.TopicReport)
	}

	// Critique defaults
	if cfg.Critique.Temperature != 0.5 {
		t.Errorf("expected default temperature 0.5, got %v", cfg.Critique.Temperature)
	}
	if cfg.Critique.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Critique.Workers)
	}

	// Observability defaults
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	t.Setenv("GRPC_PORT", "9999")
	t.Setenv("TEXTGEN_PROVIDER", "deepseek")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("TEXTGEN_TIMEOUT", "5s")
	t.Setenv("STT_PROVIDER", "google")
	t.Setenv("STT_SAMPLE_RATE_HZ", "8000")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_PRINCIPAL", "kafka-user")
	t.Setenv("CRITIQUE_TEMPERATURE", "0.2")
	t.Setenv("CRITIQUE_WORKERS", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.GRPCPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.GRPCPort)
	}
	if cfg.TextGen.Provider != "deepseek" || cfg.TextGen.APIKey != "sk-test" {
		t.Errorf("unexpected text generation config %+v", cfg.TextGen)
	}
	if cfg.TextGen.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.TextGen.Timeout)
	}
	if cfg.STT.Provider != "google" || cfg.STT.SampleRateHz != 8000 {
		t.Errorf("unexpected STT config %+v", cfg.STT)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if diff := cmp.Diff([]string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers); diff != "" {
		t.Errorf("brokers mismatch (-want +got):\n%s", diff)
	}
	if cfg.Kafka.Principal != "kafka-user" {
		t.Errorf("expected Kafka principal 'kafka-user', got %s", cfg.Kafka.Principal)
	}
	if cfg.Critique.Temperature != 0.2 || cfg.Critique.Workers != 2 {
		t.Errorf("unexpected critique config %+v", cfg.Critique)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_SAMPLE_RATE_HZ", "not-a-number")
	t.Setenv("KAFKA_ENABLED", "invalid")
	t.Setenv("CRITIQUE_TEMPERATURE", "warm")
	t.Setenv("CRITIQUE_DISPATCH_TIMEOUT", "invalid")
	t.Setenv("KAFKA_BROKERS", " , ")

	cfg := Load()

	// Should fall back to defaults on parse errors
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate on invalid input, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected default Kafka enabled on invalid input")
	}
	if cfg.Critique.Temperature != 0.5 {
		t.Errorf("expected default temperature on invalid input, got %v", cfg.Critique.Temperature)
	}
	if cfg.Critique.DispatchTimeout != 90*time.Second {
		t.Errorf("expected default dispatch timeout on invalid input, got %v", cfg.Critique.DispatchTimeout)
	}
	if cfg.Kafka.Brokers != nil {
		t.Errorf("expected no brokers for blank list, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICE_PRINCIPAL", "my-service")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			t.Setenv(key, tt.envValue)

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}
