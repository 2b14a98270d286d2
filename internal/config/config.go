// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the complete service configuration.
type Config struct {
	Service       ServiceConfig
	TextGen       TextGenConfig
	STT           STTConfig
	Kafka         KafkaConfig
	Critique      CritiqueConfig
	Limits        LimitsConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds identity and listener settings.
type ServiceConfig struct {
	Principal       string
	GRPCPort        string
	HTTPPort        string
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// TextGenConfig selects and tunes the text generation provider.
type TextGenConfig struct {
	Provider string // deepseek or mock
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// STTConfig selects the transcription provider used when a request has audio but no transcript.
type STTConfig struct {
	Provider      string // none, mock or google
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicCritique string
	TopicReport   string
	Principal     string
}

// CritiqueConfig tunes the persona panel.
type CritiqueConfig struct {
	PersonasFile    string
	Temperature     float64
	Workers         int
	DispatchTimeout time.Duration
}

// LimitsConfig bounds request sizes.
type LimitsConfig struct {
	MaxTranscriptBytes int
	MaxAudioBytes      int
	MaxFrames          int
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// Load reads configuration from the environment. Unparseable values fall back to defaults.
func Load() *Config {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-speech-delivery")

	return &Config{
		Service: ServiceConfig{
			Principal:       principal,
			GRPCPort:        envOrDefault("GRPC_PORT", "50051"),
			HTTPPort:        envOrDefault("HTTP_PORT", "8080"),
			MetricsAddr:     envOrDefault("METRICS_ADDR", ":9090"),
			ShutdownTimeout: envOrDefaultDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		TextGen: TextGenConfig{
			Provider: envOrDefault("TEXTGEN_PROVIDER", "mock"),
			BaseURL:  envOrDefault("TEXTGEN_BASE_URL", "https://api.deepseek.com/v1"),
			Model:    envOrDefault("TEXTGEN_MODEL", "deepseek-chat"),
			APIKey:   envOrDefault("DEEPSEEK_API_KEY", ""),
			Timeout:  envOrDefaultDuration("TEXTGEN_TIMEOUT", 60*time.Second),
		},
		STT: STTConfig{
			Provider:      envOrDefault("STT_PROVIDER", "none"),
			LanguageCode:  envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz:  envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000),
			AudioEncoding: envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
		},
		Kafka: KafkaConfig{
			Enabled:       envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:       envOrDefaultList("KAFKA_BROKERS", nil),
			TopicCritique: envOrDefault("KAFKA_TOPIC_CRITIQUE", "speech.delivery.critique"),
			TopicReport:   envOrDefault("KAFKA_TOPIC_REPORT", "speech.delivery.report"),
			Principal:     envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Critique: CritiqueConfig{
			PersonasFile:    envOrDefault("CRITIQUE_PERSONAS_FILE", ""),
			Temperature:     envOrDefaultFloat("CRITIQUE_TEMPERATURE", 0.5),
			Workers:         envOrDefaultInt("CRITIQUE_WORKERS", 4),
			DispatchTimeout: envOrDefaultDuration("CRITIQUE_DISPATCH_TIMEOUT", 90*time.Second),
		},
		Limits: LimitsConfig{
			MaxTranscriptBytes: envOrDefaultInt("LIMIT_MAX_TRANSCRIPT_BYTES", 256*1024),
			MaxAudioBytes:      envOrDefaultInt("LIMIT_MAX_AUDIO_BYTES", 10*1024*1024),
			MaxFrames:          envOrDefaultInt("LIMIT_MAX_FRAMES", 1<<20),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// envOrDefaultList splits a comma separated value, dropping blanks.
func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
