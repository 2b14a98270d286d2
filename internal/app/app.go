// Package app wires configuration into the running components shared by the
// server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-speech-delivery-service/internal/config"
	"ai-speech-delivery-service/internal/events"
	"ai-speech-delivery-service/internal/observability/logging"
	"ai-speech-delivery-service/internal/schema"
	"ai-speech-delivery-service/internal/service/analysis"
	"ai-speech-delivery-service/internal/service/critique"
	"ai-speech-delivery-service/internal/service/stt"
	sttgoogle "ai-speech-delivery-service/internal/service/stt/google"
	sttmock "ai-speech-delivery-service/internal/service/stt/mock"
	"ai-speech-delivery-service/internal/service/textgen"
	"ai-speech-delivery-service/internal/service/textgen/deepseek"
	textgenmock "ai-speech-delivery-service/internal/service/textgen/mock"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config

	Pipeline  *analysis.Pipeline
	Publisher *events.Publisher

	closers []func() error
}

// New constructs an Application logging to stdout.
func New(cfg *config.Config) *Application {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter constructs an Application logging to w.
func NewWithWriter(cfg *config.Config, w io.Writer) *Application {
	a := &Application{Cfg: cfg}
	a.setupLogger(w)

	a.Logger.Info().Str("method", "New").Msg("AI Speech Delivery service application created")
	return a
}

func (a *Application) setupLogger(w io.Writer) {
	lc := logging.DefaultConfig()
	if lvl := strings.ToLower(a.Cfg.Observability.LogLevel); lvl != "" {
		lc.Level = lvl
	}
	if a.Cfg.Observability.LogFormat != "" {
		lc.Format = a.Cfg.Observability.LogFormat
	}
	logging.InitWithWriter(lc, w)

	a.Logger = logging.WithComponent("application").With().
		Str("service", "ai-speech-delivery-service").
		Logger()

	a.Logger.Info().
		Str("logLevel", zerolog.GlobalLevel().String()).
		Str("logFormat", lc.Format).
		Msg("Logger setup completed")
}

// Start builds the analysis pipeline and its collaborators.
func (a *Application) Start(ctx context.Context) error {
	a.StartupTime = time.Now().UTC()
	startLogger := a.Logger.With().Str("method", "Start").Logger()

	gen, err := NewGenerator(a.Cfg.TextGen)
	if err != nil {
		return err
	}

	table := critique.DefaultTable()
	if path := a.Cfg.Critique.PersonasFile; path != "" {
		if table, err = critique.LoadTable(path); err != nil {
			return err
		}
	}

	transcriber, err := a.newTranscriber(ctx)
	if err != nil {
		return err
	}

	a.Publisher = events.New(&events.Config{
		Enabled:       a.Cfg.Kafka.Enabled,
		Brokers:       a.Cfg.Kafka.Brokers,
		TopicCritique: a.Cfg.Kafka.TopicCritique,
		TopicReport:   a.Cfg.Kafka.TopicReport,
		Principal:     a.Cfg.Kafka.Principal,
	})
	a.closers = append(a.closers, a.Publisher.Close)

	critic := critique.New(gen, table, critique.Config{
		Temperature:     a.Cfg.Critique.Temperature,
		Workers:         a.Cfg.Critique.Workers,
		DispatchTimeout: a.Cfg.Critique.DispatchTimeout,
	})
	a.Pipeline = analysis.New(critic, a.Publisher).
		WithValidator(&schema.Validator{
			MaxTranscriptBytes: a.Cfg.Limits.MaxTranscriptBytes,
			MaxAudioBytes:      a.Cfg.Limits.MaxAudioBytes,
			MaxFrames:          a.Cfg.Limits.MaxFrames,
		})
	if transcriber != nil {
		a.Pipeline.WithTranscriber(transcriber)
	}

	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Str("textgen", gen.Name()).
		Str("stt", a.Cfg.STT.Provider).
		Strs("personas", table.Names()).
		Bool("kafka", a.Publisher.Enabled()).
		Msg("AI Speech Delivery service starting")
	return nil
}

// NewGenerator selects the text generation provider.
func NewGenerator(cfg config.TextGenConfig) (textgen.Generator, error) {
	switch cfg.Provider {
	case "mock":
		return textgenmock.New(), nil
	case "deepseek":
		if cfg.APIKey == "" {
			return nil, errors.New("deepseek provider requires DEEPSEEK_API_KEY")
		}
		dc := deepseek.DefaultConfig()
		dc.APIKey = cfg.APIKey
		if cfg.BaseURL != "" {
			dc.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			dc.Model = cfg.Model
		}
		if cfg.Timeout > 0 {
			dc.Timeout = cfg.Timeout
		}
		return deepseek.New(dc), nil
	default:
		return nil, fmt.Errorf("unknown text generation provider %q", cfg.Provider)
	}
}

func (a *Application) newTranscriber(ctx context.Context) (stt.Transcriber, error) {
	switch a.Cfg.STT.Provider {
	case "", "none":
		return nil, nil
	case "mock":
		return sttmock.New(), nil
	case "google":
		t, err := sttgoogle.New(ctx, sttgoogle.Config{
			LanguageCode:  a.Cfg.STT.LanguageCode,
			SampleRateHz:  int32(a.Cfg.STT.SampleRateHz),
			AudioEncoding: a.Cfg.STT.AudioEncoding,
			Punctuation:   true,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, t.Close)
		return t, nil
	default:
		return nil, fmt.Errorf("unknown STT provider %q", a.Cfg.STT.Provider)
	}
}

// Shutdown releases collaborators in reverse order of creation.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().Str("method", "Shutdown").Logger()
	shutdownLogger.Info().Msg("AI Speech Delivery service shutting down")

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			shutdownLogger.Error().Err(err).Msg("Error releasing resource")
		}
	}
	a.closers = nil
}
