package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-speech-delivery-service/internal/config"
	"ai-speech-delivery-service/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.TextGen.Provider = "mock"
	cfg.STT.Provider = "mock"
	cfg.Critique.Temperature = 0.5
	cfg.Critique.Workers = 4
	cfg.Observability.LogLevel = "info"
	cfg.Observability.LogFormat = "json"
	return cfg
}

func TestApplication_StartAndAnalyze(t *testing.T) {
	var buf bytes.Buffer
	a := NewWithWriter(testConfig(), &buf)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	rep, err := a.Pipeline.Analyze(context.Background(), &models.AnalysisRequest{
		Audio:   []byte{1, 2},
		Signals: models.Signals{DurationSec: 30},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rep.Transcript == "" {
		t.Error("expected mock transcription to fill the transcript")
	}
	if len(rep.Critiques) != 4 {
		t.Errorf("expected 4 critiques, got %d", len(rep.Critiques))
	}
	if !strings.Contains(buf.String(), "AI Speech Delivery service starting") {
		t.Error("expected startup log line")
	}
}

func TestApplication_StartErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown textgen", func(c *config.Config) { c.TextGen.Provider = "oracle" }},
		{"deepseek without key", func(c *config.Config) { c.TextGen.Provider = "deepseek" }},
		{"unknown stt", func(c *config.Config) { c.STT.Provider = "whisper" }},
		{"missing personas file", func(c *config.Config) { c.Critique.PersonasFile = "/nonexistent/personas.yaml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			a := NewWithWriter(cfg, &bytes.Buffer{})
			if err := a.Start(context.Background()); err == nil {
				t.Error("expected start error")
			}
		})
	}
}

func TestApplication_PersonasFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	content := "personas:\n" +
		"  - {name: One, focus: a}\n" +
		"  - {name: Two, focus: b}\n" +
		"  - {name: Three, focus: c}\n" +
		"  - {name: Four, focus: d}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Critique.PersonasFile = path

	a := NewWithWriter(cfg, &bytes.Buffer{})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	ps := a.Pipeline.Personas()
	if len(ps) != 4 || ps[0].Name != "One" {
		t.Errorf("expected personas from file, got %+v", ps)
	}
}

func TestNewGenerator_DeepSeek(t *testing.T) {
	gen, err := NewGenerator(config.TextGenConfig{Provider: "deepseek", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Name() != "deepseek" {
		t.Errorf("expected deepseek, got %s", gen.Name())
	}
}
