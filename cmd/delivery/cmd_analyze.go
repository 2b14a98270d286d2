package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"ai-speech-delivery-service/internal/app"
	"ai-speech-delivery-service/internal/config"
	"ai-speech-delivery-service/internal/format"
	"ai-speech-delivery-service/internal/models"
)

type analyzeFlags struct {
	signals    string
	transcript string
	audio      string
	personas   string
	format     string
	id         string
	strict     bool
}

func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one recording and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.signals, "signals", "", "Path to the request JSON with signals (required)")
	f.StringVar(&flags.transcript, "transcript", "", "Path to a transcript text file (overrides the request)")
	f.StringVar(&flags.audio, "audio", "", "Path to raw audio, transcribed when no transcript is given")
	f.StringVar(&flags.personas, "personas", "", "Path to a persona table YAML file")
	f.StringVarP(&flags.format, "format", "f", "json", "Output format: json, table or markdown")
	f.StringVar(&flags.id, "id", "", "Analysis ID (generated when empty)")
	f.BoolVar(&flags.strict, "strict", false, "Exit non-zero when any persona could not be reached")
	_ = cmd.MarkFlagRequired("signals")
	return cmd
}

func runAnalyze(cmd *cobra.Command, flags analyzeFlags) error {
	req, err := loadRequest(flags)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if flags.personas != "" {
		cfg.Critique.PersonasFile = flags.personas
	}
	a, err := startApp(cmd, cfg)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rep, dispatchErr := a.Pipeline.Analyze(ctx, req)
	if rep == nil {
		return fmt.Errorf("analyze: %w", dispatchErr)
	}
	if err := writeReport(cmd, rep, flags.format); err != nil {
		return err
	}
	if dispatchErr != nil {
		if flags.strict {
			return fmt.Errorf("persona dispatch failed: %w", dispatchErr)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", dispatchErr)
	}
	return nil
}

func loadRequest(flags analyzeFlags) (*models.AnalysisRequest, error) {
	data, err := os.ReadFile(flags.signals)
	if err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}
	var req models.AnalysisRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse signals %s: %w", flags.signals, err)
	}
	if flags.transcript != "" {
		b, err := os.ReadFile(flags.transcript)
		if err != nil {
			return nil, fmt.Errorf("read transcript: %w", err)
		}
		req.Transcript = string(b)
	}
	if flags.audio != "" {
		if req.Audio, err = os.ReadFile(flags.audio); err != nil {
			return nil, fmt.Errorf("read audio: %w", err)
		}
	}
	if flags.id != "" {
		req.AnalysisID = flags.id
	}
	if req.Source == "" {
		req.Source = "cli"
	}
	return &req, nil
}

// startApp logs to stderr so stdout carries only the rendered output.
func startApp(cmd *cobra.Command, cfg *config.Config) (*app.Application, error) {
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Observability.LogLevel = "warn"
	}
	cfg.Observability.LogFormat = "console"
	a := app.NewWithWriter(cfg, cmd.ErrOrStderr())
	if err := a.Start(cmd.Context()); err != nil {
		return nil, err
	}
	return a, nil
}

func writeReport(cmd *cobra.Command, rep *models.Report, mode string) error {
	out := cmd.OutOrStdout()
	if strings.EqualFold(mode, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	m, err := format.ParseMode(mode)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, format.Report(rep, m))
	return err
}

