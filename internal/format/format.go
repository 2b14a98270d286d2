// Package format renders reports as terminal tables or Markdown.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/service/critique"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps a flag value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "table", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return ASCII, fmt.Errorf("unknown format %q", s)
	}
}

const textWidth = 60

func newWriter(m Mode, title string) table.Writer {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	w.SetTitle(title)
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// Report renders the summary, metrics and critiques sections.
func Report(rep *models.Report, m Mode) string {
	sections := []string{summary(rep, m), metricsTable(rep.Metrics, m), critiques(rep, m)}
	return strings.Join(sections, "\n\n") + "\n"
}

func summary(rep *models.Report, m Mode) string {
	w := newWriter(m, "Delivery Assessment")
	w.AppendRows([]table.Row{
		{"Analysis", rep.AnalysisID},
		{"Source", rep.Source},
		{"Confidence score", rep.ConfidenceVerdict.Score},
		{"Mood", rep.ConfidenceVerdict.Mood},
		{"Indicators", joinIndicators(rep.ConfidenceVerdict.Indicators)},
	})
	if rep.CritiqueStatus != "" {
		w.AppendRow(table.Row{"Critique status", rep.CritiqueStatus})
	}
	return render(w, m)
}

func joinIndicators(ind []models.Indicator) string {
	if len(ind) == 0 {
		return "-"
	}
	s := make([]string, len(ind))
	for i, v := range ind {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

func metricsTable(dm models.DeliveryMetrics, m Mode) string {
	w := newWriter(m, "Metrics")
	w.AppendHeader(table.Row{"Family", "Measure", "Label"})
	w.AppendRows([]table.Row{
		{"Pace", fmt.Sprintf("%s wpm, %s words", optFloat(dm.Pace.WPM), optInt(dm.Pace.WordCount)), dm.Pace.PaceType},
		{"Pitch", fmt.Sprintf("mean %s Hz, CV %s%%", optFloat(dm.Pitch.MeanPitchHz), optFloat(dm.Pitch.CoefficientVariation)), dm.Pitch.ToneType},
		{"Volume", fmt.Sprintf("mean %s, CV %s%%", optFloat(dm.Volume.MeanEnergy), optFloat(dm.Volume.CoefficientVariation)), dm.Volume.VolumeType},
		{"Pauses", fmt.Sprintf("%d pauses, %s/min", dm.Pauses.PauseCount, optFloat(dm.Pauses.HesitationIndex)), dm.Pauses.HesitationLevel},
		{"Fillers", fmt.Sprintf("%s fillers, %s%%", optInt(dm.FillerWords.FillerCount), optFloat(dm.FillerWords.FillerRatePercent)), dm.FillerWords.FillerLevel},
	})
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignLeft}})
	return render(w, m)
}

func critiques(rep *models.Report, m Mode) string {
	w := newWriter(m, "Critiques")
	w.AppendHeader(table.Row{"Persona", "Verdict", "Strengths", "Weaknesses"})

	names := make([]string, 0, len(rep.Critiques)+len(rep.DispatchErrors))
	for name := range rep.Critiques {
		names = append(names, name)
	}
	for name := range rep.DispatchErrors {
		if _, ok := rep.Critiques[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		res, ok := rep.Critiques[name]
		switch {
		case !ok:
			w.AppendRow(table.Row{name, "transport failure", rep.DispatchErrors[name], ""})
		case res.Failure != nil:
			w.AppendRow(table.Row{name, res.Failure.Kind.String(), res.Failure.Kind.Message(), ""})
		case res.Critique != nil:
			verdict := string(res.Critique.Verdict())
			if verdict == "" {
				verdict = "unrecognized"
			}
			w.AppendRow(table.Row{name, verdict, strings.Join(res.Critique.Strengths(), "; "), strings.Join(res.Critique.Weaknesses(), "; ")})
		}
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: textWidth},
		{Number: 4, WidthMax: textWidth},
	})
	return render(w, m)
}

// Personas renders the persona panel.
func Personas(ps []critique.Persona, m Mode) string {
	w := newWriter(m, "Personas")
	w.AppendHeader(table.Row{"#", "Name", "Focus"})
	for i, p := range ps {
		focus := strings.TrimSpace(strings.TrimPrefix(p.Focus, "You focus on:"))
		focus = strings.Join(strings.Fields(strings.ReplaceAll(focus, "\n- ", "; ")), " ")
		w.AppendRow(table.Row{i + 1, p.Name, strings.TrimPrefix(focus, "- ")})
	}
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: textWidth}})
	return render(w, m) + "\n"
}

func optFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func optInt(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}
