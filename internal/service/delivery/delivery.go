// Package delivery turns raw signals and a transcript into per-family delivery metrics.
package delivery

import (
	"strings"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/service/classify"
	"ai-speech-delivery-service/internal/service/confidence"
	"ai-speech-delivery-service/internal/service/signal"
)

// Result is the output of the signal branch.
type Result struct {
	Metrics  models.DeliveryMetrics
	Evidence confidence.Evidence
	Verdict  models.ConfidenceVerdict
}

// Analyze computes metrics, fuses them and returns everything the report needs.
// An empty transcript is treated as unavailable.
func Analyze(sig models.Signals, transcript string) Result {
	transcript = strings.TrimSpace(transcript)

	pace, wpm := Pace(transcript, sig.DurationSec)
	pitch, pitchCV := Pitch(sig.Pitch)
	volume, volumeCV := Volume(sig.Energy)
	pauses, hesitation := Pauses(sig.Silences, sig.DurationSec)

	ev := confidence.Evidence{
		PitchCV:         pitchCV,
		VolumeCV:        volumeCV,
		WPM:             wpm,
		HesitationIndex: hesitation,
	}

	return Result{
		Metrics: models.DeliveryMetrics{
			Pace:        pace,
			Pitch:       pitch,
			Volume:      volume,
			Pauses:      pauses,
			FillerWords: Fillers(transcript),
		},
		Evidence: ev,
		Verdict:  confidence.Fuse(ev),
	}
}

// Pace computes words per minute. The returned wpm is nil when there is no
// transcript or the duration is not positive.
func Pace(transcript string, durationSec float64) (models.PaceMetrics, *float64) {
	minutes := durationSec / 60
	m := models.PaceMetrics{
		DurationMinutes: signal.Round(minutes, 2),
	}
	if transcript == "" || !(durationSec > 0) {
		m.PaceType = classify.Pace.Unknown()
		return m, nil
	}

	words := len(classify.Words(transcript))
	wpm := signal.Round(float64(words)/minutes, 2)
	m.WPM = &wpm
	m.WordCount = &words
	m.PaceType = classify.Pace.Classify(wpm)
	return m, &wpm
}

// Pitch summarizes voiced pitch frames. The returned CV is the reported
// (rounded) value, nil when no frame is voiced.
func Pitch(track models.PitchTrack) (models.PitchMetrics, *float64) {
	s, ok := signal.Summarize(signal.VoicedPitch(track))
	if !ok {
		return models.PitchMetrics{
			Status:   classify.LabelPitchUndetected,
			ToneType: classify.Tone.Unknown(),
		}, nil
	}
	cv := s.CoefficientVariation
	reported := round(cv, 2)
	return models.PitchMetrics{
		MeanPitchHz:          round(s.Mean, 2),
		StdPitchHz:           round(s.StdDev, 2),
		PitchRangeHz:         round(s.Range, 2),
		CoefficientVariation: reported,
		ToneType:             classify.Tone.Classify(cv),
	}, reported
}

// Volume summarizes energy frames. The returned CV is nil when there are no frames.
func Volume(track models.EnergyTrack) (models.VolumeMetrics, *float64) {
	s, ok := signal.Summarize(track.Frames)
	if !ok {
		return models.VolumeMetrics{
			Status:     "No energy frames",
			VolumeType: classify.Volume.Unknown(),
		}, nil
	}
	cv := s.CoefficientVariation
	return models.VolumeMetrics{
		MeanEnergy:           round(s.Mean, 4),
		StdEnergy:            round(s.StdDev, 4),
		EnergyRange:          round(s.Range, 4),
		CoefficientVariation: round(cv, 2),
		VolumeType:           classify.Volume.Classify(cv),
	}, &cv
}

// Pauses summarizes silence intervals. The returned hesitation index is the
// reported (rounded) value, nil when the recording duration is not positive.
func Pauses(silences []models.Interval, durationSec float64) (models.PauseMetrics, *float64) {
	st := signal.Pauses(silences, durationSec)
	m := models.PauseMetrics{
		PauseCount:          st.Count,
		TotalPauseTimeSec:   signal.Round(st.TotalSec, 2),
		AvgPauseDurationSec: signal.Round(st.AvgSec, 2),
	}
	if !st.DurationKnown {
		m.Status = "Recording duration unknown"
		m.HesitationLevel = classify.Hesitation.Unknown()
		return m, nil
	}
	idx := st.PerMinute
	m.HesitationIndex = round(idx, 2)
	m.PausePercentage = round(st.Percentage, 2)
	m.HesitationLevel = classify.Hesitation.Classify(idx)
	return m, m.HesitationIndex
}

// Fillers tallies filler words in the transcript.
func Fillers(transcript string) models.FillerMetrics {
	u := classify.CountFillers(transcript)
	if u.Words == 0 {
		return models.FillerMetrics{
			Status:      classify.LabelTranscriptNeeded,
			FillerLevel: classify.Filler.Unknown(),
		}
	}
	return models.FillerMetrics{
		FillerCount:       &u.Count,
		FillerRatePercent: round(u.Rate, 2),
		FillerLevel:       classify.Filler.Classify(u.Rate),
		FillerBreakdown:   u.Breakdown,
		TotalWords:        &u.Words,
	}
}

func round(v float64, places int) *float64 {
	r := signal.Round(v, places)
	return &r
}
