// Package signal reduces raw per-frame measurement series to descriptive statistics.
package signal

import (
	"math"

	"ai-speech-delivery-service/internal/models"
)

// Summary holds population statistics of a measurement series.
type Summary struct {
	Mean                 float64
	StdDev               float64
	Range                float64
	CoefficientVariation float64 // StdDev / Mean * 100; 0 when Mean is 0
}

// Summarize computes a Summary over the finite samples.
// It returns false when no finite sample remains, which callers must treat as undetermined.
func Summarize(samples []float64) (Summary, bool) {
	var (
		n      int
		sum    float64
		lo, hi float64
	)
	for _, v := range samples {
		if !finite(v) {
			continue
		}
		if n == 0 || v < lo {
			lo = v
		}
		if n == 0 || v > hi {
			hi = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return Summary{}, false
	}

	mean := sum / float64(n)
	var sq float64
	for _, v := range samples {
		if !finite(v) {
			continue
		}
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(n))

	return Summary{
		Mean:                 mean,
		StdDev:               std,
		Range:                hi - lo,
		CoefficientVariation: CoefficientOfVariation(mean, std),
	}, true
}

// CoefficientOfVariation returns std/mean as a percentage, or 0 when mean is 0.
func CoefficientOfVariation(mean, std float64) float64 {
	if mean == 0 {
		return 0
	}
	return std / mean * 100
}

// VoicedPitch returns the pitch values of voiced frames.
// Without a mask every frame is considered voiced; unvoiced trackers commonly
// emit NaN or 0, both of which are dropped.
func VoicedPitch(track models.PitchTrack) []float64 {
	out := make([]float64, 0, len(track.Frames))
	for i, f := range track.Frames {
		if track.Voiced != nil && (i >= len(track.Voiced) || !track.Voiced[i]) {
			continue
		}
		if !finite(f) || f <= 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// PauseStats summarizes the silence intervals of a recording.
type PauseStats struct {
	Count         int
	TotalSec      float64
	AvgSec        float64
	PerMinute     float64 // hesitation index
	Percentage    float64 // share of the recording spent in pauses
	DurationKnown bool    // PerMinute and Percentage are only meaningful when true
}

// Pauses computes PauseStats. Intervals with a negative or non-finite length are ignored.
func Pauses(silences []models.Interval, durationSec float64) PauseStats {
	var st PauseStats
	for _, iv := range silences {
		d := iv.Duration()
		if !finite(iv.Start()) || !finite(iv.End()) || d < 0 {
			continue
		}
		st.Count++
		st.TotalSec += d
	}
	if st.Count > 0 {
		st.AvgSec = st.TotalSec / float64(st.Count)
	}
	if finite(durationSec) && durationSec > 0 {
		st.DurationKnown = true
		st.PerMinute = float64(st.Count) / (durationSec / 60)
		st.Percentage = st.TotalSec / durationSec * 100
	}
	return st
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
