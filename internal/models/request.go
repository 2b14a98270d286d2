// Package models defines the data structures exchanged by the delivery analysis service.
package models

// AnalysisRequest is one recording submitted for delivery assessment.
// Signals are produced by an external acoustic front end; Transcript is optional.
type AnalysisRequest struct {
	AnalysisID string  `json:"analysis_id,omitempty"`
	Source     string  `json:"source"`
	Transcript string  `json:"transcript,omitempty"`
	Audio      []byte  `json:"audio,omitempty"` // used only for transcription when Transcript is empty
	Signals    Signals `json:"signals"`
}

// Signals carries the raw per-frame measurements of a recording.
type Signals struct {
	Pitch       PitchTrack  `json:"pitch"`
	Energy      EnergyTrack `json:"energy"`
	Silences    []Interval  `json:"silences"`
	DurationSec float64     `json:"duration_sec"`
}

// PitchTrack is a fundamental frequency estimate per frame (Hz).
// Voiced marks which frames carry a pitch; when absent every frame is considered voiced.
type PitchTrack struct {
	Frames []float64 `json:"frames"`
	Voiced []bool    `json:"voiced,omitempty"`
}

// EnergyTrack is an RMS energy value per frame.
type EnergyTrack struct {
	Frames []float64 `json:"frames"`
}

// Interval is a [start, end] pair in seconds.
type Interval [2]float64

// Start returns the interval start in seconds.
func (i Interval) Start() float64 { return i[0] }

// End returns the interval end in seconds.
func (i Interval) End() float64 { return i[1] }

// Duration returns end minus start.
func (i Interval) Duration() float64 { return i[1] - i[0] }
