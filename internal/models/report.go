package models

import "time"

// Indicator is an annotation emitted when a delivery metric crosses a notable threshold.
type Indicator string

// Report is the complete delivery assessment of one recording.
type Report struct {
	AnalysisID        string                    `json:"analysis_id"`
	Source            string                    `json:"source"`
	Transcript        string                    `json:"transcript"`
	GeneratedAt       time.Time                 `json:"generated_at"`
	Metrics           DeliveryMetrics           `json:"metrics"`
	ConfidenceVerdict ConfidenceVerdict         `json:"confidence_verdict"`
	Critiques         map[string]CritiqueResult `json:"critiques"`
	CritiqueStatus    string                    `json:"critique_status,omitempty"`
	DispatchErrors    map[string]string         `json:"dispatch_errors,omitempty"`
}

// DeliveryMetrics groups the per-family metric dictionaries.
type DeliveryMetrics struct {
	Pace        PaceMetrics   `json:"pace"`
	Pitch       PitchMetrics  `json:"pitch"`
	Volume      VolumeMetrics `json:"volume"`
	Pauses      PauseMetrics  `json:"pauses"`
	FillerWords FillerMetrics `json:"filler_words"`
}

// PaceMetrics describes speaking rate. WPM and WordCount are nil without a transcript.
type PaceMetrics struct {
	WPM             *float64 `json:"wpm"`
	WordCount       *int     `json:"word_count"`
	DurationMinutes float64  `json:"duration_minutes"`
	PaceType        string   `json:"pace_type"`
}

// PitchMetrics describes pitch variation over voiced frames.
type PitchMetrics struct {
	Status               string   `json:"status,omitempty"`
	MeanPitchHz          *float64 `json:"mean_pitch_hz,omitempty"`
	StdPitchHz           *float64 `json:"std_pitch_hz,omitempty"`
	PitchRangeHz         *float64 `json:"pitch_range_hz,omitempty"`
	CoefficientVariation *float64 `json:"coefficient_variation,omitempty"`
	ToneType             string   `json:"tone_type"`
}

// VolumeMetrics describes loudness variation over energy frames.
type VolumeMetrics struct {
	Status               string   `json:"status,omitempty"`
	MeanEnergy           *float64 `json:"mean_energy,omitempty"`
	StdEnergy            *float64 `json:"std_energy,omitempty"`
	EnergyRange          *float64 `json:"energy_range,omitempty"`
	CoefficientVariation *float64 `json:"coefficient_variation,omitempty"`
	VolumeType           string   `json:"volume_type"`
}

// PauseMetrics describes silences between phrases.
type PauseMetrics struct {
	Status              string   `json:"status,omitempty"`
	PauseCount          int      `json:"pause_count"`
	TotalPauseTimeSec   float64  `json:"total_pause_time_sec"`
	AvgPauseDurationSec float64  `json:"avg_pause_duration_sec"`
	HesitationIndex     *float64 `json:"hesitation_index"`
	HesitationLevel     string   `json:"hesitation_level"`
	PausePercentage     *float64 `json:"pause_percentage"`
}

// FillerMetrics describes filler word usage. Counts are nil without a transcript.
type FillerMetrics struct {
	Status            string         `json:"status,omitempty"`
	FillerCount       *int           `json:"filler_count,omitempty"`
	FillerRatePercent *float64       `json:"filler_rate_percent,omitempty"`
	FillerLevel       string         `json:"filler_level"`
	FillerBreakdown   map[string]int `json:"filler_breakdown"`
	TotalWords        *int           `json:"total_words,omitempty"`
}

// ConfidenceVerdict is the fused confidence score and its mood band.
type ConfidenceVerdict struct {
	Score      int         `json:"score"`
	Mood       string      `json:"mood"`
	Indicators []Indicator `json:"indicators"`
}
