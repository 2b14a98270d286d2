// Package schema checks and normalizes analysis requests before they reach the pipeline.
package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"ai-speech-delivery-service/internal/models"
)

// Default request limits.
const (
	DefaultMaxTranscriptBytes = 256 << 10
	DefaultMaxAudioBytes      = 10 << 20
	DefaultMaxFrames          = 1 << 20
	DefaultSource             = "unspecified"
)

// Structural request errors. Bad measurement values are never errors; they are dropped and noted.
var (
	ErrNilRequest = errors.New("request is nil")
	ErrTooLarge   = errors.New("request exceeds size limit")
)

// Validator enforces size limits and strips invalid measurements.
type Validator struct {
	MaxTranscriptBytes int
	MaxAudioBytes      int
	MaxFrames          int
}

// New creates a validator with default limits.
func New() *Validator {
	return &Validator{
		MaxTranscriptBytes: DefaultMaxTranscriptBytes,
		MaxAudioBytes:      DefaultMaxAudioBytes,
		MaxFrames:          DefaultMaxFrames,
	}
}

// Validate normalizes req in place. It returns a note for every correction made,
// and an error only when the request cannot be processed at all.
func (v *Validator) Validate(req *models.AnalysisRequest) ([]string, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if n := len(req.Transcript); v.MaxTranscriptBytes > 0 && n > v.MaxTranscriptBytes {
		return nil, fmt.Errorf("%w: transcript is %d bytes, limit %d", ErrTooLarge, n, v.MaxTranscriptBytes)
	}
	if n := len(req.Audio); v.MaxAudioBytes > 0 && n > v.MaxAudioBytes {
		return nil, fmt.Errorf("%w: audio is %d bytes, limit %d", ErrTooLarge, n, v.MaxAudioBytes)
	}
	sig := &req.Signals
	if n := max(len(sig.Pitch.Frames), len(sig.Energy.Frames)); v.MaxFrames > 0 && n > v.MaxFrames {
		return nil, fmt.Errorf("%w: %d frames, limit %d", ErrTooLarge, n, v.MaxFrames)
	}

	var notes []string

	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		req.Source = DefaultSource
	}
	if strings.TrimSpace(req.Transcript) == "" {
		req.Transcript = ""
	}
	if clean := strings.ToValidUTF8(req.Transcript, "\uFFFD"); clean != req.Transcript {
		req.Transcript = clean
		notes = append(notes, "transcript contained invalid UTF-8")
	}

	if d := sig.DurationSec; math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		sig.DurationSec = 0
		notes = append(notes, fmt.Sprintf("duration_sec %v is invalid, treated as unknown", d))
	}

	if mask := sig.Pitch.Voiced; mask != nil && len(mask) != len(sig.Pitch.Frames) {
		notes = append(notes, fmt.Sprintf("voiced mask has %d entries for %d pitch frames, missing entries are unvoiced", len(mask), len(sig.Pitch.Frames)))
	}

	kept := sig.Silences[:0]
	dropped := 0
	for _, iv := range sig.Silences {
		if !finite(iv.Start()) || !finite(iv.End()) || iv.End() < iv.Start() {
			dropped++
			continue
		}
		kept = append(kept, iv)
	}
	sig.Silences = kept
	if dropped > 0 {
		notes = append(notes, fmt.Sprintf("dropped %d invalid silence intervals", dropped))
	}

	return notes, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
