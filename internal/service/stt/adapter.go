// Package stt defines the interface for Speech-to-Text providers used to
// obtain a transcript when a request carries audio but no text.
package stt

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned when the provider recognized no words.
var ErrNoSpeech = errors.New("no speech recognized")

// Transcriber converts a complete recording into text.
type Transcriber interface {
	// Transcribe returns the transcript for audio. It blocks until the provider answers.
	Transcribe(ctx context.Context, audio []byte) (string, error)

	// Name returns the provider name used in logs and metrics.
	Name() string
}
