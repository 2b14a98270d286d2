// Package mock provides a canned transcriber for testing without cloud credentials.
package mock

import (
	"context"
	"sync"
)

// DefaultTranscript is returned when no transcript is configured.
const DefaultTranscript = "Hi, um, we are building, like, a smart sock that tracks your steps. " +
	"Basically we sell it direct to runners and, you know, it pays for itself."

// Transcriber implements stt.Transcriber with a fixed reply.
type Transcriber struct {
	mu         sync.Mutex
	transcript string
	err        error
	calls      int
}

// New creates a mock transcriber returning DefaultTranscript.
func New() *Transcriber {
	return &Transcriber{transcript: DefaultTranscript}
}

// WithTranscript sets the reply.
func (t *Transcriber) WithTranscript(s string) *Transcriber {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transcript = s
	return t
}

// WithError makes every call fail with err.
func (t *Transcriber) WithError(err error) *Transcriber {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
	return t
}

// Name returns the provider name.
func (t *Transcriber) Name() string { return "mock" }

// Transcribe returns the configured reply.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.err != nil {
		return "", t.err
	}
	return t.transcript, nil
}

// Calls returns how many times Transcribe ran.
func (t *Transcriber) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
