// Package textgen defines the interface for text-generation providers.
package textgen

import (
	"context"
	"errors"
	"fmt"
)

// Generator sends one prompt to a text-generation model and returns its raw reply.
type Generator interface {
	// Generate blocks until the provider answers. Temperature controls determinism.
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// ErrNoChoices is returned when a provider answered without any completion.
var ErrNoChoices = errors.New("response carried no choices")

// TransportError is a failure to obtain a reply from the provider: network
// errors, non-2xx responses, and responses missing the expected fields.
type TransportError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
