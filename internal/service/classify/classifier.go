// Package classify maps scalar delivery statistics to categorical labels.
//
// Each classifier is an ordered list of bands evaluated first-match-wins.
// Bands are validated when the classifier is built, so every classifier in
// the bank is contiguous and exhaustive over the real numbers.
package classify

import (
	"errors"
	"fmt"
	"math"
)

// Band assigns Label to every value strictly below Below that no earlier band matched.
type Band struct {
	Below float64
	Label string
}

// Errors returned when a band table is malformed.
var (
	ErrNoBands        = errors.New("classifier has no bands")
	ErrBandOrder      = errors.New("band bounds must be strictly ascending")
	ErrBandNotOpen    = errors.New("last band must be unbounded")
	ErrBandEmptyLabel = errors.New("band label must not be empty")
)

// Classifier is a monotonic step function from a scalar to a label.
type Classifier struct {
	name    string
	bands   []Band
	unknown string
}

// New validates bands and returns a classifier.
// unknown is returned for NaN or otherwise undefined inputs.
func New(name, unknown string, bands ...Band) (*Classifier, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoBands)
	}
	if unknown == "" {
		return nil, fmt.Errorf("%s unknown label: %w", name, ErrBandEmptyLabel)
	}
	for i, b := range bands {
		if b.Label == "" {
			return nil, fmt.Errorf("%s band %d: %w", name, i, ErrBandEmptyLabel)
		}
		if i > 0 && !(b.Below > bands[i-1].Below) {
			return nil, fmt.Errorf("%s band %d: %w", name, i, ErrBandOrder)
		}
	}
	if !math.IsInf(bands[len(bands)-1].Below, 1) {
		return nil, fmt.Errorf("%s: %w", name, ErrBandNotOpen)
	}
	return &Classifier{
		name:    name,
		bands:   append([]Band(nil), bands...),
		unknown: unknown,
	}, nil
}

// MustNew is like New but panics on a malformed band table.
func MustNew(name, unknown string, bands ...Band) *Classifier {
	c, err := New(name, unknown, bands...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the classifier name.
func (c *Classifier) Name() string { return c.name }

// Unknown returns the label used for undefined inputs.
func (c *Classifier) Unknown() string { return c.unknown }

// Labels returns the band labels in ascending order.
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.bands))
	for i, b := range c.bands {
		out[i] = b.Label
	}
	return out
}

// Classify returns the label of the first band whose bound exceeds v.
func (c *Classifier) Classify(v float64) string {
	if math.IsNaN(v) {
		return c.unknown
	}
	for _, b := range c.bands {
		if v < b.Below {
			return b.Label
		}
	}
	// +Inf itself lands here.
	return c.bands[len(c.bands)-1].Label
}

// ClassifyOptional classifies v, or returns the unknown label when v is nil.
func (c *Classifier) ClassifyOptional(v *float64) string {
	if v == nil {
		return c.unknown
	}
	return c.Classify(*v)
}
