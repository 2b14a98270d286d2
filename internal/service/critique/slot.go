package critique

import (
	"errors"
	"fmt"
	"sync"
)

// SlotState is the lifecycle state of one persona dispatch.
type SlotState int

const (
	// SlotPending - Slot created, request not sent yet.
	SlotPending SlotState = iota
	// SlotDispatched - Request in flight.
	SlotDispatched
	// SlotRecovered - Reply received and run through recovery (either variant).
	SlotRecovered
	// SlotFailed - Transport failure or never dispatched, no reply to recover.
	SlotFailed
)

// String returns the string representation of the state.
func (s SlotState) String() string {
	switch s {
	case SlotPending:
		return "PENDING"
	case SlotDispatched:
		return "DISPATCHED"
	case SlotRecovered:
		return "RECOVERED"
	case SlotFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true for RECOVERED and FAILED.
func (s SlotState) IsTerminal() bool {
	return s == SlotRecovered || s == SlotFailed
}

// Errors for invalid slot transitions.
var (
	ErrSlotSettled       = errors.New("persona slot already settled")
	ErrSlotNotDispatched = errors.New("persona slot not dispatched")
	ErrAlreadyDispatched = errors.New("persona slot already dispatched")
	ErrSlotUnsettled     = errors.New("persona slot not settled")
)

// Slot tracks a single persona dispatch.
//
//	PENDING → DISPATCHED → RECOVERED
//	   │          └──────→ FAILED
//	   └─────────────────→ FAILED (abandoned)
//
// Terminal states are final. Safe for concurrent use.
type Slot struct {
	mu      sync.RWMutex
	persona string
	state   SlotState
}

// NewSlot creates a slot in PENDING state.
func NewSlot(persona string) *Slot {
	return &Slot{persona: persona, state: SlotPending}
}

// Persona returns the persona name.
func (s *Slot) Persona() string {
	return s.persona
}

// State returns the current state.
func (s *Slot) State() SlotState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch moves PENDING to DISPATCHED.
func (s *Slot) Dispatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SlotPending:
		s.state = SlotDispatched
		return nil
	case SlotDispatched:
		return ErrAlreadyDispatched
	default:
		return ErrSlotSettled
	}
}

// Recover moves DISPATCHED to RECOVERED.
func (s *Slot) Recover() error {
	return s.settle(SlotRecovered)
}

// Fail moves DISPATCHED to FAILED.
func (s *Slot) Fail() error {
	return s.settle(SlotFailed)
}

// Abandon moves PENDING to FAILED for a dispatch that was never sent.
func (s *Slot) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SlotPending:
		s.state = SlotFailed
		return nil
	case SlotDispatched:
		return ErrAlreadyDispatched
	default:
		return ErrSlotSettled
	}
}

func (s *Slot) settle(to SlotState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state.IsTerminal():
		return ErrSlotSettled
	case s.state != SlotDispatched:
		return ErrSlotNotDispatched
	}
	s.state = to
	return nil
}
