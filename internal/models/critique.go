package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is a persona's investment decision.
type Verdict string

const (
	VerdictInvest       Verdict = "Invest"
	VerdictNotInvest    Verdict = "Not Invest"
	VerdictNeedMoreInfo Verdict = "Need More Info"
	// VerdictUnknown is reported when the model answered outside the enum.
	VerdictUnknown Verdict = ""
)

// ParseVerdict maps free text onto the verdict enum, ignoring case and surrounding space.
func ParseVerdict(s string) Verdict {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invest":
		return VerdictInvest
	case "not invest":
		return VerdictNotInvest
	case "need more info":
		return VerdictNeedMoreInfo
	default:
		return VerdictUnknown
	}
}

// FailureKind classifies why a structured critique could not be recovered.
type FailureKind int

const (
	FailureEmptyOutput FailureKind = iota + 1
	FailureNoJSONFound
	FailureMalformedJSON
)

// String returns the stable identifier used in serialized reports.
func (k FailureKind) String() string {
	switch k {
	case FailureEmptyOutput:
		return "EmptyOutput"
	case FailureNoJSONFound:
		return "NoJSONFound"
	case FailureMalformedJSON:
		return "MalformedJSON"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Message returns a human readable description of the failure.
func (k FailureKind) Message() string {
	switch k {
	case FailureEmptyOutput:
		return "Empty model output"
	case FailureNoJSONFound:
		return "No JSON found"
	case FailureMalformedJSON:
		return "Malformed JSON"
	default:
		return "Unknown recovery failure"
	}
}

func parseFailureKind(s string) FailureKind {
	for _, k := range []FailureKind{FailureEmptyOutput, FailureNoJSONFound, FailureMalformedJSON} {
		if k.String() == s {
			return k
		}
	}
	return 0
}

// RecoveryFailure records a model response that did not yield a structured object.
type RecoveryFailure struct {
	Kind FailureKind
	Raw  string
}

func (f *RecoveryFailure) Error() string {
	return "critique recovery: " + f.Kind.Message()
}

// Critique is a structured object recovered from a persona response.
// Fields holds the object exactly as parsed; the accessors read the expected
// schema leniently and return zero values when the model drifted from it.
type Critique struct {
	Fields map[string]any
}

// Feedback returns the narrative feedback.
func (c *Critique) Feedback() string {
	s, _ := c.Fields["feedback"].(string)
	return s
}

// Strengths returns the string entries of the strengths list.
func (c *Critique) Strengths() []string {
	return stringList(c.Fields["strengths"])
}

// Weaknesses returns the string entries of the weaknesses list.
func (c *Critique) Weaknesses() []string {
	return stringList(c.Fields["weaknesses"])
}

// Verdict returns the parsed verdict, VerdictUnknown when missing or off-enum.
func (c *Critique) Verdict() Verdict {
	s, _ := c.Fields["verdict"].(string)
	return ParseVerdict(s)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// CritiqueResult is the outcome of recovering one persona response.
// Exactly one of Critique and Failure is set.
type CritiqueResult struct {
	Critique *Critique
	Failure  *RecoveryFailure
}

// Succeeded reports whether a structured critique was recovered.
func (r CritiqueResult) Succeeded() bool {
	return r.Critique != nil
}

type failureJSON struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Raw     string `json:"raw"`
}

// MarshalJSON writes the recovered object as-is, or {error, message, raw} for a failure.
func (r CritiqueResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.Critique != nil:
		return json.Marshal(r.Critique.Fields)
	case r.Failure != nil:
		return json.Marshal(failureJSON{
			Error:   r.Failure.Kind.String(),
			Message: r.Failure.Kind.Message(),
			Raw:     r.Failure.Raw,
		})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reverses MarshalJSON. Only an object with exactly the keys
// error, message and raw, a known failure identifier and its matching message
// decodes as a failure; anything else is a recovered critique. A model reply
// of precisely that shape is indistinguishable from a failure.
func (r *CritiqueResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	if fields == nil {
		*r = CritiqueResult{}
		return nil
	}
	if f, ok := failureFromFields(fields); ok {
		*r = CritiqueResult{Failure: f}
		return nil
	}
	*r = CritiqueResult{Critique: &Critique{Fields: fields}}
	return nil
}

func failureFromFields(fields map[string]any) (*RecoveryFailure, bool) {
	if len(fields) != 3 {
		return nil, false
	}
	code, _ := fields["error"].(string)
	msg, _ := fields["message"].(string)
	raw, ok := fields["raw"].(string)
	kind := parseFailureKind(code)
	if !ok || kind == 0 || msg != kind.Message() {
		return nil, false
	}
	return &RecoveryFailure{Kind: kind, Raw: raw}, true
}
