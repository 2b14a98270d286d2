// Package critique prompts a fixed panel of critic personas about a transcript
// and recovers a structured critique from each free-text reply.
package critique

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PanelSize is the number of personas on every panel.
const PanelSize = 4

// Persona is a critic identity with a fixed evaluative focus.
type Persona struct {
	Name   string `yaml:"name" json:"name"`
	Focus  string `yaml:"focus" json:"focus"`
	Schema string `yaml:"schema,omitempty" json:"schema,omitempty"` // output format instructions; DefaultSchema when empty
}

// Errors returned for malformed persona tables.
var (
	ErrPanelSize        = fmt.Errorf("persona table must hold exactly %d personas", PanelSize)
	ErrPersonaName      = errors.New("persona name must not be empty")
	ErrPersonaFocus     = errors.New("persona focus must not be empty")
	ErrDuplicatePersona = errors.New("duplicate persona name")
)

// DefaultPersonas is the built-in panel.
var DefaultPersonas = []Persona{
	{
		Name: "Visionary Shark",
		Focus: `You focus on:
- market potential
- innovation
- long-term scalability
- disruptive ideas`,
	},
	{
		Name: "Finance Shark",
		Focus: `You focus on:
- revenue model clarity
- margins & unit economics
- financial feasibility
- monetization strength`,
	},
	{
		Name: "Skeptic Shark",
		Focus: `You focus on:
- assumptions that seem unrealistic
- weaknesses or missing details
- risks the founder ignored`,
	},
	{
		Name: "Customer Advocate Shark",
		Focus: `You focus on:
- problem clarity
- user pain points
- how well the solution helps real customers`,
	},
}

// Table is a validated, ordered persona panel. It is immutable once built.
type Table struct {
	personas []Persona
}

// NewTable validates personas and fills in the default schema.
func NewTable(personas ...Persona) (*Table, error) {
	if len(personas) != PanelSize {
		return nil, fmt.Errorf("%w, got %d", ErrPanelSize, len(personas))
	}
	seen := make(map[string]bool, len(personas))
	out := make([]Persona, len(personas))
	for i, p := range personas {
		p.Name = strings.TrimSpace(p.Name)
		p.Focus = strings.TrimSpace(p.Focus)
		if p.Name == "" {
			return nil, fmt.Errorf("persona %d: %w", i, ErrPersonaName)
		}
		if p.Focus == "" {
			return nil, fmt.Errorf("persona %q: %w", p.Name, ErrPersonaFocus)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("persona %q: %w", p.Name, ErrDuplicatePersona)
		}
		seen[p.Name] = true
		if strings.TrimSpace(p.Schema) == "" {
			p.Schema = DefaultSchema
		}
		out[i] = p
	}
	return &Table{personas: out}, nil
}

// DefaultTable returns the built-in panel.
func DefaultTable() *Table {
	t, err := NewTable(DefaultPersonas...)
	if err != nil {
		panic(err)
	}
	return t
}

type tableFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadTable reads a persona table from a YAML file of the form
//
//	personas:
//	  - name: Visionary Shark
//	    focus: |
//	      You focus on: ...
func LoadTable(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona table: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse persona table %s: %w", path, err)
	}
	t, err := NewTable(f.Personas...)
	if err != nil {
		return nil, fmt.Errorf("persona table %s: %w", path, err)
	}
	return t, nil
}

// Personas returns a copy of the panel in order.
func (t *Table) Personas() []Persona {
	return append([]Persona(nil), t.personas...)
}

// Names returns persona names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.personas))
	for i, p := range t.personas {
		out[i] = p.Name
	}
	return out
}
