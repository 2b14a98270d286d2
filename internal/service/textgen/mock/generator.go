// Package mock provides a scripted text generator for tests and offline runs
// without model credentials.
package mock

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultResponse is returned when no rule matches a prompt.
const DefaultResponse = "```json\n" + `{
  "feedback": "The pitch is clear and the speaker sounds prepared. The problem statement lands early, but the plan for reaching customers stays vague.",
  "strengths": ["Clear problem statement", "Confident opening", "Concise delivery"],
  "weaknesses": ["Unclear go-to-market", "No revenue figures", "Thin competitive analysis"],
  "verdict": "Need More Info"
}` + "\n```"

type rule struct {
	match    string
	response string
	err      error
}

// Generator implements textgen.Generator with canned replies chosen by
// substring match against the prompt.
type Generator struct {
	mu      sync.Mutex
	rules   []rule
	delay   time.Duration
	prompts []string
}

// New creates a generator that answers every prompt with DefaultResponse.
func New() *Generator {
	return &Generator{}
}

// Respond answers prompts containing match with response.
func (g *Generator) Respond(match, response string) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = append(g.rules, rule{match: match, response: response})
	return g
}

// Fail answers prompts containing match with err.
func (g *Generator) Fail(match string, err error) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = append(g.rules, rule{match: match, err: err})
	return g
}

// WithDelay makes every call block for d, or until the context is done.
func (g *Generator) WithDelay(d time.Duration) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delay = d
	return g
}

// Name returns the provider name.
func (g *Generator) Name() string { return "mock" }

// Generate returns the first matching rule's reply.
func (g *Generator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	delay := g.delay
	rules := append([]rule(nil), g.rules...)
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	for _, r := range rules {
		if strings.Contains(prompt, r.match) {
			return r.response, r.err
		}
	}
	return DefaultResponse, nil
}

// Prompts returns every prompt received so far.
func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.prompts...)
}
