package critique

import "strings"

// DefaultSchema is the strict output format every persona is asked to follow.
const DefaultSchema = `{
  "feedback": "5-8 line narrative feedback",
  "strengths": ["one", "two", "three"],
  "weaknesses": ["one", "two", "three"],
  "verdict": "Invest / Not Invest / Need More Info"
}`

// BuildPrompt renders the evaluation prompt for one persona. The transcript is embedded verbatim.
func BuildPrompt(p Persona, transcript string) string {
	schema := p.Schema
	if schema == "" {
		schema = DefaultSchema
	}

	var b strings.Builder
	b.WriteString("You are *")
	b.WriteString(p.Name)
	b.WriteString("*.\n\nYour perspective:\n")
	b.WriteString(p.Focus)
	b.WriteString("\n\nYour job:\n")
	b.WriteString("1. Read the transcript.\n")
	b.WriteString("2. Evaluate ONLY from your perspective.\n")
	b.WriteString("3. Output STRICT JSON format:\n")
	b.WriteString(schema)
	b.WriteString("\n\nTranscript:\n\"\"\"\n")
	b.WriteString(transcript)
	b.WriteString("\n\"\"\"\n\nReturn ONLY valid JSON.\n")
	return b.String()
}
