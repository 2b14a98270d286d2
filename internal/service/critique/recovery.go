package critique

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"ai-speech-delivery-service/internal/models"
)

// Recover extracts a structured object from a raw model reply.
// It never fails: unusable replies yield a RecoveryFailure carrying the text.
func Recover(raw string) models.CritiqueResult {
	if strings.TrimSpace(raw) == "" {
		return failure(models.FailureEmptyOutput, raw)
	}

	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	// Outermost braces; tolerates commentary before and after the object.
	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end < start {
		return failure(models.FailureNoJSONFound, cleaned)
	}

	fields, err := decodeObject(cleaned[start : end+1])
	if err != nil {
		return failure(models.FailureMalformedJSON, cleaned)
	}
	return models.CritiqueResult{Critique: &models.Critique{Fields: fields}}
}

// decodeObject parses exactly one JSON object, keeping numbers as json.Number.
func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after object")
	}
	return fields, nil
}

func failure(kind models.FailureKind, raw string) models.CritiqueResult {
	return models.CritiqueResult{Failure: &models.RecoveryFailure{Kind: kind, Raw: raw}}
}
