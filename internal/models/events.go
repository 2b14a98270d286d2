package models

// Event types published on the critique and report topics.
const (
	EventTypeCritique = "delivery.critique.completed"
	EventTypeReport   = "delivery.report.assembled"
)

// CritiqueEvent carries one persona's recovered critique.
type CritiqueEvent struct {
	EventType  string         `json:"eventType"`
	AnalysisID string         `json:"analysisId"`
	Source     string         `json:"source"`
	Persona    string         `json:"persona"`
	Timestamp  int64          `json:"timestamp"`
	Result     CritiqueResult `json:"result"`
}

// ReportEvent carries an assembled report.
type ReportEvent struct {
	EventType  string  `json:"eventType"`
	AnalysisID string  `json:"analysisId"`
	Source     string  `json:"source"`
	Timestamp  int64   `json:"timestamp"`
	Score      int     `json:"score"`
	Mood       string  `json:"mood"`
	Report     *Report `json:"report"`
}
