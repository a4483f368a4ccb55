package logs_core

import (
	"time"
)

// LogRecord is one accepted log event. It is created once by the ingestion
// pipeline and passed to sinks by value.
type LogRecord struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	Message   string         `json:"message"`
	Severity  Severity       `json:"severity"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	CreatedAt time.Time      `json:"createdAt"`
}
