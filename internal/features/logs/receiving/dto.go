package logs_receiving

import (
	logs_core "logstream/internal/features/logs/core"
)

type IngestStatus string

const (
	// StatusIngested means the record reached the durable queue.
	StatusIngested IngestStatus = "ingested"
	// StatusIngestedLocalOnly means a durable sink is configured but the
	// record is only guaranteed to be in local state.
	StatusIngestedLocalOnly IngestStatus = "ingested_local_only"
	// StatusReceivedLocal means no durable sink is configured at all.
	StatusReceivedLocal IngestStatus = "received_local"
)

type IngestLogRequestDTO struct {
	Source    string         `json:"source"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp any            `json:"timestamp,omitempty"`
}

type IngestLogResponseDTO struct {
	Status IngestStatus        `json:"status"`
	Log    logs_core.LogRecord `json:"log"`
}
