package logs_querying

import (
	logs_core "logstream/internal/features/logs/core"
)

type GetRecentLogsRequestDTO struct {
	Limit int `form:"limit"`
}

type SeverityCountDTO struct {
	Severity logs_core.Severity `json:"severity"`
	Count    int64              `json:"count"`
}
