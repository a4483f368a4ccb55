package system_healthcheck

import (
	"logstream/internal/downdetect"
)

type HealthStatus string

const (
	HealthStatusOk           HealthStatus = "ok"
	HealthStatusDegraded     HealthStatus = "degraded"
	HealthStatusShuttingDown HealthStatus = "shutting_down"
)

type HealthcheckResponseDTO struct {
	Status            HealthStatus                     `json:"status"`
	Sinks             map[string]downdetect.SinkStatus `json:"sinks"`
	MemoryUsedPercent float64                          `json:"memoryUsedPercent"`
}
