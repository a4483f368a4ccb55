package system_healthcheck

import (
	"context"
	"log/slog"
	"math"

	"logstream/internal/config"
	"logstream/internal/downdetect"

	"github.com/shirou/gopsutil/v4/mem"
)

type HealthcheckService struct {
	downdetectService *downdetect.DowndetectService
	memoryUsedPercent func(ctx context.Context) (float64, error)
	isShuttingDown    func() bool
	logger            *slog.Logger
}

func NewHealthcheckService(downdetectService *downdetect.DowndetectService, logger *slog.Logger) *HealthcheckService {
	return &HealthcheckService{
		downdetectService: downdetectService,
		memoryUsedPercent: readMemoryUsedPercent,
		isShuttingDown:    config.IsShouldShutdown,
		logger:            logger,
	}
}

// Check reports sink reachability and host memory usage. A down sink
// degrades the service without making it unavailable, since ingestion keeps
// working locally.
func (s *HealthcheckService) Check(ctx context.Context) *HealthcheckResponseDTO {
	response := &HealthcheckResponseDTO{
		Status: HealthStatusOk,
		Sinks:  s.downdetectService.CheckSinks(ctx),
	}

	for _, status := range response.Sinks {
		if status == downdetect.SinkStatusDown {
			response.Status = HealthStatusDegraded
			break
		}
	}

	memoryUsedPercent, err := s.memoryUsedPercent(ctx)
	if err != nil {
		s.logger.Warn("Failed to read memory usage", slog.String("error", err.Error()))
	} else {
		response.MemoryUsedPercent = math.Round(memoryUsedPercent*100) / 100
	}

	if s.isShuttingDown() {
		response.Status = HealthStatusShuttingDown
	}

	return response
}

func readMemoryUsedPercent(ctx context.Context) (float64, error) {
	memory, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}

	return memory.UsedPercent, nil
}
