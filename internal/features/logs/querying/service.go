package logs_querying

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	logs_core "logstream/internal/features/logs/core"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 1000

	severityBreakdownKey = "severity-breakdown"
)

type LogQueryService struct {
	chain          *FallbackChain
	breakdownGroup singleflight.Group
	logger         *slog.Logger
}

func NewLogQueryService(chain *FallbackChain, logger *slog.Logger) *LogQueryService {
	return &LogQueryService{
		chain:  chain,
		logger: logger,
	}
}

// Recent returns up to limit records, newest first, along with the name of
// the reader that served them.
func (s *LogQueryService) Recent(ctx context.Context, limit int) ([]logs_core.LogRecord, string, error) {
	records, source, err := s.chain.Recent(ctx, NormalizeRecentLimit(limit))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read recent logs: %w", err)
	}

	if records == nil {
		records = []logs_core.LogRecord{}
	}

	s.logger.Debug("Served recent logs", slog.String("reader", source), slog.Int("count", len(records)))

	return records, source, nil
}

// SeverityBreakdown returns counts for every observed severity in severity
// order. Concurrent callers share one read.
func (s *LogQueryService) SeverityBreakdown(ctx context.Context) ([]SeverityCountDTO, string, error) {
	type breakdownResult struct {
		counts []SeverityCountDTO
		source string
	}

	resultChan := s.breakdownGroup.DoChan(severityBreakdownKey, func() (any, error) {
		// The shared read must not die with whichever caller started it.
		// Each reader attempt is still bounded by the chain's read timeout.
		counts, source, err := s.chain.SeverityCounts(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		return breakdownResult{counts: toSeverityCounts(counts), source: source}, nil
	})

	select {
	case result := <-resultChan:
		if result.Err != nil {
			return nil, "", fmt.Errorf("failed to read severity breakdown: %w", result.Err)
		}

		breakdown := result.Val.(breakdownResult)
		return slices.Clone(breakdown.counts), breakdown.source, nil

	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

func NormalizeRecentLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}

func toSeverityCounts(counts map[logs_core.Severity]int64) []SeverityCountDTO {
	breakdown := make([]SeverityCountDTO, 0, len(logs_core.Severities))
	for _, severity := range logs_core.Severities {
		if count := counts[severity]; count > 0 {
			breakdown = append(breakdown, SeverityCountDTO{Severity: severity, Count: count})
		}
	}

	return breakdown
}
