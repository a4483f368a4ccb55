package logs_querying

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	logs_core "logstream/internal/features/logs/core"
)

var ErrNoReaderAvailable = errors.New("no log reader available")

// FallbackChain asks readers in priority order and returns the first
// successful answer. Readers reporting IsEnabled() == false are skipped.
type FallbackChain struct {
	readers     []logs_core.LogReader
	readTimeout time.Duration
	logger      *slog.Logger
}

func NewFallbackChain(readTimeout time.Duration, logger *slog.Logger, readers ...logs_core.LogReader) *FallbackChain {
	return &FallbackChain{
		readers:     readers,
		readTimeout: readTimeout,
		logger:      logger,
	}
}

// Recent returns the newest records and the name of the reader that served them.
func (c *FallbackChain) Recent(ctx context.Context, limit int) ([]logs_core.LogRecord, string, error) {
	return readFirst(ctx, c, "recent", func(ctx context.Context, reader logs_core.LogReader) ([]logs_core.LogRecord, error) {
		return reader.Recent(ctx, limit)
	})
}

// SeverityCounts returns per-severity totals and the name of the reader that
// served them.
func (c *FallbackChain) SeverityCounts(ctx context.Context) (map[logs_core.Severity]int64, string, error) {
	return readFirst(ctx, c, "severity-counts", func(ctx context.Context, reader logs_core.LogReader) (map[logs_core.Severity]int64, error) {
		return reader.SeverityCounts(ctx)
	})
}

func readFirst[T any](
	ctx context.Context,
	chain *FallbackChain,
	operation string,
	read func(ctx context.Context, reader logs_core.LogReader) (T, error),
) (T, string, error) {
	var zero T
	lastErr := ErrNoReaderAvailable

	for _, reader := range chain.readers {
		if enabled, ok := reader.(interface{ IsEnabled() bool }); ok && !enabled.IsEnabled() {
			continue
		}

		result, err := readWithTimeout(ctx, chain.readTimeout, reader, read)
		if err == nil {
			return result, reader.Name(), nil
		}

		if ctx.Err() != nil {
			return zero, "", ctx.Err()
		}

		chain.logger.Warn("Log reader failed, falling back",
			slog.String("reader", reader.Name()),
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		lastErr = fmt.Errorf("%s: %w", reader.Name(), err)
	}

	return zero, "", lastErr
}

func readWithTimeout[T any](
	ctx context.Context,
	readTimeout time.Duration,
	reader logs_core.LogReader,
	read func(ctx context.Context, reader logs_core.LogReader) (T, error),
) (T, error) {
	if readTimeout <= 0 {
		return read(ctx, reader)
	}

	readCtx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	return read(readCtx, reader)
}
