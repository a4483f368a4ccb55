package logs_queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	logs_core "logstream/internal/features/logs/core"
	cache_utils "logstream/internal/util/cache"
)

type ValkeyPublisher struct {
	queueService *cache_utils.ValkeyQueueService
	queueKey     string
	batcher      *batcher
	logger       *slog.Logger
}

func NewValkeyPublisher(
	queueService *cache_utils.ValkeyQueueService,
	queueKey string,
	maxBatchBytes int,
	logger *slog.Logger,
) *ValkeyPublisher {
	if maxBatchBytes <= 0 {
		maxBatchBytes = DefaultMaxBatchBytes
	}

	publisher := &ValkeyPublisher{
		queueService: queueService,
		queueKey:     queueKey,
		logger:       logger,
	}

	publisher.batcher = newBatcher(maxBatchBytes, defaultFlushInterval, publisher.flush, logger)

	return publisher
}

func (p *ValkeyPublisher) IsEnabled() bool {
	return true
}

func (p *ValkeyPublisher) Publish(ctx context.Context, record logs_core.LogRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal log record: %w", err)
	}

	return p.batcher.Add(ctx, payload)
}

// Ping reads the queue backlog, which checks both the connection and that
// the queue key still holds a list.
func (p *ValkeyPublisher) Ping(ctx context.Context) error {
	length, err := p.queueService.QueueLength(ctx, p.queueKey)
	if err != nil {
		return fmt.Errorf("failed to read valkey queue %s: %w", p.queueKey, err)
	}

	p.logger.Debug("Valkey queue backlog", slog.String("queueKey", p.queueKey), slog.Int64("length", length))

	return nil
}

func (p *ValkeyPublisher) Close() error {
	p.batcher.Close()
	p.queueService.Close()
	return nil
}

func (p *ValkeyPublisher) flush(ctx context.Context, payloads [][]byte) error {
	return p.queueService.EnqueueBatch(ctx, p.queueKey, payloads)
}
