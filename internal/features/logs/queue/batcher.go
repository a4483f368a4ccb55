package logs_queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	logs_core "logstream/internal/features/logs/core"
)

const (
	defaultFlushInterval = 100 * time.Millisecond
	defaultFlushTimeout  = 5 * time.Second
)

var errBatcherClosed = errors.New("queue batcher is closed")

type flushFunc func(ctx context.Context, payloads [][]byte) error

type pendingPayload struct {
	payload []byte
	result  chan error
}

// batcher accumulates payloads in memory and hands them to flush in
// batches no larger than maxBatchBytes. A batch is flushed when the pending
// bytes reach the limit or every flushInterval, whichever comes first. Each
// Add call waits for the outcome of the batch its payload landed in.
type batcher struct {
	maxBatchBytes int
	flushInterval time.Duration
	flushTimeout  time.Duration
	flush         flushFunc
	logger        *slog.Logger

	mutex        sync.Mutex
	pending      []pendingPayload
	pendingBytes int
	isClosed     bool

	flushSignal chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func newBatcher(maxBatchBytes int, flushInterval time.Duration, flush flushFunc, logger *slog.Logger) *batcher {
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	b := &batcher{
		maxBatchBytes: maxBatchBytes,
		flushInterval: flushInterval,
		flushTimeout:  defaultFlushTimeout,
		flush:         flush,
		logger:        logger,
		flushSignal:   make(chan struct{}, 1),
	}

	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.wg.Add(1)
	go b.flushWorker()

	return b
}

func (b *batcher) Add(ctx context.Context, payload []byte) error {
	if len(payload) > b.maxBatchBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", logs_core.ErrRecordTooLarge, len(payload), b.maxBatchBytes)
	}

	result := make(chan error, 1)

	b.mutex.Lock()
	if b.isClosed {
		b.mutex.Unlock()
		return errBatcherClosed
	}
	b.pending = append(b.pending, pendingPayload{payload: payload, result: result})
	b.pendingBytes += len(payload)
	isFull := b.pendingBytes >= b.maxBatchBytes
	b.mutex.Unlock()

	if isFull {
		select {
		case b.flushSignal <- struct{}{}:
		default:
		}
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker after flushing whatever is still pending.
func (b *batcher) Close() {
	b.mutex.Lock()
	if b.isClosed {
		b.mutex.Unlock()
		return
	}
	b.isClosed = true
	b.mutex.Unlock()

	b.cancel()
	b.wg.Wait()
}

func (b *batcher) flushWorker() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			b.flushPending()
			return

		case <-ticker.C:
			b.flushPending()

		case <-b.flushSignal:
			b.flushPending()
		}
	}
}

func (b *batcher) flushPending() {
	b.mutex.Lock()
	items := b.pending
	b.pending = nil
	b.pendingBytes = 0
	b.mutex.Unlock()

	if len(items) == 0 {
		return
	}

	for _, batch := range splitBatches(items, b.maxBatchBytes) {
		payloads := make([][]byte, 0, len(batch))
		for _, item := range batch {
			payloads = append(payloads, item.payload)
		}

		ctx, cancel := context.WithTimeout(context.Background(), b.flushTimeout)
		err := b.flush(ctx, payloads)
		cancel()

		if err != nil {
			b.logger.Error("Failed to flush queue batch",
				slog.Int("batchSize", len(batch)),
				slog.String("error", err.Error()))
		}

		for _, item := range batch {
			item.result <- err
		}
	}
}

func splitBatches(items []pendingPayload, maxBatchBytes int) [][]pendingPayload {
	var batches [][]pendingPayload
	var current []pendingPayload
	currentBytes := 0

	for _, item := range items {
		if len(current) > 0 && currentBytes+len(item.payload) > maxBatchBytes {
			batches = append(batches, current)
			current = nil
			currentBytes = 0
		}

		current = append(current, item)
		currentBytes += len(item.payload)
	}

	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}
