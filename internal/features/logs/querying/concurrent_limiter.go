package logs_querying

import (
	"context"
	"errors"

	logs_core "logstream/internal/features/logs/core"

	"golang.org/x/sync/semaphore"
)

const maxConcurrentStoreQueries = 8

var ErrTooManyConcurrentQueries = errors.New("maximum concurrent store queries exceeded")

// ConcurrentQueryLimiter caps in-flight reads against a reader. Reads over
// the cap fail fast so the fallback chain can serve them elsewhere.
type ConcurrentQueryLimiter struct {
	slots *semaphore.Weighted
}

func NewConcurrentQueryLimiter(maxQueries int64) *ConcurrentQueryLimiter {
	if maxQueries <= 0 {
		maxQueries = maxConcurrentStoreQueries
	}

	return &ConcurrentQueryLimiter{slots: semaphore.NewWeighted(maxQueries)}
}

func (l *ConcurrentQueryLimiter) AcquireQuerySlot() error {
	if !l.slots.TryAcquire(1) {
		return ErrTooManyConcurrentQueries
	}

	return nil
}

func (l *ConcurrentQueryLimiter) ReleaseQuerySlot() {
	l.slots.Release(1)
}

// Wrap returns store wrapped so every read holds a query slot.
func (l *ConcurrentQueryLimiter) Wrap(store logs_core.LogStore) logs_core.LogReader {
	return &limitedReader{store: store, limiter: l}
}

type limitedReader struct {
	store   logs_core.LogStore
	limiter *ConcurrentQueryLimiter
}

func (r *limitedReader) Name() string {
	return r.store.Name()
}

func (r *limitedReader) IsEnabled() bool {
	return r.store.IsEnabled()
}

func (r *limitedReader) Recent(ctx context.Context, limit int) ([]logs_core.LogRecord, error) {
	if err := r.limiter.AcquireQuerySlot(); err != nil {
		return nil, err
	}
	defer r.limiter.ReleaseQuerySlot()

	return r.store.Recent(ctx, limit)
}

func (r *limitedReader) SeverityCounts(ctx context.Context) (map[logs_core.Severity]int64, error) {
	if err := r.limiter.AcquireQuerySlot(); err != nil {
		return nil, err
	}
	defer r.limiter.ReleaseQuerySlot()

	return r.store.SeverityCounts(ctx)
}
