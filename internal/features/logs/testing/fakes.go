package logs_testing

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	logs_core "logstream/internal/features/logs/core"
)

var ErrSinkUnavailable = errors.New("sink unavailable")

// FakeStore is an in-memory LogStore. Delay makes every call block until the
// delay passes or ctx ends. Err makes every call fail.
type FakeStore struct {
	Enabled bool
	Delay   time.Duration
	Err     error

	mu      sync.Mutex
	records []logs_core.LogRecord
	calls   int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Enabled: true}
}

func (s *FakeStore) Name() string {
	return "fake-store"
}

func (s *FakeStore) IsEnabled() bool {
	return s.Enabled
}

func (s *FakeStore) Save(ctx context.Context, record logs_core.LogRecord) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	return nil
}

func (s *FakeStore) Recent(ctx context.Context, limit int) ([]logs_core.LogRecord, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recent := slices.Clone(s.records)
	slices.Reverse(recent)
	if limit > 0 && limit < len(recent) {
		recent = recent[:limit]
	}

	return recent, nil
}

func (s *FakeStore) SeverityCounts(ctx context.Context) (map[logs_core.Severity]int64, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[logs_core.Severity]int64)
	for _, record := range s.records {
		counts[record.Severity]++
	}

	return counts, nil
}

func (s *FakeStore) Ping(ctx context.Context) error {
	return s.wait(ctx)
}

func (s *FakeStore) Records() []logs_core.LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

func (s *FakeStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func (s *FakeStore) wait(ctx context.Context) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if err := sleepWithContext(ctx, s.Delay); err != nil {
		return err
	}

	return s.Err
}

// FakeQueue is an in-memory QueuePublisher.
type FakeQueue struct {
	Enabled bool
	Delay   time.Duration
	Err     error

	mu        sync.Mutex
	published []logs_core.LogRecord
	calls     int
}

func NewFakeQueue() *FakeQueue {
	return &FakeQueue{Enabled: true}
}

func (q *FakeQueue) IsEnabled() bool {
	return q.Enabled
}

func (q *FakeQueue) Publish(ctx context.Context, record logs_core.LogRecord) error {
	q.mu.Lock()
	q.calls++
	q.mu.Unlock()

	if err := sleepWithContext(ctx, q.Delay); err != nil {
		return err
	}

	if q.Err != nil {
		return q.Err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.published = append(q.published, record)
	return nil
}

func (q *FakeQueue) Ping(ctx context.Context) error {
	if err := sleepWithContext(ctx, q.Delay); err != nil {
		return err
	}

	return q.Err
}

func (q *FakeQueue) Close() error {
	return nil
}

func (q *FakeQueue) Published() []logs_core.LogRecord {
	q.mu.Lock()
	defer q.mu.Unlock()

	return slices.Clone(q.published)
}

func (q *FakeQueue) Calls() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.calls
}

// FakeDispatcher records every dispatched record in order.
type FakeDispatcher struct {
	mu         sync.Mutex
	dispatched []logs_core.LogRecord
}

func (d *FakeDispatcher) Dispatch(record logs_core.LogRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dispatched = append(d.dispatched, record)
}

func (d *FakeDispatcher) Dispatched() []logs_core.LogRecord {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.dispatched)
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
