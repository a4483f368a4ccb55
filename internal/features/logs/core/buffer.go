package logs_core

import (
	"context"

	ring_buffer "logstream/internal/util/ringbuffer"
)

// LogBuffer is the in-memory recent-records cache shared by ingestion and
// querying. It is always available and serves as the last reader in the
// fallback chain.
type LogBuffer struct {
	ring *ring_buffer.RingBuffer[LogRecord]
}

func NewLogBuffer(capacity int) *LogBuffer {
	return &LogBuffer{ring: ring_buffer.New[LogRecord](capacity)}
}

func (b *LogBuffer) Push(record LogRecord) {
	b.ring.Push(record)
}

func (b *LogBuffer) Len() int {
	return b.ring.Len()
}

func (b *LogBuffer) Capacity() int {
	return b.ring.Capacity()
}

func (b *LogBuffer) Name() string {
	return "buffer"
}

func (b *LogBuffer) Recent(_ context.Context, limit int) ([]LogRecord, error) {
	return b.ring.List(limit), nil
}

func (b *LogBuffer) SeverityCounts(_ context.Context) (map[Severity]int64, error) {
	counts := make(map[Severity]int64)
	for _, record := range b.ring.List(0) {
		counts[record.Severity]++
	}

	return counts, nil
}
