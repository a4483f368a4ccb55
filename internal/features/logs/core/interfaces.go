package logs_core

import "context"

// LogReader serves recent-records and severity reads. Implementations are
// chained by the query service in priority order.
type LogReader interface {
	Name() string
	Recent(ctx context.Context, limit int) ([]LogRecord, error)
	SeverityCounts(ctx context.Context) (map[Severity]int64, error)
}

// LogStore is the persistent store. Every call may fail with a
// connectivity error and callers treat that as a soft failure.
type LogStore interface {
	LogReader
	IsEnabled() bool
	Save(ctx context.Context, record LogRecord) error
	Ping(ctx context.Context) error
}

// QueuePublisher forwards records to a durable broker for downstream
// consumers. A disabled publisher accepts every record silently.
type QueuePublisher interface {
	IsEnabled() bool
	Publish(ctx context.Context, record LogRecord) error
	Ping(ctx context.Context) error
	Close() error
}

// RecordDispatcher hands records to the realtime fan-out without waiting
// for delivery.
type RecordDispatcher interface {
	Dispatch(record LogRecord)
}
