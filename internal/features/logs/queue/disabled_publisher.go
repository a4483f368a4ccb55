package logs_queue

import (
	"context"

	logs_core "logstream/internal/features/logs/core"
)

// DisabledPublisher is used when no broker is configured. Publishing is a
// silent no-op.
type DisabledPublisher struct{}

func (DisabledPublisher) IsEnabled() bool {
	return false
}

func (DisabledPublisher) Publish(context.Context, logs_core.LogRecord) error {
	return nil
}

func (DisabledPublisher) Ping(context.Context) error {
	return logs_core.ErrSinkDisabled
}

func (DisabledPublisher) Close() error {
	return nil
}
