package logs_core

import (
	"sync"

	"logstream/internal/config"
)

var (
	logBuffer     *LogBuffer
	logBufferOnce sync.Once
)

// GetLogBuffer returns the process-wide buffer shared by ingestion and
// querying.
func GetLogBuffer() *LogBuffer {
	logBufferOnce.Do(func() {
		logBuffer = NewLogBuffer(config.GetEnv().BufferCapacity)
	})

	return logBuffer
}
