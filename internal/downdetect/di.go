package downdetect

import (
	"sync"

	logs_queue "logstream/internal/features/logs/queue"
	logs_storage "logstream/internal/features/logs/storage"
	"logstream/internal/features/realtime"
	"logstream/internal/util/logger"
)

var (
	downdetectService     *DowndetectService
	downdetectServiceOnce sync.Once
)

func GetDowndetectService() *DowndetectService {
	downdetectServiceOnce.Do(func() {
		downdetectService = NewDowndetectService(
			map[string]SinkPinger{
				"store":    logs_storage.GetLogStorageRepository(),
				"queue":    logs_queue.GetQueuePublisher(),
				"realtime": realtime.GetBroadcaster(),
			},
			DefaultPingTimeout,
			logger.GetLogger(),
		)
	})

	return downdetectService
}
