package logs_receiving

import (
	"sync"

	"logstream/internal/config"
	logs_core "logstream/internal/features/logs/core"
	logs_queue "logstream/internal/features/logs/queue"
	logs_storage "logstream/internal/features/logs/storage"
	"logstream/internal/features/realtime"
	"logstream/internal/util/logger"
	rate_limit "logstream/internal/util/rate_limit"
)

var (
	logReceivingService     *LogReceivingService
	logReceivingServiceOnce sync.Once

	receivingController     *ReceivingController
	receivingControllerOnce sync.Once
)

func GetLogReceivingService() *LogReceivingService {
	logReceivingServiceOnce.Do(func() {
		env := config.GetEnv()

		logReceivingService = NewLogReceivingService(
			logs_core.GetLogBuffer(),
			logs_storage.GetLogStorageRepository(),
			logs_queue.GetQueuePublisher(),
			realtime.GetBroadcaster(),
			rate_limit.NewRateLimiter(env.IngestRateLimitRPS, 0),
			env.SinkTimeout,
			logger.GetLogger(),
		)
	})

	return logReceivingService
}

func GetReceivingController() *ReceivingController {
	receivingControllerOnce.Do(func() {
		receivingController = NewReceivingController(GetLogReceivingService())
	})

	return receivingController
}
