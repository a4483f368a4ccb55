package logs_querying

import (
	"sync"

	"logstream/internal/config"
	logs_core "logstream/internal/features/logs/core"
	logs_storage "logstream/internal/features/logs/storage"
	"logstream/internal/util/logger"
)

var (
	logQueryService     *LogQueryService
	logQueryServiceOnce sync.Once

	logQueryController     *LogQueryController
	logQueryControllerOnce sync.Once
)

func GetLogQueryService() *LogQueryService {
	logQueryServiceOnce.Do(func() {
		log := logger.GetLogger()
		limiter := NewConcurrentQueryLimiter(maxConcurrentStoreQueries)

		chain := NewFallbackChain(
			config.GetEnv().SinkTimeout,
			log,
			limiter.Wrap(logs_storage.GetLogStorageRepository()),
			logs_core.GetLogBuffer(),
		)

		logQueryService = NewLogQueryService(chain, log)
	})

	return logQueryService
}

func GetLogQueryController() *LogQueryController {
	logQueryControllerOnce.Do(func() {
		logQueryController = NewLogQueryController(GetLogQueryService())
	})

	return logQueryController
}
