package logs_cleanup

import (
	"sync"

	"logstream/internal/config"
	logs_storage "logstream/internal/features/logs/storage"
	"logstream/internal/util/logger"
)

var (
	logCleanupBackgroundService     *LogCleanupBackgroundService
	logCleanupBackgroundServiceOnce sync.Once
)

func GetLogCleanupBackgroundService() *LogCleanupBackgroundService {
	logCleanupBackgroundServiceOnce.Do(func() {
		env := config.GetEnv()

		logCleanupBackgroundService = NewLogCleanupBackgroundService(
			logs_storage.GetLogStorageRepository(),
			env.StoreRetention,
			env.StoreMaxRecords,
			env.StoreCleanupTick,
			logger.GetLogger(),
		)
	})

	return logCleanupBackgroundService
}
