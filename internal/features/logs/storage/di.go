package logs_storage

import (
	"sync"

	"logstream/internal/storage"
)

var (
	logStorageRepository     *LogStorageRepository
	logStorageRepositoryOnce sync.Once
)

func GetLogStorageRepository() *LogStorageRepository {
	logStorageRepositoryOnce.Do(func() {
		logStorageRepository = NewLogStorageRepository(storage.GetDb())
	})

	return logStorageRepository
}
