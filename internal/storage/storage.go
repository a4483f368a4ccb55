package storage

import (
	"fmt"
	"sync"
	"time"

	"logstream/internal/config"
	"logstream/internal/util/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
)

// GetDb returns the shared database handle, or nil when DATABASE_DSN is not
// set. The connection is lazy: an unreachable database does not fail here.
func GetDb() *gorm.DB {
	dbOnce.Do(func() {
		dsn := config.GetEnv().DatabaseDsn
		if dsn == "" {
			return
		}

		conn, err := Open(dsn)
		if err != nil {
			logger.GetLogger().Error("Failed to configure database, persistent store disabled", "error", err)
			return
		}

		db = conn
	})

	return db
}

func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return conn, nil
}
