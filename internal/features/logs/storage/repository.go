package logs_storage

import (
	"context"
	"fmt"
	"time"

	logs_core "logstream/internal/features/logs/core"

	"gorm.io/gorm"
)

type severityCountRow struct {
	Severity string
	Count    int64
}

// LogStorageRepository is the relational store for log records. A nil db
// means the store is not configured; every call then reports
// logs_core.ErrSinkDisabled.
type LogStorageRepository struct {
	db *gorm.DB
}

func NewLogStorageRepository(db *gorm.DB) *LogStorageRepository {
	return &LogStorageRepository{db: db}
}

func (r *LogStorageRepository) Name() string {
	return "postgres"
}

func (r *LogStorageRepository) IsEnabled() bool {
	return r.db != nil
}

func (r *LogStorageRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return logs_core.ErrSinkDisabled
	}

	if err := r.db.WithContext(ctx).AutoMigrate(&LogRecordModel{}); err != nil {
		return fmt.Errorf("failed to migrate log_records: %w", err)
	}

	return nil
}

func (r *LogStorageRepository) Save(ctx context.Context, record logs_core.LogRecord) error {
	if r.db == nil {
		return logs_core.ErrSinkDisabled
	}

	if err := r.db.WithContext(ctx).Create(toModel(record)).Error; err != nil {
		return fmt.Errorf("failed to save log record: %w", err)
	}

	return nil
}

func (r *LogStorageRepository) Recent(ctx context.Context, limit int) ([]logs_core.LogRecord, error) {
	if r.db == nil {
		return nil, logs_core.ErrSinkDisabled
	}

	var models []LogRecordModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent log records: %w", err)
	}

	records := make([]logs_core.LogRecord, 0, len(models))
	for i := range models {
		records = append(records, models[i].toRecord())
	}

	return records, nil
}

func (r *LogStorageRepository) SeverityCounts(ctx context.Context) (map[logs_core.Severity]int64, error) {
	if r.db == nil {
		return nil, logs_core.ErrSinkDisabled
	}

	var rows []severityCountRow
	err := r.db.WithContext(ctx).
		Model(&LogRecordModel{}).
		Select("severity, COUNT(*) AS count").
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count log records by severity: %w", err)
	}

	counts := make(map[logs_core.Severity]int64, len(rows))
	for _, row := range rows {
		counts[logs_core.Severity(row.Severity)] = row.Count
	}

	return counts, nil
}

// DeleteOlderThan removes records created before cutoff.
func (r *LogStorageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.db == nil {
		return 0, logs_core.ErrSinkDisabled
	}

	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff.UTC()).
		Delete(&LogRecordModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete log records older than %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}

	return result.RowsAffected, nil
}

// DeleteBeyondNewest keeps the newest keep records and removes the rest.
func (r *LogStorageRepository) DeleteBeyondNewest(ctx context.Context, keep int64) (int64, error) {
	if r.db == nil {
		return 0, logs_core.ErrSinkDisabled
	}

	db := r.db.WithContext(ctx)
	overflow := db.Model(&LogRecordModel{}).
		Select("id").
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(keep))

	result := db.Where("id IN (?)", overflow).Delete(&LogRecordModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to trim log records to %d: %w", keep, result.Error)
	}

	return result.RowsAffected, nil
}

func (r *LogStorageRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return logs_core.ErrSinkDisabled
	}

	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return sqlDB.PingContext(ctx)
}
