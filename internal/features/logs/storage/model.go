package logs_storage

import (
	"time"

	logs_core "logstream/internal/features/logs/core"
)

type LogRecordModel struct {
	ID        string         `gorm:"column:id;primaryKey"`
	Source    string         `gorm:"column:source;index"`
	Message   string         `gorm:"column:message"`
	Severity  string         `gorm:"column:severity;index"`
	Metadata  map[string]any `gorm:"column:metadata;type:jsonb;serializer:json"`
	Timestamp time.Time      `gorm:"column:timestamp"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (LogRecordModel) TableName() string {
	return "log_records"
}

func toModel(record logs_core.LogRecord) *LogRecordModel {
	return &LogRecordModel{
		ID:        record.ID,
		Source:    record.Source,
		Message:   record.Message,
		Severity:  string(record.Severity),
		Metadata:  record.Metadata,
		Timestamp: record.Timestamp.UTC(),
		CreatedAt: record.CreatedAt.UTC(),
	}
}

func (m *LogRecordModel) toRecord() logs_core.LogRecord {
	return logs_core.LogRecord{
		ID:        m.ID,
		Source:    m.Source,
		Message:   m.Message,
		Severity:  logs_core.Severity(m.Severity),
		Metadata:  m.Metadata,
		Timestamp: m.Timestamp.UTC(),
		CreatedAt: m.CreatedAt.UTC(),
	}
}
