package logs_storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	logs_core "logstream/internal/features/logs/core"
	"logstream/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LogStorageRepository_WhenNotConfigured_ReportsDisabled(t *testing.T) {
	repository := NewLogStorageRepository(nil)
	ctx := context.Background()

	assert.False(t, repository.IsEnabled())
	assert.ErrorIs(t, repository.Save(ctx, logs_core.LogRecord{ID: "x"}), logs_core.ErrSinkDisabled)
	assert.ErrorIs(t, repository.Ping(ctx), logs_core.ErrSinkDisabled)
	assert.ErrorIs(t, repository.Migrate(ctx), logs_core.ErrSinkDisabled)

	_, err := repository.Recent(ctx, 10)
	assert.ErrorIs(t, err, logs_core.ErrSinkDisabled)

	_, err = repository.SeverityCounts(ctx)
	assert.ErrorIs(t, err, logs_core.ErrSinkDisabled)

	_, err = repository.DeleteOlderThan(ctx, time.Now())
	assert.ErrorIs(t, err, logs_core.ErrSinkDisabled)

	_, err = repository.DeleteBeyondNewest(ctx, 10)
	assert.ErrorIs(t, err, logs_core.ErrSinkDisabled)
}

func Test_LogStorageRepository_SaveThenRecent_ReturnsNewestFirst(t *testing.T) {
	repository := createTestRepository(t)
	ctx := context.Background()
	source := fmt.Sprintf("storage-test-%s", uuid.New().String()[:8])
	base := time.Now().UTC().Add(time.Hour)

	for i := range 3 {
		record := logs_core.LogRecord{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Source:    source,
			Message:   fmt.Sprintf("message %d", i),
			Severity:  logs_core.SeverityWarn,
			Metadata:  map[string]any{"traceId": fmt.Sprintf("trace-%d", i)},
			Timestamp: base.Add(time.Duration(i) * time.Second),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repository.Save(ctx, record))
	}

	records, err := repository.Recent(ctx, 3)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "message 2", records[0].Message)
	assert.Equal(t, "message 0", records[2].Message)
	assert.Equal(t, "trace-2", records[0].Metadata["traceId"])
	assert.Equal(t, logs_core.SeverityWarn, records[0].Severity)
}

func Test_LogStorageRepository_SeverityCounts_IncludesSavedRecords(t *testing.T) {
	repository := createTestRepository(t)
	ctx := context.Background()

	before, err := repository.SeverityCounts(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, repository.Save(ctx, logs_core.LogRecord{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Source:    "auth-service",
		Message:   "login failed",
		Severity:  logs_core.SeverityError,
		Timestamp: now,
		CreatedAt: now,
	}))

	after, err := repository.SeverityCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before[logs_core.SeverityError]+1, after[logs_core.SeverityError])
}

func Test_LogStorageRepository_DeleteOlderThan_RemovesOnlyExpiredRecords(t *testing.T) {
	repository := createTestRepository(t)
	ctx := context.Background()
	source := fmt.Sprintf("retention-test-%s", uuid.New().String()[:8])

	expiredAt := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	freshAt := time.Now().UTC().Add(2 * time.Hour)

	for _, createdAt := range []time.Time{expiredAt, freshAt} {
		require.NoError(t, repository.Save(ctx, logs_core.LogRecord{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Source:    source,
			Message:   "retention probe",
			Severity:  logs_core.SeverityInfo,
			Timestamp: createdAt,
			CreatedAt: createdAt,
		}))
	}

	deleted, err := repository.DeleteOlderThan(ctx, expiredAt.Add(time.Hour))

	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	records, err := repository.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, source, records[0].Source)
}

func createTestRepository(t *testing.T) *LogStorageRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := storage.Open(dsn)
	require.NoError(t, err)

	repository := NewLogStorageRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, repository.Migrate(ctx))

	return repository
}
