package logs_querying

import (
	"context"
	"fmt"
	"testing"
	"time"

	logs_core "logstream/internal/features/logs/core"
	logs_testing "logstream/internal/features/logs/testing"
	"logstream/internal/util/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecords(count int) []logs_core.LogRecord {
	severities := logs_core.Severities
	baseTime := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	records := make([]logs_core.LogRecord, count)
	for i := range records {
		records[i] = logs_core.LogRecord{
			ID:        fmt.Sprintf("log-%03d", i),
			Source:    "billing",
			Message:   fmt.Sprintf("message %d", i),
			Severity:  severities[i%len(severities)],
			Metadata:  map[string]any{"attempt": float64(i)},
			Timestamp: baseTime.Add(time.Duration(i) * time.Second),
			CreatedAt: baseTime.Add(time.Duration(i) * time.Second),
		}
	}

	return records
}

// seedReaders puts the same records into a store and a buffer.
func seedReaders(t *testing.T, records []logs_core.LogRecord) (*logs_testing.FakeStore, *logs_core.LogBuffer) {
	t.Helper()

	store := logs_testing.NewFakeStore()
	buffer := logs_core.NewLogBuffer(200)

	for _, record := range records {
		require.NoError(t, store.Save(context.Background(), record))
		buffer.Push(record)
	}

	return store, buffer
}

func Test_FallbackChain_WithHealthyStore_ServesFromStore(t *testing.T) {
	store, buffer := seedReaders(t, createTestRecords(10))
	chain := NewFallbackChain(time.Second, logger.GetLogger(), store, buffer)

	records, reader, err := chain.Recent(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, store.Name(), reader)
	require.Len(t, records, 5)
	assert.Equal(t, "log-009", records[0].ID)
}

func Test_FallbackChain_WhenStoreFails_ServesSameShapeFromBuffer(t *testing.T) {
	records := createTestRecords(10)
	store, buffer := seedReaders(t, records)
	chain := NewFallbackChain(time.Second, logger.GetLogger(), store, buffer)

	fromStore, _, err := chain.Recent(context.Background(), 5)
	require.NoError(t, err)
	storeCounts, _, err := chain.SeverityCounts(context.Background())
	require.NoError(t, err)

	store.Err = logs_testing.ErrSinkUnavailable

	fromBuffer, reader, err := chain.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, buffer.Name(), reader)
	assert.Equal(t, fromStore, fromBuffer)

	bufferCounts, reader, err := chain.SeverityCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, buffer.Name(), reader)
	assert.Equal(t, storeCounts, bufferCounts)
}

func Test_FallbackChain_WhenStoreDisabled_SkipsStore(t *testing.T) {
	store, buffer := seedReaders(t, createTestRecords(3))
	store.Enabled = false
	callsBefore := store.Calls()
	chain := NewFallbackChain(time.Second, logger.GetLogger(), store, buffer)

	_, reader, err := chain.Recent(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, buffer.Name(), reader)
	assert.Equal(t, callsBefore, store.Calls())
}

func Test_FallbackChain_WhenStoreIsSlow_FallsBackAfterReadTimeout(t *testing.T) {
	store, buffer := seedReaders(t, createTestRecords(3))
	store.Delay = 5 * time.Second
	chain := NewFallbackChain(50*time.Millisecond, logger.GetLogger(), store, buffer)

	startTime := time.Now()
	records, reader, err := chain.Recent(context.Background(), 10)

	require.NoError(t, err)
	assert.Less(t, time.Since(startTime), time.Second)
	assert.Equal(t, buffer.Name(), reader)
	assert.Len(t, records, 3)
}

func Test_FallbackChain_WhenEveryReaderFails_ReturnsLastError(t *testing.T) {
	store := logs_testing.NewFakeStore()
	store.Err = logs_testing.ErrSinkUnavailable
	chain := NewFallbackChain(time.Second, logger.GetLogger(), store)

	_, _, err := chain.Recent(context.Background(), 10)

	assert.ErrorIs(t, err, logs_testing.ErrSinkUnavailable)
}

func Test_FallbackChain_WithoutReaders_ReturnsNoReaderAvailable(t *testing.T) {
	chain := NewFallbackChain(time.Second, logger.GetLogger())

	_, _, err := chain.SeverityCounts(context.Background())

	assert.ErrorIs(t, err, ErrNoReaderAvailable)
}

func Test_ConcurrentQueryLimiter_WhenSlotsExhausted_FallsBackToBuffer(t *testing.T) {
	store, buffer := seedReaders(t, createTestRecords(3))
	limiter := NewConcurrentQueryLimiter(1)
	chain := NewFallbackChain(time.Second, logger.GetLogger(), limiter.Wrap(store), buffer)

	require.NoError(t, limiter.AcquireQuerySlot())

	_, reader, err := chain.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, buffer.Name(), reader)

	limiter.ReleaseQuerySlot()

	_, reader, err = chain.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, store.Name(), reader)
}
