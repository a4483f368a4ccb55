package realtime

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	logs_core "logstream/internal/features/logs/core"
	"logstream/internal/util/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receivedBroadcast struct {
	Path          string
	Authorization string
	Target        string
	Record        logs_core.LogRecord
}

type fakeHub struct {
	mu         sync.Mutex
	broadcasts []receivedBroadcast
	statusCode int
	delay      time.Duration
}

func (h *fakeHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}

	var message struct {
		Target    string                `json:"target"`
		Arguments []logs_core.LogRecord `json:"arguments"`
	}
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &message)

	received := receivedBroadcast{
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Target:        message.Target,
	}
	if len(message.Arguments) == 1 {
		received.Record = message.Arguments[0]
	}

	h.mu.Lock()
	h.broadcasts = append(h.broadcasts, received)
	h.mu.Unlock()

	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
		_, _ = w.Write([]byte("hub rejected message"))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *fakeHub) received() []receivedBroadcast {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]receivedBroadcast(nil), h.broadcasts...)
}

func newTestBroadcaster(t *testing.T, hub *fakeHub, timeout time.Duration, queueSize int) (*Broadcaster, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	broadcaster := NewBroadcaster(
		&Settings{Endpoint: server.URL, AccessKey: testAccessKey},
		server.Client(),
		timeout,
		queueSize,
		logger.GetLogger(),
	)

	return broadcaster, server
}

func testRecord(id string) logs_core.LogRecord {
	return logs_core.LogRecord{
		ID:        id,
		Source:    "checkout",
		Message:   "payment accepted",
		Severity:  logs_core.SeverityInfo,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC),
	}
}

func Test_Broadcast_PostsNewLogEventWithScopedToken(t *testing.T) {
	hub := &fakeHub{}
	broadcaster, server := newTestBroadcaster(t, hub, time.Second, 10)

	err := broadcaster.Broadcast(context.Background(), testRecord("log-1"))
	require.NoError(t, err)

	received := hub.received()
	require.Len(t, received, 1)
	assert.Equal(t, "/api/v1/hubs/logstream", received[0].Path)
	assert.Equal(t, EventNewLog, received[0].Target)
	assert.Equal(t, "log-1", received[0].Record.ID)
	assert.Equal(t, "payment accepted", received[0].Record.Message)

	require.True(t, strings.HasPrefix(received[0].Authorization, "Bearer "))
	claims := parseTestToken(t, strings.TrimPrefix(received[0].Authorization, "Bearer "))
	assert.True(t, claims.VerifyAudience(server.URL+"/api/v1/hubs/logstream", true))
}

func Test_Broadcast_WhenHubRejects_ReturnsError(t *testing.T) {
	hub := &fakeHub{statusCode: http.StatusUnauthorized}
	broadcaster, _ := newTestBroadcaster(t, hub, time.Second, 10)

	err := broadcaster.Broadcast(context.Background(), testRecord("log-1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "hub rejected message")
}

func Test_Broadcast_WhenHubIsSlow_RespectsContextDeadline(t *testing.T) {
	hub := &fakeHub{delay: 500 * time.Millisecond}
	broadcaster, _ := newTestBroadcaster(t, hub, time.Second, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	startTime := time.Now()
	err := broadcaster.Broadcast(ctx, testRecord("log-1"))

	assert.Error(t, err)
	assert.Less(t, time.Since(startTime), 400*time.Millisecond)
}

func Test_Dispatch_WithRunningWorker_DeliversRecordsInOrder(t *testing.T) {
	hub := &fakeHub{}
	broadcaster, _ := newTestBroadcaster(t, hub, time.Second, 100)
	broadcaster.StartWorkers()

	ids := []string{"log-1", "log-2", "log-3", "log-4", "log-5"}
	for _, id := range ids {
		broadcaster.Dispatch(testRecord(id))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, broadcaster.Stop(ctx))

	received := hub.received()
	require.Len(t, received, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, received[i].Record.ID)
	}
}

func Test_Dispatch_WhenSendQueueIsFull_DropsWithoutBlocking(t *testing.T) {
	hub := &fakeHub{}
	broadcaster, _ := newTestBroadcaster(t, hub, time.Second, 1)

	done := make(chan struct{})
	go func() {
		broadcaster.Dispatch(testRecord("log-1"))
		broadcaster.Dispatch(testRecord("log-2"))
		broadcaster.Dispatch(testRecord("log-3"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full send queue")
	}

	assert.Len(t, broadcaster.sendQueue, 1)
}

func Test_Broadcaster_WhenNotConfigured_IsNoOp(t *testing.T) {
	broadcaster := NewBroadcaster(nil, nil, 0, 0, logger.GetLogger())
	broadcaster.StartWorkers()

	assert.False(t, broadcaster.IsEnabled())
	assert.NoError(t, broadcaster.Broadcast(context.Background(), testRecord("log-1")))

	broadcaster.Dispatch(testRecord("log-1"))
	assert.Empty(t, broadcaster.sendQueue)

	assert.NoError(t, broadcaster.Stop(context.Background()))
	assert.ErrorIs(t, broadcaster.Ping(context.Background()), ErrRealtimeNotConfigured)
}

func Test_Stop_WhenContextExpires_ReturnsContextError(t *testing.T) {
	hub := &fakeHub{delay: 300 * time.Millisecond}
	broadcaster, _ := newTestBroadcaster(t, hub, time.Second, 10)
	broadcaster.StartWorkers()

	broadcaster.Dispatch(testRecord("log-1"))
	broadcaster.Dispatch(testRecord("log-2"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, broadcaster.Stop(ctx), context.DeadlineExceeded)
}
