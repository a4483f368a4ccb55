package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	logs_core "logstream/internal/features/logs/core"
)

const (
	DefaultBroadcastTimeout = 3 * time.Second
	DefaultSendQueueSize    = 1024

	maxErrorBodyBytes = 512
)

// Broadcaster pushes new records to every connected realtime client. Sends go
// through a single worker so clients observe records in dispatch order.
type Broadcaster struct {
	settings   *Settings
	hubName    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time

	sendQueue chan logs_core.LogRecord

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewBroadcaster returns a broadcaster for settings. A nil settings value
// yields a broadcaster whose operations are silent no-ops.
func NewBroadcaster(
	settings *Settings,
	httpClient *http.Client,
	timeout time.Duration,
	sendQueueSize int,
	logger *slog.Logger,
) *Broadcaster {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if timeout <= 0 {
		timeout = DefaultBroadcastTimeout
	}

	if sendQueueSize <= 0 {
		sendQueueSize = DefaultSendQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Broadcaster{
		settings:   settings,
		hubName:    HubName,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
		sendQueue:  make(chan logs_core.LogRecord, sendQueueSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *Broadcaster) IsEnabled() bool {
	return b.settings != nil
}

// Broadcast sends one record to the hub and waits for the backend to accept it.
func (b *Broadcaster) Broadcast(ctx context.Context, record logs_core.LogRecord) error {
	if b.settings == nil {
		return nil
	}

	broadcastURL := b.settings.BroadcastURL(b.hubName)

	token, err := issueAccessToken(b.settings.AccessKey, broadcastURL, "", b.now().UTC(), DefaultTokenTTL)
	if err != nil {
		return err
	}

	body, err := json.Marshal(broadcastMessageDTO{
		Target:    EventNewLog,
		Arguments: []any{record},
	})
	if err != nil {
		return fmt.Errorf("failed to encode broadcast message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, broadcastURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build broadcast request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send broadcast: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		details, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("broadcast rejected with status %d: %s", resp.StatusCode, bytes.TrimSpace(details))
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Dispatch queues a record for broadcast and returns immediately. When the
// send queue is full the record is dropped from the live feed only.
func (b *Broadcaster) Dispatch(record logs_core.LogRecord) {
	if b.settings == nil {
		return
	}

	select {
	case b.sendQueue <- record:
	default:
		b.logger.Warn("Realtime send queue is full, dropping record from live feed",
			slog.String("logId", record.ID),
			slog.Int("queueSize", cap(b.sendQueue)))
	}
}

func (b *Broadcaster) StartWorkers() {
	if b.settings == nil {
		return
	}

	b.startOnce.Do(func() {
		b.wg.Add(1)
		go b.sendWorker()
	})
}

// Stop ends the worker after it sends what is already queued. It returns
// ctx.Err() when ctx expires first.
func (b *Broadcaster) Stop(ctx context.Context) error {
	b.stopOnce.Do(b.cancel)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Broadcaster) sendWorker() {
	defer b.wg.Done()

	b.logger.Info("Realtime send worker started", slog.String("hub", b.hubName))

	for {
		select {
		case record := <-b.sendQueue:
			b.send(record)

		case <-b.ctx.Done():
			b.drainSendQueue()
			b.logger.Info("Realtime send worker shutting down")
			return
		}
	}
}

func (b *Broadcaster) drainSendQueue() {
	for {
		select {
		case record := <-b.sendQueue:
			b.send(record)
		default:
			return
		}
	}
}

func (b *Broadcaster) send(record logs_core.LogRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	startTime := time.Now()
	if err := b.Broadcast(ctx, record); err != nil {
		b.logger.Warn("Failed to broadcast record",
			slog.String("logId", record.ID),
			slog.Duration("duration", time.Since(startTime)),
			slog.String("error", err.Error()))
	}
}

// Ping reports whether the realtime backend can be reached.
func (b *Broadcaster) Ping(ctx context.Context) error {
	if b.settings == nil {
		return ErrRealtimeNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, b.settings.Endpoint+"/api/health", nil)
	if err != nil {
		return err
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("realtime backend is unreachable: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("realtime backend is unhealthy: status %d", resp.StatusCode)
	}

	return nil
}
