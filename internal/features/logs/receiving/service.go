package logs_receiving

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	logs_core "logstream/internal/features/logs/core"
	rate_limit "logstream/internal/util/rate_limit"
	time_parser "logstream/internal/util/time"

	"github.com/google/uuid"
)

const (
	MaxLogSizeBytes    = 64 * 1024
	DefaultSinkTimeout = 3 * time.Second

	// sinkResultGrace is how long past the sink timeout Ingest keeps waiting
	// for a sink to report before counting it as failed.
	sinkResultGrace = 250 * time.Millisecond
)

var errSinkStillRunning = errors.New("sink did not report within timeout")

type LogReceivingService struct {
	buffer      *logs_core.LogBuffer
	store       logs_core.LogStore
	queue       logs_core.QueuePublisher
	dispatcher  logs_core.RecordDispatcher
	rateLimiter *rate_limit.RateLimiter
	sinkTimeout time.Duration
	logger      *slog.Logger

	acceptMutex   sync.Mutex
	lastCreatedAt time.Time
	now           func() time.Time
}

func NewLogReceivingService(
	buffer *logs_core.LogBuffer,
	store logs_core.LogStore,
	queue logs_core.QueuePublisher,
	dispatcher logs_core.RecordDispatcher,
	rateLimiter *rate_limit.RateLimiter,
	sinkTimeout time.Duration,
	logger *slog.Logger,
) *LogReceivingService {
	if sinkTimeout <= 0 {
		sinkTimeout = DefaultSinkTimeout
	}

	if rateLimiter == nil {
		rateLimiter = rate_limit.NewRateLimiter(0, 0)
	}

	return &LogReceivingService{
		buffer:      buffer,
		store:       store,
		queue:       queue,
		dispatcher:  dispatcher,
		rateLimiter: rateLimiter,
		sinkTimeout: sinkTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Ingest validates one log event and fans it out to every sink. It returns
// within the sink timeout plus a short grace even when sinks hang, and only
// fails for invalid input.
func (s *LogReceivingService) Ingest(
	ctx context.Context,
	request *IngestLogRequestDTO,
) (*IngestLogResponseDTO, error) {
	if err := s.validateRateLimit(); err != nil {
		return nil, err
	}

	candidate, err := s.validateLogRequest(request)
	if err != nil {
		return nil, err
	}

	record, err := s.acceptRecord(candidate)
	if err != nil {
		return nil, err
	}

	queueErr := s.writeDurableSinks(ctx, record)

	return &IngestLogResponseDTO{
		Status: s.resolveStatus(queueErr),
		Log:    record,
	}, nil
}

func (s *LogReceivingService) validateRateLimit() error {
	if result := s.rateLimiter.CheckRateLimit(); !result.Allowed {
		return &logs_core.ValidationError{
			Code:          logs_core.ErrorRateLimitExceeded,
			Message:       fmt.Sprintf("ingest rate limit exceeded, retry after %d seconds", result.RetryAfterSec),
			RetryAfterSec: result.RetryAfterSec,
		}
	}

	return nil
}

func (s *LogReceivingService) validateLogRequest(request *IngestLogRequestDTO) (logs_core.LogRecord, error) {
	severity := logs_core.NormalizeSeverity(request.Severity)
	if !severity.IsValid() {
		return logs_core.LogRecord{}, &logs_core.ValidationError{
			Code:    logs_core.ErrorInvalidSeverity,
			Message: fmt.Sprintf("severity must be one of debug, info, warn, error, got %q", request.Severity),
			Field:   "severity",
		}
	}

	source := strings.TrimSpace(request.Source)
	if source == "" {
		return logs_core.LogRecord{}, &logs_core.ValidationError{
			Code:    logs_core.ErrorSourceEmpty,
			Message: "source cannot be empty",
			Field:   "source",
		}
	}

	if strings.TrimSpace(request.Message) == "" {
		return logs_core.LogRecord{}, &logs_core.ValidationError{
			Code:    logs_core.ErrorMessageEmpty,
			Message: "message cannot be empty",
			Field:   "message",
		}
	}

	timestamp, err := time_parser.ParseTimestamp(request.Timestamp)
	if err != nil {
		return logs_core.LogRecord{}, &logs_core.ValidationError{
			Code:    logs_core.ErrorInvalidTimestamp,
			Message: err.Error(),
			Field:   "timestamp",
		}
	}

	candidate := logs_core.LogRecord{
		Source:   source,
		Message:  request.Message,
		Severity: severity,
		Metadata: maps.Clone(request.Metadata),
	}
	if timestamp != nil {
		candidate.Timestamp = *timestamp
	}

	encoded, err := json.Marshal(candidate)
	if err != nil {
		return logs_core.LogRecord{}, fmt.Errorf("failed to encode log record: %w", err)
	}

	if len(encoded) > MaxLogSizeBytes {
		return logs_core.LogRecord{}, &logs_core.ValidationError{
			Code:    logs_core.ErrorLogTooLarge,
			Message: fmt.Sprintf("log size %d bytes exceeds limit of %d bytes", len(encoded), MaxLogSizeBytes),
		}
	}

	return candidate, nil
}

// acceptRecord stamps identity and hands the record to the in-memory sinks.
// It holds acceptMutex so buffer and broadcast order follow creation order.
func (s *LogReceivingService) acceptRecord(candidate logs_core.LogRecord) (logs_core.LogRecord, error) {
	s.acceptMutex.Lock()
	defer s.acceptMutex.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return logs_core.LogRecord{}, fmt.Errorf("failed to generate log id: %w", err)
	}

	createdAt := s.now().UTC()
	if createdAt.Before(s.lastCreatedAt) {
		createdAt = s.lastCreatedAt
	}
	s.lastCreatedAt = createdAt

	record := candidate
	record.ID = id.String()
	record.CreatedAt = createdAt
	if record.Timestamp.IsZero() {
		record.Timestamp = createdAt
	}

	s.dispatcher.Dispatch(record)
	s.buffer.Push(record)

	return record, nil
}

// writeDurableSinks runs the store and queue writes concurrently and returns
// the queue outcome. Writes are detached from request cancellation.
func (s *LogReceivingService) writeDurableSinks(ctx context.Context, record logs_core.LogRecord) error {
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sinkTimeout)
	defer cancel()

	var storeResult, queueResult chan error

	if s.store.IsEnabled() {
		storeResult = make(chan error, 1)
		go func() {
			storeResult <- s.saveToStore(sinkCtx, record)
		}()
	}

	if s.queue.IsEnabled() {
		queueResult = make(chan error, 1)
		go func() {
			queueResult <- s.publishToQueue(sinkCtx, record)
		}()
	}

	waitTimer := time.NewTimer(s.sinkTimeout + sinkResultGrace)
	defer waitTimer.Stop()

	var queueErr error
	for storeResult != nil || queueResult != nil {
		select {
		case <-storeResult:
			storeResult = nil

		case err := <-queueResult:
			queueErr = err
			queueResult = nil

		case <-waitTimer.C:
			if storeResult != nil {
				s.logger.Warn("Store write did not finish in time", slog.String("logId", record.ID))
			}

			if queueResult != nil {
				s.logger.Error("Queue publish did not finish in time", slog.String("logId", record.ID))
				queueErr = errSinkStillRunning
			}

			return queueErr
		}
	}

	return queueErr
}

func (s *LogReceivingService) saveToStore(ctx context.Context, record logs_core.LogRecord) error {
	startTime := time.Now()

	err := s.store.Save(ctx, record)
	if err != nil {
		s.logger.Warn("Failed to save log to store",
			slog.String("logId", record.ID),
			slog.Duration("duration", time.Since(startTime)),
			slog.String("error", err.Error()))
	}

	return err
}

func (s *LogReceivingService) publishToQueue(ctx context.Context, record logs_core.LogRecord) error {
	startTime := time.Now()

	err := s.queue.Publish(ctx, record)
	switch {
	case err == nil:
	case errors.Is(err, logs_core.ErrRecordTooLarge):
		s.logger.Warn("Log exceeds queue batch capacity, not published",
			slog.String("logId", record.ID),
			slog.String("error", err.Error()))
	default:
		s.logger.Error("Failed to publish log to queue",
			slog.String("logId", record.ID),
			slog.Duration("duration", time.Since(startTime)),
			slog.String("error", err.Error()))
	}

	return err
}

// resolveStatus reports the queue outcome. The store only matters for
// telling local-only mode apart from fully unconfigured mode.
func (s *LogReceivingService) resolveStatus(queueErr error) IngestStatus {
	switch {
	case s.queue.IsEnabled() && queueErr == nil:
		return StatusIngested
	case s.queue.IsEnabled() || s.store.IsEnabled():
		return StatusIngestedLocalOnly
	default:
		return StatusReceivedLocal
	}
}
