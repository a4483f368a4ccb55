package downdetect

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultPingTimeout = 2 * time.Second

type SinkStatus string

const (
	SinkStatusUp       SinkStatus = "up"
	SinkStatusDown     SinkStatus = "down"
	SinkStatusDisabled SinkStatus = "disabled"
)

// SinkPinger is any dependency that can report reachability.
type SinkPinger interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
}

type DowndetectService struct {
	sinks       map[string]SinkPinger
	pingTimeout time.Duration
	logger      *slog.Logger
}

func NewDowndetectService(
	sinks map[string]SinkPinger,
	pingTimeout time.Duration,
	logger *slog.Logger,
) *DowndetectService {
	if pingTimeout <= 0 {
		pingTimeout = DefaultPingTimeout
	}

	return &DowndetectService{
		sinks:       sinks,
		pingTimeout: pingTimeout,
		logger:      logger,
	}
}

// CheckSinks pings every enabled sink concurrently. A sink that fails or
// does not answer within the ping timeout is reported down.
func (s *DowndetectService) CheckSinks(ctx context.Context) map[string]SinkStatus {
	statuses := make(map[string]SinkStatus, len(s.sinks))
	var mu sync.Mutex

	enabled := make(map[string]SinkPinger, len(s.sinks))
	for name, sink := range s.sinks {
		if !sink.IsEnabled() {
			statuses[name] = SinkStatusDisabled
			continue
		}
		enabled[name] = sink
	}

	// statuses is shared with the ping goroutines from here on
	var group errgroup.Group
	for name, sink := range enabled {
		group.Go(func() error {
			status := s.pingSink(ctx, name, sink)

			mu.Lock()
			statuses[name] = status
			mu.Unlock()

			return nil
		})
	}

	_ = group.Wait()

	return statuses
}

func (s *DowndetectService) pingSink(ctx context.Context, name string, sink SinkPinger) SinkStatus {
	pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()

	if err := sink.Ping(pingCtx); err != nil {
		s.logger.Warn("Sink is unavailable", slog.String("sink", name), slog.String("error", err.Error()))
		return SinkStatusDown
	}

	return SinkStatusUp
}
