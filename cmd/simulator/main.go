package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const maxInFlightRequests = 16

type simulatorOptions struct {
	endpoint   string
	rate       float64
	duration   time.Duration
	burstEvery time.Duration
	burstSize  int
	traceEvery time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var options simulatorOptions

	flagSet := pflag.NewFlagSet("simulator", pflag.ContinueOnError)
	flagSet.StringVar(&options.endpoint, "endpoint", "http://localhost:4005/api/v1/logs/ingest", "ingest endpoint URL")
	flagSet.Float64Var(&options.rate, "rate", 1, "steady events per second")
	flagSet.DurationVar(&options.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	flagSet.DurationVar(&options.burstEvery, "burst-every", 5*time.Second, "interval between bursts (0 disables bursts)")
	flagSet.IntVar(&options.burstSize, "burst-size", 5, "events sent per burst")
	flagSet.DurationVar(&options.traceEvery, "trace-every", 15*time.Second, "interval between multi-service trace flows (0 disables traces)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if options.rate <= 0 {
		return fmt.Errorf("--rate must be positive, got %v", options.rate)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if options.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.duration)
		defer cancel()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("Starting log simulation", "endpoint", options.endpoint, "rate", options.rate)

	simulator := newSimulator(options, &http.Client{Timeout: 5 * time.Second}, logger)
	simulator.run(ctx)

	sent, failed := simulator.counts()
	logger.Info("Simulation finished", "sent", sent, "failed", failed)

	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Log traffic simulator: posts random log events and correlated trace
flows to the ingest endpoint.

Usage:
  simulator [flags]

Flags:
%s`, flagSet.FlagUsages())
}

type simulator struct {
	options    simulatorOptions
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu     sync.Mutex
	random *rand.Rand
	sent   int
	failed int
}

func newSimulator(options simulatorOptions, httpClient *http.Client, logger *slog.Logger) *simulator {
	return &simulator{
		options:    options,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(options.rate), 1),
		logger:     logger,
		random:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

// run sends steady traffic at the configured rate plus periodic bursts and
// trace flows until ctx ends.
func (s *simulator) run(ctx context.Context) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxInFlightRequests)

	var burstTicks <-chan time.Time
	if s.options.burstEvery > 0 && s.options.burstSize > 0 {
		ticker := time.NewTicker(s.options.burstEvery)
		defer ticker.Stop()
		burstTicks = ticker.C
	}

	var traceTicks <-chan time.Time
	if s.options.traceEvery > 0 {
		ticker := time.NewTicker(s.options.traceEvery)
		defer ticker.Stop()
		traceTicks = ticker.C
	}

	burstRequests := make(chan struct{}, 1)
	traceRequests := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-burstTicks:
				requestOnce(burstRequests)
			case <-traceTicks:
				requestOnce(traceRequests)
			}
		}
	}()

	for {
		select {
		case <-burstRequests:
			for i := 0; i < s.options.burstSize; i++ {
				group.Go(func() error {
					s.send(ctx)
					return nil
				})
			}
			continue
		case <-traceRequests:
			group.Go(func() error {
				s.sendTrace(ctx)
				return nil
			})
			continue
		default:
		}

		if err := s.limiter.Wait(ctx); err != nil {
			break
		}

		group.Go(func() error {
			s.send(ctx)
			return nil
		})
	}

	_ = group.Wait()
}

// requestOnce leaves at most one pending request in requests.
func requestOnce(requests chan<- struct{}) {
	select {
	case requests <- struct{}{}:
	default:
	}
}

func (s *simulator) nextEvent() simulatedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return newSimulatedEvent(s.random, time.Now())
}

func (s *simulator) nextTrace() []simulatedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return newTraceFlow(s.random, time.Now())
}

func (s *simulator) send(ctx context.Context) {
	s.sendEvent(ctx, s.nextEvent())
}

// sendTrace posts the steps of one trace flow in order, pausing between them.
func (s *simulator) sendTrace(ctx context.Context) {
	events := s.nextTrace()

	for i, event := range events {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(traceStepPause):
			}
		}

		s.sendEvent(ctx, event)
	}
}

func (s *simulator) sendEvent(ctx context.Context, event simulatedEvent) {
	err := s.post(ctx, event)

	s.mu.Lock()
	if err != nil {
		s.failed++
	} else {
		s.sent++
	}
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("Failed to send log", "error", err)
		}
		return
	}

	s.logger.Info(fmt.Sprintf("[%s] %s: %s", strings.ToUpper(event.Severity), event.Source, event.Message))
}

func (s *simulator) post(ctx context.Context, event simulatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.options.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ingest returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *simulator) counts() (sent, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sent, s.failed
}
