package main

import (
	"math/rand/v2"
	"time"
)

const (
	traceIDLength = 13
	spanIDLength  = 6

	// pause between the steps of one trace flow
	traceStepPause = 150 * time.Millisecond
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var simulatedSources = []string{"auth-service", "payment-gateway", "user-profile", "notification-service"}

var simulatedMessages = map[string][]string{
	"debug": {
		"Processing incoming request",
		"Validating user credentials",
		"Fetching data from cache",
		"Executing database query",
	},
	"info": {
		"Health check passed",
		"User logged in successfully",
		"Profile updated",
		"Email notification sent",
		"Payment processed successfully",
		"Cache hit for user data",
		"Session created",
		"Request processed",
	},
	"warn": {
		"High memory usage detected",
		"Disk space running low",
		"Rate limit approaching threshold",
		"Slow response time detected",
		"Connection pool near capacity",
		"Cache miss - performance impact",
	},
	"error": {
		"Database connection failed",
		"External service unavailable",
		"Request timeout exceeded",
		"Authentication failed",
		"Payment gateway error",
		"Failed to process request",
	},
}

type simulatedEvent struct {
	Source    string         `json:"source"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp string         `json:"timestamp"`
}

// severityForRoll maps a uniform roll in [0, 1) to roughly 60% info,
// 15% debug, 15% warn and 10% error.
func severityForRoll(roll float64) string {
	switch {
	case roll < 0.6:
		return "info"
	case roll < 0.75:
		return "debug"
	case roll < 0.9:
		return "warn"
	default:
		return "error"
	}
}

func newSimulatedEvent(random *rand.Rand, now time.Time) simulatedEvent {
	severity := severityForRoll(random.Float64())
	messages := simulatedMessages[severity]

	return simulatedEvent{
		Source:   simulatedSources[random.IntN(len(simulatedSources))],
		Message:  messages[random.IntN(len(messages))],
		Severity: severity,
		Metadata: map[string]any{
			"traceId": randomID(random, traceIDLength),
			"spanId":  randomID(random, spanIDLength),
			"latency": random.IntN(500),
		},
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}

type traceStep struct {
	source   string
	message  string
	severity string
	delay    time.Duration
}

// newTraceFlow builds one request flowing through every service under a
// shared traceId. The payment step fails now and then, and a failed flow
// is sometimes cut short at that step.
func newTraceFlow(random *rand.Rand, now time.Time) []simulatedEvent {
	paymentSeverity := "info"
	if random.Float64() > 0.85 {
		paymentSeverity = "error"
	}

	steps := []traceStep{
		{"auth-service", "User authentication request", "info", 0},
		{"user-profile", "Fetching user profile data", "info", randomDelay(random, 50, 100)},
		{"payment-gateway", "Processing payment transaction", paymentSeverity, randomDelay(random, 200, 300)},
		{"notification-service", "Sending confirmation email", "info", randomDelay(random, 600, 200)},
	}

	traceID := randomID(random, traceIDLength)
	events := make([]simulatedEvent, 0, len(steps))

	for _, step := range steps {
		if step.severity == "error" && random.Float64() > 0.5 {
			break
		}

		events = append(events, simulatedEvent{
			Source:   step.source,
			Message:  step.message,
			Severity: step.severity,
			Metadata: map[string]any{
				"traceId": traceID,
				"spanId":  randomID(random, spanIDLength),
				"latency": step.delay.Milliseconds(),
			},
			Timestamp: now.Add(step.delay).UTC().Format(time.RFC3339Nano),
		})
	}

	return events
}

func randomDelay(random *rand.Rand, baseMs, spreadMs int) time.Duration {
	return time.Duration(baseMs+random.IntN(spreadMs)) * time.Millisecond
}

func randomID(random *rand.Rand, length int) string {
	id := make([]byte, length)
	for i := range id {
		id[i] = idAlphabet[random.IntN(len(idAlphabet))]
	}

	return string(id)
}
