package logs_core

import "errors"

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`

	// RetryAfterSec is set for RATE_LIMIT_EXCEEDED.
	RetryAfterSec int `json:"-"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	ErrorInvalidSeverity   = "INVALID_SEVERITY"
	ErrorSourceEmpty       = "SOURCE_EMPTY"
	ErrorMessageEmpty      = "MESSAGE_EMPTY"
	ErrorInvalidTimestamp  = "INVALID_TIMESTAMP"
	ErrorLogTooLarge       = "LOG_TOO_LARGE"
	ErrorRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

var (
	// ErrRecordTooLarge is returned by queue publishers when a record can not
	// fit into any batch.
	ErrRecordTooLarge = errors.New("record too large for queue batch")

	// ErrSinkDisabled is returned by readers that have no backing
	// configuration.
	ErrSinkDisabled = errors.New("sink is not configured")
)
