package realtime

import "errors"

const ErrorRealtimeNotConfigured = "REALTIME_NOT_CONFIGURED"

// ErrRealtimeNotConfigured means the realtime feature is unavailable, as
// opposed to temporarily failing.
var ErrRealtimeNotConfigured = errors.New("realtime backend is not configured")
