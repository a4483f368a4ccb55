package time_parser

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrUnsupportedTimestamp = errors.New("unsupported timestamp")

const unixMillisThreshold = 1e12 // milliseconds above this (~2001-09-09 as ms)

// Timestamps must stay within four-digit years so records always encode.
var (
	minTimestamp = time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	maxTimestamp = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)
)

var isoLayouts = []string{
	time.RFC3339,           // "2006-01-02T15:04:05Z07:00"
	time.RFC3339Nano,       // "2006-01-02T15:04:05.999999999Z07:00"
	"2006-01-02T15:04:05Z", // ISO with Z suffix
	"2006-01-02T15:04:05",  // ISO without timezone
	"2006-01-02 15:04:05",  // Space-separated format
}

// ParseTimestamp converts a producer-supplied timestamp into UTC.
// Supported formats:
//   - nil or empty string: absent, returns (nil, nil)
//   - ISO strings: RFC3339, RFC3339Nano, "2006-01-02T15:04:05Z", "2006-01-02T15:04:05", "2006-01-02 15:04:05"
//   - Unix timestamps: seconds (<= 1e12) or milliseconds (> 1e12) as int, int64, or float64
//
// Anything else, or a time outside years 0 to 9999, returns ErrUnsupportedTimestamp.
func ParseTimestamp(timestamp any) (*time.Time, error) {
	if timestamp == nil {
		return nil, nil
	}

	var parsed time.Time

	switch v := timestamp.(type) {
	case string:
		if v == "" {
			return nil, nil
		}

		found := false
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				parsed = t.UTC()
				found = true
				break
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedTimestamp, v)
		}

	case float64:
		// JSON numbers are decoded as float64
		if math.IsNaN(v) || v < float64(minTimestamp.Unix()) || v > float64(maxTimestamp.UnixMilli()) {
			return nil, fmt.Errorf("%w: %v out of range", ErrUnsupportedTimestamp, v)
		}

		var ok bool
		if parsed, ok = fromUnix(int64(v)); !ok {
			return nil, fmt.Errorf("%w: %v out of range", ErrUnsupportedTimestamp, v)
		}

	case int64:
		var ok bool
		if parsed, ok = fromUnix(v); !ok {
			return nil, fmt.Errorf("%w: %d out of range", ErrUnsupportedTimestamp, v)
		}

	case int:
		var ok bool
		if parsed, ok = fromUnix(int64(v)); !ok {
			return nil, fmt.Errorf("%w: %d out of range", ErrUnsupportedTimestamp, v)
		}

	default:
		return nil, fmt.Errorf("%w: type %T", ErrUnsupportedTimestamp, timestamp)
	}

	if parsed.Before(minTimestamp) || parsed.After(maxTimestamp) {
		return nil, fmt.Errorf("%w: year %d out of range", ErrUnsupportedTimestamp, parsed.Year())
	}

	return &parsed, nil
}

// fromUnix reports false when v cannot be converted without overflow.
func fromUnix(v int64) (time.Time, bool) {
	if v > unixMillisThreshold {
		if v > maxTimestamp.UnixMilli() {
			return time.Time{}, false
		}

		return time.UnixMilli(v).UTC(), true
	}

	if v < minTimestamp.Unix() {
		return time.Time{}, false
	}

	return time.Unix(v, 0).UTC(), true
}
