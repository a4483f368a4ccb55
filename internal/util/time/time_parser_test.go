package time_parser

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseTimestamp_WithNilInput_ReturnsAbsent(t *testing.T) {
	result, err := ParseTimestamp(nil)

	assert.NoError(t, err)
	assert.Nil(t, result)
}

func Test_ParseTimestamp_WithEmptyString_ReturnsAbsent(t *testing.T) {
	result, err := ParseTimestamp("")

	assert.NoError(t, err)
	assert.Nil(t, result)
}

func Test_ParseTimestamp_WithValidISOStrings_ParsesCorrectly(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "RFC3339 format",
			input:    "2023-12-25T15:30:45Z",
			expected: time.Date(2023, 12, 25, 15, 30, 45, 0, time.UTC),
		},
		{
			name:     "RFC3339 with timezone",
			input:    "2023-12-25T15:30:45+02:00",
			expected: time.Date(2023, 12, 25, 13, 30, 45, 0, time.UTC),
		},
		{
			name:     "RFC3339Nano format",
			input:    "2023-12-25T15:30:45.123456789Z",
			expected: time.Date(2023, 12, 25, 15, 30, 45, 123456789, time.UTC),
		},
		{
			name:     "JavaScript toISOString output",
			input:    "2024-03-01T08:00:00.250Z",
			expected: time.Date(2024, 3, 1, 8, 0, 0, 250000000, time.UTC),
		},
		{
			name:     "ISO without timezone",
			input:    "2023-12-25T15:30:45",
			expected: time.Date(2023, 12, 25, 15, 30, 45, 0, time.UTC),
		},
		{
			name:     "Space-separated format",
			input:    "2023-12-25 15:30:45",
			expected: time.Date(2023, 12, 25, 15, 30, 45, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, tt.expected.Equal(*result))
			assert.Equal(t, time.UTC, result.Location(), "Expected UTC timezone")
		})
	}
}

func Test_ParseTimestamp_WithInvalidStrings_ReturnsError(t *testing.T) {
	invalidInputs := []string{
		"invalid-date",
		"2023-13-45",
		"2023/12/25 15:30:45",
		"25-12-2023",
	}

	for _, input := range invalidInputs {
		t.Run("Invalid input: "+input, func(t *testing.T) {
			result, err := ParseTimestamp(input)
			assert.ErrorIs(t, err, ErrUnsupportedTimestamp)
			assert.Nil(t, result)
		})
	}
}

func Test_ParseTimestamp_WithUnixNumbers_ParsesSecondsAndMilliseconds(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected time.Time
	}{
		{"Seconds as float64", float64(1640000000), time.Unix(1640000000, 0).UTC()},
		{"Seconds with decimal", 1640000000.5, time.Unix(1640000000, 0).UTC()},
		{"Milliseconds as float64", float64(1640000000123), time.Unix(0, 1640000000123*int64(time.Millisecond)).UTC()},
		{"Seconds as int64", int64(1640000000), time.Unix(1640000000, 0).UTC()},
		{"Milliseconds as int", 1640000000000, time.Unix(0, 1640000000000*int64(time.Millisecond)).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, *result)
		})
	}
}

func Test_ParseTimestamp_WithUnsupportedTypes_ReturnsError(t *testing.T) {
	for _, input := range []any{true, []string{"2023"}, map[string]any{"at": 1}} {
		result, err := ParseTimestamp(input)
		assert.ErrorIs(t, err, ErrUnsupportedTimestamp)
		assert.Nil(t, result)
	}
}

func Test_ParseTimestamp_WithOutOfRangeValues_ReturnsError(t *testing.T) {
	inputs := []any{
		float64(3e11),
		float64(-9e13),
		float64(1e17),
		math.Inf(1),
		math.NaN(),
		int64(math.MaxInt64),
		int64(math.MinInt64),
		int64(1e17),
		"0000-01-01T00:00:00+01:00",
	}

	for _, input := range inputs {
		result, err := ParseTimestamp(input)
		assert.ErrorIs(t, err, ErrUnsupportedTimestamp, "input %v", input)
		assert.Nil(t, result, "input %v", input)
	}
}

func Test_ParseTimestamp_AtYearBounds_Accepts(t *testing.T) {
	lastSecond := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

	result, err := ParseTimestamp(float64(lastSecond.Unix()))
	require.NoError(t, err)
	assert.Equal(t, lastSecond, *result)

	result, err = ParseTimestamp(lastSecond.UnixMilli())
	require.NoError(t, err)
	assert.Equal(t, lastSecond, *result)

	firstSecond := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err = ParseTimestamp(firstSecond.Unix())
	require.NoError(t, err)
	assert.Equal(t, firstSecond, *result)
}
