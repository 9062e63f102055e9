package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"iso minutes", "2024-01-15 10:30", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"iso seconds", "2024-01-15 10:30:45", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)},
		{"iso T separator", "2024-01-15T10:30", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"slash unambiguous", "15/01/2024 10:30", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"slash ambiguous is day first", "02/01/2024 14:00", time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)},
		{"slash unpadded", "2/1/2024 14:00", time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)},
		{"dash day first", "02-01-2024 14:00:30", time.Date(2024, 1, 2, 14, 0, 30, 0, time.UTC)},
		{"dotted", "02.01.2024 14:00", time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)},
		{"date only", "02/01/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"surrounding space", "  2024-01-15 10:30 ", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseTimestampRFC3339KeepsInstant(t *testing.T) {
	got, err := ParseTimestamp("2024-01-15T10:30:00+01:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC).Equal(got))
}

func TestParseTimestampSerialOnlyFromSpreadsheetCells(t *testing.T) {
	got, err := parseTimestamp("45292.5", true)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Equal(got))

	got, err = parseTimestamp("45293", true)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Equal(got))

	for _, in := range []string{"2024", "45293", "45292.5"} {
		_, err := parseTimestamp(in, false)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseTimestampErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "99/99/2024 10:00", "2024"} {
		_, err := ParseTimestamp(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestIsSerial(t *testing.T) {
	assert.True(t, isSerial("45292"))
	assert.True(t, isSerial("45292.4375"))
	assert.False(t, isSerial("45292."))
	assert.False(t, isSerial("12"))
	assert.False(t, isSerial("20240101"))
	assert.False(t, isSerial("02.01.2024"))
}
