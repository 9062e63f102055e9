package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// dayFirstLayouts are tried in order before falling back to dateparse.
// Ambiguous numeric dates are always read day-first.
var dayFirstLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2.1.2006 15:04",
	"02/01/06 15:04",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
}

// ParseTimestamp parses one textual "Date Time" cell. It accepts a mix of
// formats and reads ambiguous day/month as day-first.
func ParseTimestamp(raw string) (time.Time, error) {
	return parseTimestamp(raw, false)
}

// parseTimestamp additionally reads bare numbers as Excel serial dates when
// allowSerial is set. Only xlsx cells carry serials; in CSV a bare "2024" is
// a malformed cell.
func parseTimestamp(raw string, allowSerial bool) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if isSerial(s) {
		if !allowSerial {
			return time.Time{}, fmt.Errorf("bare number %q is not a timestamp", raw)
		}
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid excel serial date %q: %w", raw, err)
		}
		return fromExcelSerial(serial)
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q: %w", raw, err)
	}
	return t, nil
}

// isSerial reports whether s looks like an Excel serial date such as
// "45292" or "45292.4375". Serials for any realistic price history have
// four or five integer digits.
func isSerial(s string) bool {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if len(whole) < 4 || len(whole) > 5 || !allDigits(whole) {
		return false
	}
	return !hasFrac || (frac != "" && allDigits(frac))
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func fromExcelSerial(serial float64) (time.Time, error) {
	if serial <= 0 {
		return time.Time{}, fmt.Errorf("invalid excel serial date %v", serial)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid excel serial date %v: %w", serial, err)
	}
	// Serial fractions carry float noise; snap to the second.
	return t.Round(time.Second).UTC(), nil
}
