// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-projection/pkg/constants"
)

const (
	// DateLayout is the day-precision layout used across projection output.
	DateLayout = constants.DateLayout

	// MonthLayout is the month-precision layout used for bucket labels.
	MonthLayout = constants.MonthLayout
)

var acceptedLayouts = []string{
	time.RFC3339,
	DateLayout,
	MonthLayout,
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate accepts RFC3339, YYYY-MM-DD or YYYY-MM input.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// AddMonths adds months to t, clamping the day to the last day of the target
// month so Jan 31 + 1 month is Feb 28/29 rather than early March.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := DaysInMonth(first)
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return MonthStart(t).AddDate(0, 1, -1).Day()
}

// MonthIndex returns a monotonically increasing month counter for t.
func MonthIndex(t time.Time) int {
	return t.Year()*constants.MonthsPerYear + int(t.Month()) - 1
}

// MonthsBetween returns the number of calendar months from a to b.
func MonthsBetween(a, b time.Time) int {
	return MonthIndex(b) - MonthIndex(a)
}

// DaysBetween returns the whole-day distance from a to b ignoring time of day.
func DaysBetween(a, b time.Time) float64 {
	return Day(b).Sub(Day(a)).Hours() / 24
}
