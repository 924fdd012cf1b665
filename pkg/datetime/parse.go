// Package datetime provides month-granularity date utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in plan files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout

	hoursPerDay = 24
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseMonth parses a YYYY-MM string into the first instant of that month in UTC.
func ParseMonth(date string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", date, err)
	}
	return t, nil
}

// ParseOptionalMonth parses date when it is set. The boolean reports whether a
// date was present.
func ParseOptionalMonth(date string) (time.Time, bool, error) {
	if strings.TrimSpace(date) == "" {
		return time.Time{}, false, nil
	}
	t, err := ParseMonth(date)
	if err != nil {
		return time.Time{}, true, err
	}
	return t, true, nil
}

// StartOfMonth truncates t to the first day of its month in UTC.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// FormatMonth renders t in the YYYY-MM layout.
func FormatMonth(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// AddMonths offsets a month by n months.
func AddMonths(t time.Time, n int) time.Time {
	return StartOfMonth(t).AddDate(0, n, 0)
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// MonthsBetween returns the whole number of months from a to b; negative when
// b precedes a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*constants.MonthsPerYear + int(b.Month()) - int(a.Month())
}

// YearsBetween returns the fractional years from a to b on a 365.25-day year.
func YearsBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / hoursPerDay / constants.DaysPerYear
}

// InWindow reports whether month lies within [start, end]. A zero start or end
// leaves that side of the window open.
func InWindow(month, start, end time.Time) bool {
	if !start.IsZero() && month.Before(start) {
		return false
	}
	if !end.IsZero() && month.After(end) {
		return false
	}
	return true
}
