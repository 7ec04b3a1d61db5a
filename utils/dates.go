package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MaxRangeDays bounds every date-range iteration so a single request cannot
// trigger unbounded work.
const MaxRangeDays = 366

// ParseDate parses a YYYY-MM-DD string into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// NormalizeDate truncates a timestamp to UTC midnight. All calendar math in
// the availability and pricing engines operates on normalized dates.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date back to the wire format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ValidateRange checks a half-open [checkIn, checkOut) stay range.
func ValidateRange(checkIn, checkOut time.Time) error {
	if !checkIn.Before(checkOut) {
		return fmt.Errorf("checkIn must be before checkOut")
	}
	if DaysBetween(checkIn, checkOut) > MaxRangeDays {
		return fmt.Errorf("date range exceeds %d days", MaxRangeDays)
	}
	return nil
}

// DaysBetween counts the nights in [start, end).
func DaysBetween(start, end time.Time) int {
	return int(NormalizeDate(end).Sub(NormalizeDate(start)).Hours() / 24)
}

// EachDay calls fn for every date in [start, end).
func EachDay(start, end time.Time, fn func(day time.Time)) {
	for d := NormalizeDate(start); d.Before(NormalizeDate(end)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
