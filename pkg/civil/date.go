// Package civil works with calendar dates carried as UTC-midnight time.Time
// values, which is how DATE columns come back from the database.
package civil

import (
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Date builds the UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping t's calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Today is the current UTC calendar day.
func Today() time.Time { return Truncate(time.Now().UTC()) }

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// Format renders t as YYYY-MM-DD, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// DaysBetween counts whole calendar days from a to b (negative when b < a).
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 1).AddDate(0, 0, -1).Day()
}

// AddMonthClamped moves t one calendar month forward and sets the day to
// anchorDay, clamped to the last day of the target month (Jan 31 -> Feb 28/29).
func AddMonthClamped(t time.Time, anchorDay int) time.Time {
	t = Truncate(t)
	first := Date(t.Year(), t.Month(), 1).AddDate(0, 1, 0)
	day := anchorDay
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return Date(first.Year(), first.Month(), day)
}
