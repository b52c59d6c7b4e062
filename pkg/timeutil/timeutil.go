// Package timeutil holds calendar-date helpers. Dates are compared at
// midnight UTC so that stored DATE columns and "today" line up.
package timeutil

import "time"

const Day = 24 * time.Hour

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	return DateOnly(time.Now())
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// OnOrBefore reports whether date a falls on or before date b.
func OnOrBefore(a, b time.Time) bool {
	return !DateOnly(a).After(DateOnly(b))
}
