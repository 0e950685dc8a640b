// Package dayclock maps wall-clock time to the UTC calendar day that a
// puzzle belongs to, and computes the distance to the next day boundary.
// All puzzle rotation and stats finalization is keyed on these day ids.
package dayclock

import (
	"fmt"
	"time"
)

// Layout is the canonical day identifier form, e.g. "2024-08-01".
const Layout = "2006-01-02"

// DayID returns the UTC calendar day identifier for the given instant.
func DayID(now time.Time) string {
	return now.UTC().Format(Layout)
}

// Today returns the current UTC day identifier.
func Today() string {
	return DayID(time.Now())
}

// UntilNextMidnight returns the duration from now until the next UTC
// midnight. Recomputed from scratch on every call so repeated calls never
// accumulate drift, and never negative.
func UntilNextMidnight(now time.Time) time.Duration {
	utc := now.UTC()
	next := time.Date(utc.Year(), utc.Month(), utc.Day()+1, 0, 0, 0, 0, time.UTC)
	d := next.Sub(utc)
	if d < 0 {
		return 0
	}
	return d
}

// Countdown formats the time until the next UTC midnight as HH:MM:SS.
func Countdown(now time.Time) string {
	d := UntilNextMidnight(now)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
