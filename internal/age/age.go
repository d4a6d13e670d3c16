// Package age computes display durations relative to a reference time.
package age

import "time"

// AgeData computes the display age since then and whether timing data exists.
// A future timestamp clamps to zero.
func AgeData(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	age := now.Sub(then)
	if age < 0 {
		age = 0
	}
	return age, true
}

// UntilData computes the time remaining before then and whether timing data
// exists. A past timestamp clamps to zero.
func UntilData(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	remaining := then.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
