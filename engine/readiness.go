package engine

import "time"

// leadTimeFactor maps (due date, lead time, now) onto the [0,1] readiness
// ramp:
//
//   - no due date: 1.0
//   - more than 2×leadTime remaining: 0.0 (too early)
//   - ramping linearly from 0 at 2×leadTime down to 1.0 at 1×leadTime
//   - saturated at 1.0 from there through overdue
//
// A zero lead time degenerates to a step: 0 until the due date, 1 after.
func leadTimeFactor(dueDate *time.Time, leadTime time.Duration, now time.Time) float64 {
	if dueDate == nil {
		return 1
	}
	if !dueDate.After(now) {
		return 1
	}

	remaining := dueDate.Sub(now)
	if remaining > 2*leadTime {
		return 0
	}

	factor := float64(2*leadTime-remaining) / float64(leadTime)
	if factor < 0 {
		return 0
	}
	if factor > 1 {
		return 1
	}
	return factor
}
