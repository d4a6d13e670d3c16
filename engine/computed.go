package engine

import (
	"time"

	"github.com/tasklens/tasklens/task"
)

// ComputedTask is the public projection of one scored task: the persisted
// fields plus the engine's resolved schedule and derived flags. Scoring
// internals (normalized importance, feedback factor, raw priority) are
// deliberately excluded; use Trace to inspect them.
type ComputedTask struct {
	task.Task

	// EffectiveCredits is the subtree's decayed credit total.
	EffectiveCredits float64

	// IsContainer reports whether the task has children.
	IsContainer bool

	// IsPending reports whether the task still demands work.
	IsPending bool

	// IsReady reports whether a pending task's readiness ramp is above
	// zero.
	IsReady bool

	// EffectiveDueDate is the resolved due date, own or inherited.
	EffectiveDueDate *time.Time

	// EffectiveLeadTime is the resolved lead time, own or inherited.
	EffectiveLeadTime time.Duration

	// ScheduleSource indicates where the effective schedule came from;
	// empty when there is none.
	ScheduleSource ScheduleSource

	// Urgency labels the task's position on the due-date timeline.
	Urgency UrgencyStatus
}

// UrgencyStatus labels how close a task is to its due date.
type UrgencyStatus string

const (
	// UrgencyNone means no due date pressure applies yet.
	UrgencyNone UrgencyStatus = "none"

	// UrgencyUpcoming means the lead-time window is about to open.
	UrgencyUpcoming UrgencyStatus = "upcoming"

	// UrgencyActive means the task is inside its lead-time window.
	UrgencyActive UrgencyStatus = "active"

	// UrgencyUrgent means the due date is imminent or today.
	UrgencyUrgent UrgencyStatus = "urgent"

	// UrgencyOverdue means the due date has passed.
	UrgencyOverdue UrgencyStatus = "overdue"
)

// urgencyThresholdRatio positions the upcoming and urgent boundaries as a
// fraction of the lead time.
const urgencyThresholdRatio = 0.25

// urgencyStatus labels a task's position relative to its due date. A task
// due today (UTC) is urgent even when already past due; past due on an
// earlier day is overdue.
func urgencyStatus(dueDate *time.Time, leadTime time.Duration, now time.Time) UrgencyStatus {
	if dueDate == nil {
		return UrgencyNone
	}

	due := *dueDate
	if sameDayUTC(due, now) {
		return UrgencyUrgent
	}
	if now.After(due) {
		return UrgencyOverdue
	}

	buffer := due.Sub(now)
	margin := time.Duration(float64(leadTime) * urgencyThresholdRatio)

	if buffer > leadTime {
		if buffer <= leadTime+margin {
			return UrgencyUpcoming
		}
		return UrgencyNone
	}

	if buffer <= margin {
		return UrgencyUrgent
	}
	return UrgencyActive
}

func sameDayUTC(a, b time.Time) bool {
	aYear, aMonth, aDay := a.UTC().Date()
	bYear, bMonth, bDay := b.UTC().Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}
