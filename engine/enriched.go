// Package engine implements the priority and balance engine: a pure,
// synchronous function from (snapshot, filter, context) to a ranked task
// list. Each call hydrates its own scratch copy of every task, runs one
// depth-first pass per root, and discards the scratch state on return.
// Nothing in this package reads the wall clock or performs I/O.
package engine

import (
	"math"
	"time"

	"github.com/tasklens/tasklens/task"
)

const (
	// CreditsHalfLife is the half-life for effective credit decay.
	CreditsHalfLife = 7 * 24 * time.Hour

	// feedbackSensitivity is the exponent applied to the desired-vs-
	// actual share ratio when computing a root's feedback factor.
	feedbackSensitivity = 2.0

	// feedbackEpsilon guards the feedback computation against division
	// by zero.
	feedbackEpsilon = 0.001

	// MinPriority is the focus cutoff: scored tasks at or below it are
	// dropped unless hidden tasks are requested.
	MinPriority = 0.001

	// priorityEpsilon suppresses float noise when comparing priorities
	// during sorting.
	priorityEpsilon = 1e-6
)

// ScheduleSource indicates where a task's effective schedule came from.
type ScheduleSource string

const (
	// ScheduleSourceSelf means the schedule is defined on the task itself.
	ScheduleSourceSelf ScheduleSource = "self"

	// ScheduleSourceAncestor means the schedule was inherited.
	ScheduleSourceAncestor ScheduleSource = "ancestor"
)

// enriched is the per-call scratch record for one task. The persisted
// fields are copied in by hydrate; the scoring fields are filled by the
// engine passes and die with the call.
type enriched struct {
	task.Task

	effectiveCredits     float64
	feedbackFactor       float64
	leadTimeFactor       float64
	normalizedImportance float64
	priority             float64
	visibility           bool
	outlineIndex         int
	isContainer          bool
	isPending            bool

	effectiveDueDate *time.Time
	effectiveLead    time.Duration
	scheduleSource   ScheduleSource
}

// hydrate copies a persisted task into a fresh scratch record.
func hydrate(t *task.Task) enriched {
	e := enriched{
		Task:           *t,
		feedbackFactor: 1,
		visibility:     true,
		isContainer:    len(t.ChildTaskIDs) > 0,
		isPending:      t.IsPending(),
		effectiveLead:  t.Schedule.LeadTime,
	}

	if e.CreditIncrement == 0 {
		e.CreditIncrement = task.DefaultCreditIncrement
	}

	if due := t.EffectiveDueDate(); due != nil {
		d := *due
		e.effectiveDueDate = &d
		e.scheduleSource = ScheduleSourceSelf
	}

	return e
}

// sanitize replaces non-finite factors with zero so one bad input
// deprioritizes a task instead of aborting the whole ranking pass.
func sanitize(factor float64) float64 {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0
	}
	return factor
}

// DecayCredits returns credits decayed from their anchor timestamp to now
// with the fixed CreditsHalfLife. The store uses the same decay when
// attributing completion credits, so stored and computed values agree.
func DecayCredits(credits float64, anchor, now time.Time) float64 {
	if credits == 0 {
		return 0
	}
	elapsed := now.Sub(anchor)
	return credits * math.Pow(0.5, float64(elapsed)/float64(CreditsHalfLife))
}
