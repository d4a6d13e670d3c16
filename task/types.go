// Package task defines the persisted task-management data model: tasks,
// places, schedules, and the document snapshot the engine consumes.
//
// Tasks form a tree. Each task carries both a ParentID back-reference and an
// ordered ChildTaskIDs list; the list is the authoritative sibling order and
// the two encodings are kept consistent by the mutation-time validators in
// validation.go. The engine never mutates this model: it clones a Snapshot
// per call and works on its own ephemeral copy.
package task

import "time"

// ID identifies a task.
type ID string

// PlaceID identifies a place.
type PlaceID string

// Status represents the lifecycle state of a task.
type Status string

const (
	// StatusPending indicates the task still needs doing.
	StatusPending Status = "pending"

	// StatusDone indicates the task has been completed.
	StatusDone Status = "done"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusDone}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// ScheduleType categorizes how a task's due date is determined.
type ScheduleType string

const (
	// ScheduleOnce is a one-shot task, optionally with a fixed due date.
	ScheduleOnce ScheduleType = "once"

	// ScheduleRoutinely repeats on an interval after each completion.
	ScheduleRoutinely ScheduleType = "routinely"

	// ScheduleDueDate is pinned to an explicit due date.
	ScheduleDueDate ScheduleType = "due_date"

	// ScheduleCalendar is tied to a calendar event.
	ScheduleCalendar ScheduleType = "calendar"
)

// ValidScheduleTypes returns all valid schedule type values.
func ValidScheduleTypes() []ScheduleType {
	return []ScheduleType{ScheduleOnce, ScheduleRoutinely, ScheduleDueDate, ScheduleCalendar}
}

// IsValid returns true if the schedule type is a known valid value.
func (t ScheduleType) IsValid() bool {
	for _, valid := range ValidScheduleTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// Frequency is the repeat cadence unit for routine tasks.
type Frequency string

const (
	// FrequencyDaily repeats in units of days.
	FrequencyDaily Frequency = "daily"

	// FrequencyWeekly repeats in units of weeks.
	FrequencyWeekly Frequency = "weekly"

	// FrequencyMonthly repeats in units of 30-day months.
	FrequencyMonthly Frequency = "monthly"

	// FrequencyYearly repeats in units of 365-day years.
	FrequencyYearly Frequency = "yearly"
)

// ValidFrequencies returns all valid frequency values.
func ValidFrequencies() []Frequency {
	return []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}
}

// IsValid returns true if the frequency is a known valid value.
func (f Frequency) IsValid() bool {
	for _, valid := range ValidFrequencies() {
		if f == valid {
			return true
		}
	}
	return false
}

// Interval returns the fixed duration of one frequency unit.
// Months and years use fixed 30-day and 365-day intervals.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	case FrequencyYearly:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// RepeatConfig describes the repeat cadence of a routine task.
type RepeatConfig struct {
	// Frequency is the cadence unit.
	Frequency Frequency `yaml:"frequency"`

	// Interval is the number of frequency units between repetitions.
	Interval int `yaml:"interval"`
}

// Duration returns the full repeat interval.
func (c RepeatConfig) Duration() time.Duration {
	return time.Duration(c.Interval) * c.Frequency.Interval()
}

// Schedule describes when a task becomes due.
type Schedule struct {
	// Type determines how DueDate is interpreted and derived.
	Type ScheduleType `yaml:"type"`

	// DueDate is the explicit due date, if any.
	DueDate *time.Time `yaml:"due_date,omitempty"`

	// LeadTime is the window before the due date during which urgency
	// ramps from zero to full.
	LeadTime time.Duration `yaml:"lead_time"`

	// LastDone is when a routine task last completed a cycle. Routine
	// tasks derive their next due date from LastDone plus the repeat
	// interval.
	LastDone *time.Time `yaml:"last_done,omitempty"`
}

// Task is the persisted record for a single task.
type Task struct {
	ID    ID     `yaml:"id"`
	Title string `yaml:"title"`
	Notes string `yaml:"notes,omitempty"`

	// ParentID is the back-reference to the parent task; empty for roots.
	ParentID ID `yaml:"parent_id,omitempty"`

	// ChildTaskIDs is the authoritative ordered list of children.
	ChildTaskIDs []ID `yaml:"child_task_ids,omitempty"`

	// PlaceID is the task's own place; empty means it inherits the
	// nearest ancestor's place, falling back to Anywhere.
	PlaceID PlaceID `yaml:"place_id,omitempty"`

	Status Status `yaml:"status"`

	// Importance is the author-assigned weight in [0,1] used when a
	// parent's importance budget is split among siblings.
	Importance float64 `yaml:"importance"`

	// CreditIncrement is awarded to Credits on each completion.
	CreditIncrement float64 `yaml:"credit_increment"`

	// Credits is the cumulative effort score. It only grows on
	// completion and decays exponentially when read.
	Credits float64 `yaml:"credits"`

	// DesiredCredits is the user-set target attention share relative to
	// siblings. A sibling set of size N always sums to N.
	DesiredCredits float64 `yaml:"desired_credits"`

	// CreditsTimestamp anchors the exponential decay of Credits.
	CreditsTimestamp time.Time `yaml:"credits_timestamp"`

	// PriorityTimestamp anchors priority-related decay bookkeeping.
	PriorityTimestamp time.Time `yaml:"priority_timestamp"`

	Schedule Schedule `yaml:"schedule"`

	// Repeat is required iff Schedule.Type is ScheduleRoutinely.
	Repeat *RepeatConfig `yaml:"repeat,omitempty"`

	// IsSequential makes children work one active child at a time, in
	// sibling order.
	IsSequential bool `yaml:"is_sequential,omitempty"`

	// IsAcknowledged marks a done task as seen, removing it from the
	// do-list.
	IsAcknowledged bool `yaml:"is_acknowledged,omitempty"`

	// LastCompletedAt records the most recent completion.
	LastCompletedAt *time.Time `yaml:"last_completed_at,omitempty"`
}

// IsPending reports whether the task still demands work. Routine and
// calendar tasks never leave the pending pool permanently.
func (t *Task) IsPending() bool {
	return t.Status == StatusPending ||
		t.Schedule.Type == ScheduleRoutinely ||
		t.Schedule.Type == ScheduleCalendar
}

// EffectiveDueDate resolves the due date used by the readiness ramp. For
// routine tasks with a completed cycle it is LastDone plus the repeat
// interval; otherwise it is the explicit due date.
func (t *Task) EffectiveDueDate() *time.Time {
	if t.Schedule.Type == ScheduleRoutinely && t.Schedule.LastDone != nil && t.Repeat != nil {
		next := t.Schedule.LastDone.Add(t.Repeat.Duration())
		return &next
	}
	return t.Schedule.DueDate
}

// ViewFilter selects which place context a listing applies to.
// The zero value means "All".
type ViewFilter struct {
	// PlaceID is the place to filter by, or FilterAll for no filtering.
	PlaceID PlaceID
}

// FilterAll is the ViewFilter place that matches every task.
const FilterAll PlaceID = "All"

// IsAll reports whether the filter matches every place.
func (f ViewFilter) IsAll() bool {
	return f.PlaceID == "" || f.PlaceID == FilterAll
}

// Context is a time and location snapshot threaded through every engine
// call, keeping the computation deterministic and clock-free.
type Context struct {
	// Now is the instant the computation is evaluated at.
	Now time.Time

	// CurrentPlaceID is where the user currently is, if known.
	CurrentPlaceID PlaceID
}
