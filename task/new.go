package task

import "time"

const (
	// DefaultImportance is assigned to new tasks.
	DefaultImportance = 0.5

	// DefaultCreditIncrement is awarded per completion for tasks without
	// an explicit increment.
	DefaultCreditIncrement = 0.5

	// DefaultDesiredCredits is the initial target share for new tasks.
	DefaultDesiredCredits = 1.0

	// DefaultLeadTime is the window before a due date during which
	// urgency ramps up.
	DefaultLeadTime = 8 * time.Hour
)

// New creates a task with default values, inheriting place and credit
// increment from the parent when one is given.
func New(id ID, title string, parent *Task, now time.Time) *Task {
	t := &Task{
		ID:                id,
		Title:             title,
		Status:            StatusPending,
		Importance:        DefaultImportance,
		CreditIncrement:   DefaultCreditIncrement,
		DesiredCredits:    DefaultDesiredCredits,
		CreditsTimestamp:  now,
		PriorityTimestamp: now,
		Schedule: Schedule{
			Type:     ScheduleOnce,
			LeadTime: DefaultLeadTime,
		},
	}

	if parent != nil {
		t.ParentID = parent.ID
		t.PlaceID = parent.PlaceID
		t.CreditIncrement = parent.CreditIncrement
	}

	return t
}
