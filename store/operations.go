package store

import (
	"fmt"
	"time"

	"github.com/tasklens/tasklens/balance"
	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/internal/ids"
	"github.com/tasklens/tasklens/task"
)

// CreateOptions configures a new task.
type CreateOptions struct {
	// ParentID nests the task under an existing parent; empty creates a
	// root.
	ParentID task.ID

	// Notes provides additional context.
	Notes string

	// PlaceID overrides the place inherited from the parent.
	PlaceID task.PlaceID

	// Importance overrides the default weight. Nil means default.
	Importance *float64

	// Schedule overrides the default once-with-lead-time schedule.
	Schedule *task.Schedule

	// Repeat configures a routine cadence; requires a Routinely schedule.
	Repeat *task.RepeatConfig

	// IsSequential makes the new task's children run one at a time.
	IsSequential bool
}

// CreateTask validates, creates, links, and persists a new task. The depth
// limit is enforced before anything is written.
func (s *Store) CreateTask(title string, opts CreateOptions, now time.Time) (*task.Task, error) {
	if err := task.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := s.snap.ValidateCreate(opts.ParentID); err != nil {
		return nil, err
	}

	var parent *task.Task
	if opts.ParentID != "" {
		parent = s.snap.Tasks[opts.ParentID]
	}

	t := task.New(task.ID(ids.GenerateWithTimestamp(title, now, ids.DefaultLength)), title, parent, now)
	t.Notes = opts.Notes
	if opts.PlaceID != "" {
		t.PlaceID = opts.PlaceID
	}
	if opts.Importance != nil {
		t.Importance = *opts.Importance
	}
	if opts.Schedule != nil {
		t.Schedule = *opts.Schedule
	}
	if opts.Repeat != nil {
		t.Repeat = opts.Repeat
	}
	t.IsSequential = opts.IsSequential

	if err := t.Validate(); err != nil {
		return nil, err
	}

	s.snap.Tasks[t.ID] = t
	if parent != nil {
		parent.ChildTaskIDs = append(parent.ChildTaskIDs, t.ID)
	} else {
		s.snap.RootTaskIDs = append(s.snap.RootTaskIDs, t.ID)
	}

	if err := s.Save(); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateOptions configures fields to update on a task.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Title        *string
	Notes        *string
	Status       *task.Status
	Importance   *float64
	PlaceID      *task.PlaceID
	Schedule     *task.Schedule
	Repeat       *task.RepeatConfig
	IsSequential *bool
}

// UpdateTask applies the given field updates to one task and persists.
func (s *Store) UpdateTask(id task.ID, opts UpdateOptions) (*task.Task, error) {
	t, ok := s.snap.Tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}

	updated := *t
	if opts.Title != nil {
		updated.Title = *opts.Title
	}
	if opts.Notes != nil {
		updated.Notes = *opts.Notes
	}
	if opts.Status != nil {
		updated.Status = *opts.Status
	}
	if opts.Importance != nil {
		updated.Importance = *opts.Importance
	}
	if opts.PlaceID != nil {
		updated.PlaceID = *opts.PlaceID
	}
	if opts.Schedule != nil {
		updated.Schedule = *opts.Schedule
	}
	if opts.Repeat != nil {
		updated.Repeat = opts.Repeat
	}
	if opts.IsSequential != nil {
		updated.IsSequential = *opts.IsSequential
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	*t = updated
	if err := s.Save(); err != nil {
		return nil, err
	}
	return t, nil
}

// MoveTask re-parents a task, appending it to the new parent's children
// (or the root list when newParentID is empty). The cycle and depth
// validators run before any link is touched.
func (s *Store) MoveTask(id, newParentID task.ID) error {
	if err := s.snap.ValidateMove(id, newParentID); err != nil {
		return err
	}

	t := s.snap.Tasks[id]

	// Unlink from the old position.
	if t.ParentID != "" {
		if oldParent, ok := s.snap.Tasks[t.ParentID]; ok {
			oldParent.ChildTaskIDs = removeID(oldParent.ChildTaskIDs, id)
		}
	} else {
		s.snap.RootTaskIDs = removeID(s.snap.RootTaskIDs, id)
	}

	// Link into the new one.
	t.ParentID = newParentID
	if newParentID != "" {
		newParent := s.snap.Tasks[newParentID]
		newParent.ChildTaskIDs = append(newParent.ChildTaskIDs, id)
	} else {
		s.snap.RootTaskIDs = append(s.snap.RootTaskIDs, id)
	}

	return s.Save()
}

// DeleteTask removes a task and its whole subtree.
func (s *Store) DeleteTask(id task.ID) error {
	t, ok := s.snap.Tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}

	for _, descendantID := range s.snap.Descendants(id) {
		delete(s.snap.Tasks, descendantID)
	}
	delete(s.snap.Tasks, id)

	if t.ParentID != "" {
		if parent, ok := s.snap.Tasks[t.ParentID]; ok {
			parent.ChildTaskIDs = removeID(parent.ChildTaskIDs, id)
		}
	} else {
		s.snap.RootTaskIDs = removeID(s.snap.RootTaskIDs, id)
	}

	return s.Save()
}

// CompleteTask marks a task done and attributes effort credits: existing
// credits are decayed to now, the task's increment is added, and the decay
// anchor is reset. Routine tasks also record the completed cycle.
func (s *Store) CompleteTask(id task.ID, now time.Time) (*task.Task, error) {
	t, ok := s.snap.Tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}

	increment := t.CreditIncrement
	if increment == 0 {
		increment = task.DefaultCreditIncrement
	}

	t.Credits = engine.DecayCredits(t.Credits, t.CreditsTimestamp, now) + increment
	t.CreditsTimestamp = now
	t.Status = task.StatusDone
	t.IsAcknowledged = false
	completedAt := now
	t.LastCompletedAt = &completedAt

	if err := s.Save(); err != nil {
		return nil, err
	}
	return t, nil
}

// AcknowledgeAll marks every done task as seen, removing them from the
// do-list until they next wake or reopen.
func (s *Store) AcknowledgeAll() (int, error) {
	count := 0
	for _, t := range s.snap.Tasks {
		if t.Status == task.StatusDone && !t.IsAcknowledged {
			t.IsAcknowledged = true
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return count, s.Save()
}

// WakeRoutines resets done routine tasks whose next cycle's lead-time
// window has arrived: status back to pending, unacknowledged, the explicit
// due date cleared so the engine derives it from the completed cycle.
func (s *Store) WakeRoutines(now time.Time) ([]task.ID, error) {
	var woken []task.ID
	for _, t := range s.snap.Tasks {
		if t.Status != task.StatusDone || t.Schedule.Type != task.ScheduleRoutinely || t.Repeat == nil {
			continue
		}

		var lastCompleted time.Time
		if t.LastCompletedAt != nil {
			lastCompleted = *t.LastCompletedAt
		}

		nextDue := lastCompleted.Add(t.Repeat.Duration())
		wakeAt := nextDue.Add(-t.Schedule.LeadTime)
		if now.Before(wakeAt) {
			continue
		}

		t.Status = task.StatusPending
		t.IsAcknowledged = false
		lastDone := lastCompleted
		t.Schedule.LastDone = &lastDone
		t.Schedule.DueDate = nil
		woken = append(woken, t.ID)
	}

	if len(woken) == 0 {
		return nil, nil
	}
	sortIDs(woken)
	return woken, s.Save()
}

// SetDesiredCredits adjusts one task's desired share and rebalances its
// sibling set through the credit redistributor, persisting every resulting
// share as a single atomic write.
func (s *Store) SetDesiredCredits(id task.ID, newValue float64) ([]balance.Share, error) {
	if _, ok := s.snap.Tasks[id]; !ok {
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}

	siblingIDs := s.snap.Siblings(id)
	siblings := make([]balance.Share, 0, len(siblingIDs))
	for _, siblingID := range siblingIDs {
		sibling, ok := s.snap.Tasks[siblingID]
		if !ok {
			continue
		}
		siblings = append(siblings, balance.Share{ID: siblingID, DesiredCredits: sibling.DesiredCredits})
	}

	shares, err := balance.Distribute(id, newValue, siblings)
	if err != nil {
		return nil, err
	}

	for _, share := range shares {
		if t, ok := s.snap.Tasks[share.ID]; ok {
			t.DesiredCredits = share.DesiredCredits
		}
	}

	if err := s.Save(); err != nil {
		return nil, err
	}
	return shares, nil
}

// CreatePlace adds a place and persists.
func (s *Store) CreatePlace(name string, hours task.OpenHours, included []task.PlaceID) (*task.Place, error) {
	if name == "" {
		return nil, fmt.Errorf("place name is required")
	}
	if len(name) > task.MaxPlaceNameLength {
		return nil, fmt.Errorf("place name exceeds maximum length: %d > %d", len(name), task.MaxPlaceNameLength)
	}

	p := &task.Place{
		ID:             task.PlaceID(ids.Generate(name, ids.DefaultLength)),
		Name:           name,
		Hours:          hours,
		IncludedPlaces: included,
	}
	s.snap.Places[p.ID] = p

	if err := s.Save(); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlace replaces a place's hours and containment set.
func (s *Store) UpdatePlace(id task.PlaceID, hours task.OpenHours, included []task.PlaceID) (*task.Place, error) {
	p, ok := s.snap.Places[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", task.ErrPlaceNotFound, id)
	}

	p.Hours = hours
	p.IncludedPlaces = included

	if err := s.Save(); err != nil {
		return nil, err
	}
	return p, nil
}

func removeID(list []task.ID, id task.ID) []task.ID {
	result := list[:0]
	for _, candidate := range list {
		if candidate != id {
			result = append(result, candidate)
		}
	}
	return result
}
