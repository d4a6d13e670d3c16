package task

import (
	"errors"
	"fmt"

	internalstrings "github.com/tasklens/tasklens/internal/strings"
)

const (
	// MaxTitleLength is the longest allowed task title.
	MaxTitleLength = 500

	// MaxNotesLength is the longest allowed task notes body.
	MaxNotesLength = 50_000

	// MaxPlaceNameLength is the longest allowed place name.
	MaxPlaceNameLength = 100

	// MaxDepth is the deepest allowed task nesting, enforced at the
	// mutation boundary before any write.
	MaxDepth = 20
)

var (
	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrNotesTooLong is returned when task notes exceed MaxNotesLength.
	ErrNotesTooLong = errors.New("notes exceed maximum length")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidImportance is returned when importance is outside [0,1].
	ErrInvalidImportance = errors.New("importance must be between 0 and 1")

	// ErrInvalidScheduleType is returned when an invalid schedule type is provided.
	ErrInvalidScheduleType = errors.New("invalid schedule type")

	// ErrMissingRepeatConfig is returned when a routine task has no repeat config.
	ErrMissingRepeatConfig = errors.New("routine task requires a repeat config")

	// ErrInvalidFrequency is returned when an invalid repeat frequency is provided.
	ErrInvalidFrequency = errors.New("invalid repeat frequency")

	// ErrInvalidInterval is returned when a repeat interval is not positive.
	ErrInvalidInterval = errors.New("repeat interval must be positive")

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrPlaceNotFound is returned when a place with the given ID doesn't exist.
	ErrPlaceNotFound = errors.New("place not found")

	// ErrAmbiguousIDPrefix is returned when an ID prefix matches more
	// than one task or place.
	ErrAmbiguousIDPrefix = errors.New("ambiguous ID prefix")

	// ErrDepthLimit is a structural violation: the mutation would nest a
	// task past MaxDepth.
	ErrDepthLimit = errors.New("task depth limit exceeded")

	// ErrMoveIntoDescendant is a structural violation: the mutation
	// would move a task into its own subtree.
	ErrMoveIntoDescendant = errors.New("cannot move task into its own descendant")

	// ErrMoveIntoSelf is a structural violation: the mutation would make
	// a task its own parent.
	ErrMoveIntoSelf = errors.New("cannot move task into itself")
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if internalstrings.IsBlank(title) {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidateImportance checks if the importance weight is valid.
func ValidateImportance(importance float64) error {
	if importance < 0 || importance > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidImportance, importance)
	}
	return nil
}

// Validate checks if a task struct is internally valid.
func (t *Task) Validate() error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if len(t.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: %d > %d", ErrNotesTooLong, len(t.Notes), MaxNotesLength)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if err := ValidateImportance(t.Importance); err != nil {
		return err
	}
	if !t.Schedule.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidScheduleType, t.Schedule.Type)
	}
	if t.Schedule.Type == ScheduleRoutinely {
		if t.Repeat == nil {
			return ErrMissingRepeatConfig
		}
		if !t.Repeat.Frequency.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidFrequency, t.Repeat.Frequency)
		}
		if t.Repeat.Interval <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidInterval, t.Repeat.Interval)
		}
	}
	return nil
}

// Depth returns how many ancestors the task has; roots have depth 0.
// Lookup misses terminate the walk, tolerating partially healed trees.
func (s *Snapshot) Depth(id ID) int {
	depth := 0
	current, ok := s.Tasks[id]
	for ok && current.ParentID != "" {
		depth++
		if depth > len(s.Tasks) {
			// Cycle guard; validated trees never hit this.
			break
		}
		current, ok = s.Tasks[current.ParentID]
	}
	return depth
}

// SubtreeHeight returns the height of the subtree rooted at id, where a
// leaf has height 1.
func (s *Snapshot) SubtreeHeight(id ID) int {
	t, ok := s.Tasks[id]
	if !ok {
		return 0
	}
	height := 0
	for _, childID := range t.ChildTaskIDs {
		if childHeight := s.SubtreeHeight(childID); childHeight > height {
			height = childHeight
		}
	}
	return height + 1
}

// ValidateCreate checks that creating a child under parentID would not
// violate structural invariants. An empty parentID creates a root.
func (s *Snapshot) ValidateCreate(parentID ID) error {
	if parentID == "" {
		return nil
	}
	if _, ok := s.Tasks[parentID]; !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, parentID)
	}
	if s.Depth(parentID)+1 >= MaxDepth {
		return fmt.Errorf("%w: parent %s is at depth %d", ErrDepthLimit, parentID, s.Depth(parentID))
	}
	return nil
}

// ValidateMove checks that moving id under newParentID would keep the tree
// acyclic and within the depth limit. An empty newParentID moves the task
// to the root level. Raised synchronously before any write; the failing
// operation is never partially applied.
func (s *Snapshot) ValidateMove(id, newParentID ID) error {
	if _, ok := s.Tasks[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if newParentID == "" {
		return nil
	}
	if _, ok := s.Tasks[newParentID]; !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, newParentID)
	}
	if id == newParentID {
		return fmt.Errorf("%w: %s", ErrMoveIntoSelf, id)
	}
	if s.isDescendant(newParentID, id) {
		return fmt.Errorf("%w: %s is under %s", ErrMoveIntoDescendant, newParentID, id)
	}
	if s.Depth(newParentID)+s.SubtreeHeight(id) > MaxDepth {
		return fmt.Errorf("%w: move would nest past depth %d", ErrDepthLimit, MaxDepth)
	}
	return nil
}

// isDescendant reports whether candidate is inside the subtree rooted at
// ancestor.
func (s *Snapshot) isDescendant(candidate, ancestor ID) bool {
	for _, id := range s.Descendants(ancestor) {
		if id == candidate {
			return true
		}
	}
	return false
}
