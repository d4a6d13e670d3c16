package store

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/task"
)

func mustCreate(t *testing.T, s *Store, title string, opts CreateOptions) *task.Task {
	t.Helper()
	created, err := s.CreateTask(title, opts, storeNow)
	if err != nil {
		t.Fatal(err)
	}
	return created
}

func TestCreateTask_Defaults(t *testing.T) {
	s := openEmpty(t)
	created := mustCreate(t, s, "first", CreateOptions{})

	if created.Status != task.StatusPending {
		t.Errorf("status = %s", created.Status)
	}
	if created.Importance != task.DefaultImportance {
		t.Errorf("importance = %g", created.Importance)
	}
	if created.DesiredCredits != task.DefaultDesiredCredits {
		t.Errorf("desired credits = %g", created.DesiredCredits)
	}
	if created.Schedule.Type != task.ScheduleOnce || created.Schedule.LeadTime != task.DefaultLeadTime {
		t.Errorf("schedule = %+v", created.Schedule)
	}
}

func TestCreateTask_ChildInherits(t *testing.T) {
	s := openEmpty(t)
	parent := mustCreate(t, s, "parent", CreateOptions{PlaceID: "home"})
	child := mustCreate(t, s, "child", CreateOptions{ParentID: parent.ID})

	if child.ParentID != parent.ID {
		t.Errorf("child parent = %s", child.ParentID)
	}
	if child.PlaceID != "home" {
		t.Errorf("child place = %q, want inherited home", child.PlaceID)
	}

	snap := s.Snapshot()
	if len(snap.Tasks[parent.ID].ChildTaskIDs) != 1 || snap.Tasks[parent.ID].ChildTaskIDs[0] != child.ID {
		t.Errorf("parent children = %v", snap.Tasks[parent.ID].ChildTaskIDs)
	}
}

func TestCreateTask_Rejections(t *testing.T) {
	s := openEmpty(t)

	if _, err := s.CreateTask("", CreateOptions{}, storeNow); !errors.Is(err, task.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := s.CreateTask("x", CreateOptions{ParentID: "missing"}, storeNow); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}

	bad := -0.5
	if _, err := s.CreateTask("x", CreateOptions{Importance: &bad}, storeNow); !errors.Is(err, task.ErrInvalidImportance) {
		t.Errorf("expected ErrInvalidImportance, got %v", err)
	}

	// Routine schedule without a repeat config never reaches disk.
	if _, err := s.CreateTask("x", CreateOptions{
		Schedule: &task.Schedule{Type: task.ScheduleRoutinely, LeadTime: time.Hour},
	}, storeNow); !errors.Is(err, task.ErrMissingRepeatConfig) {
		t.Errorf("expected ErrMissingRepeatConfig, got %v", err)
	}

	if snap := s.Snapshot(); len(snap.Tasks) != 0 {
		t.Errorf("rejected creates left %d tasks behind", len(snap.Tasks))
	}
}

func TestCreateTask_DepthLimit(t *testing.T) {
	s := openEmpty(t)
	parentID := task.ID("")
	for i := 0; i < task.MaxDepth; i++ {
		created, err := s.CreateTask("level", CreateOptions{ParentID: parentID}, storeNow.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatal(err)
		}
		parentID = created.ID
	}

	if _, err := s.CreateTask("too deep", CreateOptions{ParentID: parentID}, storeNow); !errors.Is(err, task.ErrDepthLimit) {
		t.Fatalf("expected ErrDepthLimit, got %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	s := openEmpty(t)
	created := mustCreate(t, s, "old title", CreateOptions{})

	newTitle := "new title"
	newImportance := 0.9
	sequential := true
	updated, err := s.UpdateTask(created.ID, UpdateOptions{
		Title:        &newTitle,
		Importance:   &newImportance,
		IsSequential: &sequential,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "new title" || updated.Importance != 0.9 || !updated.IsSequential {
		t.Errorf("updated = %+v", updated)
	}

	// Invalid updates are rejected whole; the stored task is untouched.
	empty := ""
	if _, err := s.UpdateTask(created.ID, UpdateOptions{Title: &empty, Importance: &newImportance}); !errors.Is(err, task.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if snap := s.Snapshot(); snap.Tasks[created.ID].Title != "new title" {
		t.Error("failed update partially applied")
	}

	if _, err := s.UpdateTask("missing", UpdateOptions{Title: &newTitle}); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestMoveTask(t *testing.T) {
	s := openEmpty(t)
	a := mustCreate(t, s, "a", CreateOptions{})
	b := mustCreate(t, s, "b", CreateOptions{})
	child := mustCreate(t, s, "child", CreateOptions{ParentID: a.ID})

	if err := s.MoveTask(child.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.Tasks[child.ID].ParentID != b.ID {
		t.Errorf("child parent = %s, want %s", snap.Tasks[child.ID].ParentID, b.ID)
	}
	if len(snap.Tasks[a.ID].ChildTaskIDs) != 0 {
		t.Errorf("old parent still lists %v", snap.Tasks[a.ID].ChildTaskIDs)
	}
	if len(snap.Tasks[b.ID].ChildTaskIDs) != 1 {
		t.Errorf("new parent lists %v", snap.Tasks[b.ID].ChildTaskIDs)
	}

	// To root.
	if err := s.MoveTask(child.ID, ""); err != nil {
		t.Fatal(err)
	}
	snap = s.Snapshot()
	if snap.Tasks[child.ID].ParentID != "" {
		t.Error("task not moved to root")
	}
	if snap.RootTaskIDs[len(snap.RootTaskIDs)-1] != child.ID {
		t.Errorf("roots = %v, want child appended", snap.RootTaskIDs)
	}

	// Cycle rejected before any write.
	if err := s.MoveTask(a.ID, a.ID); !errors.Is(err, task.ErrMoveIntoSelf) {
		t.Errorf("expected ErrMoveIntoSelf, got %v", err)
	}
	grand := mustCreate(t, s, "grand", CreateOptions{ParentID: child.ID})
	if err := s.MoveTask(child.ID, grand.ID); !errors.Is(err, task.ErrMoveIntoDescendant) {
		t.Errorf("expected ErrMoveIntoDescendant, got %v", err)
	}
}

func TestDeleteTask_RemovesSubtree(t *testing.T) {
	s := openEmpty(t)
	root := mustCreate(t, s, "root", CreateOptions{})
	child := mustCreate(t, s, "child", CreateOptions{ParentID: root.ID})
	grand := mustCreate(t, s, "grand", CreateOptions{ParentID: child.ID})
	keep := mustCreate(t, s, "keep", CreateOptions{})

	if err := s.DeleteTask(child.ID); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	for _, gone := range []task.ID{child.ID, grand.ID} {
		if _, ok := snap.Tasks[gone]; ok {
			t.Errorf("task %s survived subtree delete", gone)
		}
	}
	if _, ok := snap.Tasks[keep.ID]; !ok {
		t.Error("unrelated task deleted")
	}
	if len(snap.Tasks[root.ID].ChildTaskIDs) != 0 {
		t.Errorf("root still lists %v", snap.Tasks[root.ID].ChildTaskIDs)
	}

	if err := s.DeleteTask("missing"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestCompleteTask_CreditMath(t *testing.T) {
	s := openEmpty(t)
	created := mustCreate(t, s, "exercise", CreateOptions{})

	first, err := s.CompleteTask(created.ID, storeNow)
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != task.StatusDone || first.IsAcknowledged {
		t.Errorf("completed = %s acked=%t", first.Status, first.IsAcknowledged)
	}
	if math.Abs(first.Credits-task.DefaultCreditIncrement) > 1e-9 {
		t.Errorf("credits = %g, want one increment", first.Credits)
	}
	if first.LastCompletedAt == nil || !first.LastCompletedAt.Equal(storeNow) {
		t.Errorf("last completed = %v", first.LastCompletedAt)
	}

	// A second completion one half-life later decays the old credits
	// before adding the new increment.
	later := storeNow.Add(engine.CreditsHalfLife)
	second, err := s.CompleteTask(created.ID, later)
	if err != nil {
		t.Fatal(err)
	}
	want := task.DefaultCreditIncrement/2 + task.DefaultCreditIncrement
	if math.Abs(second.Credits-want) > 1e-9 {
		t.Errorf("credits = %g, want %g", second.Credits, want)
	}
	if !second.CreditsTimestamp.Equal(later) {
		t.Errorf("decay anchor = %v, want %v", second.CreditsTimestamp, later)
	}
}

func TestAcknowledgeAll(t *testing.T) {
	s := openEmpty(t)
	done := mustCreate(t, s, "done", CreateOptions{})
	if _, err := s.CompleteTask(done.ID, storeNow); err != nil {
		t.Fatal(err)
	}
	mustCreate(t, s, "open", CreateOptions{})

	count, err := s.AcknowledgeAll()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("acknowledged %d, want 1", count)
	}
	if snap := s.Snapshot(); !snap.Tasks[done.ID].IsAcknowledged {
		t.Error("done task not acknowledged")
	}

	// Idempotent: nothing left to acknowledge.
	count, err = s.AcknowledgeAll()
	if err != nil || count != 0 {
		t.Errorf("second pass = %d, %v", count, err)
	}
}

func TestWakeRoutines(t *testing.T) {
	s := openEmpty(t)
	routine := mustCreate(t, s, "water plants", CreateOptions{
		Schedule: &task.Schedule{Type: task.ScheduleRoutinely, LeadTime: 2 * time.Hour},
		Repeat:   &task.RepeatConfig{Frequency: task.FrequencyDaily, Interval: 1},
	})
	if _, err := s.CompleteTask(routine.ID, storeNow); err != nil {
		t.Fatal(err)
	}

	// Next cycle is due at +24h; the window opens at +22h.
	woken, err := s.WakeRoutines(storeNow.Add(21 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(woken) != 0 {
		t.Fatalf("woke %v before the window opened", woken)
	}

	woken, err = s.WakeRoutines(storeNow.Add(22 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(woken) != 1 || woken[0] != routine.ID {
		t.Fatalf("woken = %v", woken)
	}

	snap := s.Snapshot()
	got := snap.Tasks[routine.ID]
	if got.Status != task.StatusPending || got.IsAcknowledged {
		t.Errorf("woken task = %s acked=%t", got.Status, got.IsAcknowledged)
	}
	if got.Schedule.LastDone == nil || !got.Schedule.LastDone.Equal(storeNow) {
		t.Errorf("last done = %v, want %v", got.Schedule.LastDone, storeNow)
	}
	if got.Schedule.DueDate != nil {
		t.Error("explicit due date should be cleared on wake")
	}
	wantDue := storeNow.Add(24 * time.Hour)
	if due := got.EffectiveDueDate(); due == nil || !due.Equal(wantDue) {
		t.Errorf("derived due = %v, want %v", due, wantDue)
	}
}

func TestWakeRoutines_SkipsNonRoutine(t *testing.T) {
	s := openEmpty(t)
	once := mustCreate(t, s, "once", CreateOptions{})
	if _, err := s.CompleteTask(once.ID, storeNow); err != nil {
		t.Fatal(err)
	}

	woken, err := s.WakeRoutines(storeNow.Add(100 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(woken) != 0 {
		t.Fatalf("woke a one-shot task: %v", woken)
	}
}

func TestSetDesiredCredits(t *testing.T) {
	s := openEmpty(t)
	a := mustCreate(t, s, "a", CreateOptions{})
	b := mustCreate(t, s, "b", CreateOptions{})
	c := mustCreate(t, s, "c", CreateOptions{})

	shares, err := s.SetDesiredCredits(a.ID, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(shares) != 3 {
		t.Fatalf("shares = %v", shares)
	}

	snap := s.Snapshot()
	if math.Abs(snap.Tasks[a.ID].DesiredCredits-2.0) > 1e-9 {
		t.Errorf("a = %g, want 2.0", snap.Tasks[a.ID].DesiredCredits)
	}
	total := snap.Tasks[a.ID].DesiredCredits + snap.Tasks[b.ID].DesiredCredits + snap.Tasks[c.ID].DesiredCredits
	if math.Abs(total-3) > 1e-6 {
		t.Errorf("sum = %g, want 3", total)
	}

	if _, err := s.SetDesiredCredits("missing", 1); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSetDesiredCredits_SiblingSetIsLocal(t *testing.T) {
	s := openEmpty(t)
	parent := mustCreate(t, s, "parent", CreateOptions{})
	x := mustCreate(t, s, "x", CreateOptions{ParentID: parent.ID})
	y := mustCreate(t, s, "y", CreateOptions{ParentID: parent.ID})

	if _, err := s.SetDesiredCredits(x.ID, 1.5); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if math.Abs(snap.Tasks[parent.ID].DesiredCredits-task.DefaultDesiredCredits) > 1e-9 {
		t.Error("rebalancing children touched the parent")
	}
	childSum := snap.Tasks[x.ID].DesiredCredits + snap.Tasks[y.ID].DesiredCredits
	if math.Abs(childSum-2) > 1e-6 {
		t.Errorf("child sum = %g, want 2", childSum)
	}
}

func TestPlaces(t *testing.T) {
	s := openEmpty(t)

	home, err := s.CreatePlace("Home", task.OpenHours{Mode: task.HoursAlwaysOpen}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if home.ID == "" || home.Name != "Home" {
		t.Fatalf("place = %+v", home)
	}

	updated, err := s.UpdatePlace(home.ID, task.OpenHours{
		Mode:     task.HoursCustom,
		Schedule: map[string][]string{"Sat": {"10:00-14:00"}},
	}, []task.PlaceID{"garage"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Hours.Mode != task.HoursCustom || len(updated.IncludedPlaces) != 1 {
		t.Errorf("updated place = %+v", updated)
	}

	if _, err := s.CreatePlace("", task.OpenHours{Mode: task.HoursAlwaysOpen}, nil); err == nil {
		t.Error("empty place name accepted")
	}
	if _, err := s.UpdatePlace("missing", task.OpenHours{Mode: task.HoursAlwaysOpen}, nil); !errors.Is(err, task.ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
}
