package task

import (
	"reflect"
	"testing"
	"time"
)

func TestClone_DeepCopies(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSnapshot()
	s.Tasks["a"] = &Task{
		ID:           "a",
		Title:        "parent",
		Status:       StatusPending,
		ChildTaskIDs: []ID{"b"},
		Schedule:     Schedule{Type: ScheduleDueDate, DueDate: &due},
		Repeat:       &RepeatConfig{Frequency: FrequencyDaily, Interval: 2},
	}
	s.Tasks["b"] = &Task{ID: "b", Title: "child", Status: StatusPending, ParentID: "a"}
	s.RootTaskIDs = []ID{"a"}
	s.Places["home"] = &Place{
		ID:   "home",
		Name: "Home",
		Hours: OpenHours{
			Mode:     HoursCustom,
			Schedule: map[string][]string{"Mon": {"09:00-17:00"}},
		},
		IncludedPlaces: []PlaceID{"desk"},
	}

	clone := s.Clone()

	clone.Tasks["a"].Title = "changed"
	clone.Tasks["a"].ChildTaskIDs[0] = "z"
	*clone.Tasks["a"].Schedule.DueDate = due.Add(time.Hour)
	clone.Tasks["a"].Repeat.Interval = 9
	clone.RootTaskIDs[0] = "z"
	clone.Places["home"].Hours.Schedule["Mon"][0] = "00:00-00:01"
	clone.Places["home"].IncludedPlaces[0] = "garage"

	if s.Tasks["a"].Title != "parent" {
		t.Error("clone mutation leaked into original title")
	}
	if s.Tasks["a"].ChildTaskIDs[0] != "b" {
		t.Error("clone mutation leaked into original child list")
	}
	if !s.Tasks["a"].Schedule.DueDate.Equal(due) {
		t.Error("clone mutation leaked into original due date")
	}
	if s.Tasks["a"].Repeat.Interval != 2 {
		t.Error("clone mutation leaked into original repeat config")
	}
	if s.RootTaskIDs[0] != "a" {
		t.Error("clone mutation leaked into original root list")
	}
	if s.Places["home"].Hours.Schedule["Mon"][0] != "09:00-17:00" {
		t.Error("clone mutation leaked into original place schedule")
	}
	if s.Places["home"].IncludedPlaces[0] != "desk" {
		t.Error("clone mutation leaked into original place includes")
	}
}

func TestHeal_CleanSnapshotUntouched(t *testing.T) {
	s := chainSnapshot(3)
	report := s.Heal()
	if !report.Empty() {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if !reflect.DeepEqual(s.RootTaskIDs, []ID{"t0"}) {
		t.Errorf("roots changed: %v", s.RootTaskIDs)
	}
}

func TestHeal_DropsDanglingRefs(t *testing.T) {
	s := NewSnapshot()
	s.Tasks["a"] = &Task{ID: "a", Title: "a", Status: StatusPending, ChildTaskIDs: []ID{"gone", "b"}}
	s.Tasks["b"] = &Task{ID: "b", Title: "b", Status: StatusPending, ParentID: "a"}
	s.RootTaskIDs = []ID{"a", "ghost"}

	report := s.Heal()

	if !reflect.DeepEqual(report.DroppedRootRefs, []ID{"ghost"}) {
		t.Errorf("dropped roots = %v", report.DroppedRootRefs)
	}
	if !reflect.DeepEqual(report.DroppedChildRefs, []ID{"gone"}) {
		t.Errorf("dropped children = %v", report.DroppedChildRefs)
	}
	if !reflect.DeepEqual(s.RootTaskIDs, []ID{"a"}) {
		t.Errorf("roots = %v", s.RootTaskIDs)
	}
	if !reflect.DeepEqual(s.Tasks["a"].ChildTaskIDs, []ID{"b"}) {
		t.Errorf("children = %v", s.Tasks["a"].ChildTaskIDs)
	}
}

func TestHeal_RelinksParents(t *testing.T) {
	s := NewSnapshot()
	s.Tasks["a"] = &Task{ID: "a", Title: "a", Status: StatusPending, ChildTaskIDs: []ID{"b"}}
	// b claims the wrong parent; the child lists win.
	s.Tasks["b"] = &Task{ID: "b", Title: "b", Status: StatusPending, ParentID: "c"}
	s.Tasks["c"] = &Task{ID: "c", Title: "c", Status: StatusPending}
	s.RootTaskIDs = []ID{"a", "c"}

	report := s.Heal()

	if !reflect.DeepEqual(report.RelinkedParents, []ID{"b"}) {
		t.Errorf("relinked = %v", report.RelinkedParents)
	}
	if s.Tasks["b"].ParentID != "a" {
		t.Errorf("b.ParentID = %q, want a", s.Tasks["b"].ParentID)
	}
}

func TestHeal_AdoptsOrphansSorted(t *testing.T) {
	s := NewSnapshot()
	s.Tasks["root"] = &Task{ID: "root", Title: "root", Status: StatusPending}
	s.Tasks["zz"] = &Task{ID: "zz", Title: "zz", Status: StatusPending}
	s.Tasks["aa"] = &Task{ID: "aa", Title: "aa", Status: StatusPending}
	s.RootTaskIDs = []ID{"root"}

	report := s.Heal()

	if !reflect.DeepEqual(report.AdoptedOrphans, []ID{"aa", "zz"}) {
		t.Errorf("adopted = %v", report.AdoptedOrphans)
	}
	if !reflect.DeepEqual(s.RootTaskIDs, []ID{"root", "aa", "zz"}) {
		t.Errorf("roots = %v", s.RootTaskIDs)
	}
}
