package balance

import (
	"testing"

	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/task"
)

func pendingLeaf(id, parent task.ID) *task.Task {
	return &task.Task{
		ID:             id,
		Title:          string(id),
		ParentID:       parent,
		Status:         task.StatusPending,
		Importance:     task.DefaultImportance,
		DesiredCredits: task.DefaultDesiredCredits,
		Schedule:       task.Schedule{Type: task.ScheduleOnce, LeadTime: task.DefaultLeadTime},
	}
}

// A committed redistribution is observable in the very next ranking: the
// goal whose desired share was raised surfaces its leaf above the goals
// holding the recent effort.
func TestDistribute_ShiftsNextRanking(t *testing.T) {
	goalA := goal("goal-a", 1, 2)
	goalB := goal("goal-b", 1, 0.5)
	goalC := goal("goal-c", 1, 0.5)
	goalA.ChildTaskIDs = []task.ID{"leaf-a"}
	goalB.ChildTaskIDs = []task.ID{"leaf-b"}
	goalC.ChildTaskIDs = []task.ID{"leaf-c"}

	snap := goalSnapshot(goalA, goalB, goalC)
	snap.Tasks["leaf-a"] = pendingLeaf("leaf-a", "goal-a")
	snap.Tasks["leaf-b"] = pendingLeaf("leaf-b", "goal-b")
	snap.Tasks["leaf-c"] = pendingLeaf("leaf-c", "goal-c")

	opts := engine.Options{Context: task.Context{Now: projectNow}}

	before := engine.Prioritize(snap, task.ViewFilter{}, opts)
	assertRanking(t, before, "leaf-b", "leaf-c", "leaf-a")

	shares, err := Distribute("goal-a", 2.94, []Share{
		{ID: "goal-a", DesiredCredits: 1},
		{ID: "goal-b", DesiredCredits: 1},
		{ID: "goal-c", DesiredCredits: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, share := range shares {
		snap.Tasks[share.ID].DesiredCredits = share.DesiredCredits
	}

	after := engine.Prioritize(snap, task.ViewFilter{}, opts)
	assertRanking(t, after, "leaf-a", "leaf-b", "leaf-c")
}

func assertRanking(t *testing.T, got []engine.ComputedTask, want ...task.ID) {
	t.Helper()
	if len(got) != len(want) {
		ids := make([]task.ID, len(got))
		for i, ct := range got {
			ids[i] = ct.ID
		}
		t.Fatalf("ranking = %v, want %v", ids, want)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("ranking[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}
