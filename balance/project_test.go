package balance

import (
	"math"
	"testing"
	"time"

	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/task"
)

var projectNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func goal(id task.ID, desired, credits float64) *task.Task {
	return &task.Task{
		ID:               id,
		Title:            string(id),
		Status:           task.StatusPending,
		Importance:       task.DefaultImportance,
		DesiredCredits:   desired,
		Credits:          credits,
		CreditsTimestamp: projectNow,
	}
}

func goalSnapshot(goals ...*task.Task) *task.Snapshot {
	s := task.NewSnapshot()
	for _, g := range goals {
		s.Tasks[g.ID] = g
		s.RootTaskIDs = append(s.RootTaskIDs, g.ID)
	}
	return s
}

func TestProject_Shares(t *testing.T) {
	snap := goalSnapshot(
		goal("work", 2, 3),
		goal("health", 1, 1),
		goal("fun", 1, 0),
	)

	data := Project(snap, projectNow)

	if len(data.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(data.Items))
	}
	if math.Abs(data.TotalCredits-4) > 1e-9 {
		t.Errorf("total credits = %g, want 4", data.TotalCredits)
	}

	byID := make(map[task.ID]Item)
	for _, item := range data.Items {
		byID[item.ID] = item
	}

	work := byID["work"]
	if math.Abs(work.TargetPercent-0.5) > 1e-9 || math.Abs(work.ActualPercent-0.75) > 1e-9 {
		t.Errorf("work = target %g actual %g, want 0.5 / 0.75", work.TargetPercent, work.ActualPercent)
	}
	if work.IsStarving {
		t.Error("over-served goal flagged as starving")
	}

	fun := byID["fun"]
	if !fun.IsStarving {
		t.Error("goal with zero effort and positive target should be starving")
	}
}

func TestProject_AggregatesSubtreeCredits(t *testing.T) {
	root := goal("root", 1, 1)
	root.ChildTaskIDs = []task.ID{"child"}
	child := goal("child", 1, 2)
	child.ParentID = "root"

	snap := task.NewSnapshot()
	snap.Tasks["root"] = root
	snap.Tasks["child"] = child
	snap.RootTaskIDs = []task.ID{"root"}

	data := Project(snap, projectNow)
	if len(data.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(data.Items))
	}
	if math.Abs(data.Items[0].EffectiveCredits-3) > 1e-9 {
		t.Errorf("root subtree credits = %g, want 3", data.Items[0].EffectiveCredits)
	}
}

func TestProject_DecaysCredits(t *testing.T) {
	stale := goal("stale", 1, 2)
	stale.CreditsTimestamp = projectNow.Add(-engine.CreditsHalfLife)

	data := Project(goalSnapshot(stale), projectNow)
	if math.Abs(data.Items[0].EffectiveCredits-1) > 1e-9 {
		t.Errorf("decayed credits = %g, want 1", data.Items[0].EffectiveCredits)
	}
}

func TestProject_EmptySnapshot(t *testing.T) {
	data := Project(task.NewSnapshot(), projectNow)
	if len(data.Items) != 0 || data.TotalCredits != 0 {
		t.Errorf("empty snapshot produced %+v", data)
	}
}

func TestProject_BalancedGoalNotStarving(t *testing.T) {
	data := Project(goalSnapshot(goal("a", 1, 1), goal("b", 1, 1)), projectNow)
	for _, item := range data.Items {
		if item.IsStarving {
			t.Errorf("balanced goal %s flagged as starving", item.ID)
		}
	}
}
