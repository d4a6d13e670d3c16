package task

import (
	"testing"
	"time"
)

func TestIsPending(t *testing.T) {
	cases := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "pending once task",
			task: Task{Status: StatusPending, Schedule: Schedule{Type: ScheduleOnce}},
			want: true,
		},
		{
			name: "done once task",
			task: Task{Status: StatusDone, Schedule: Schedule{Type: ScheduleOnce}},
			want: false,
		},
		{
			name: "done routine task still demands work",
			task: Task{Status: StatusDone, Schedule: Schedule{Type: ScheduleRoutinely}},
			want: true,
		},
		{
			name: "done calendar task still demands work",
			task: Task{Status: StatusDone, Schedule: Schedule{Type: ScheduleCalendar}},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.task.IsPending(); got != tc.want {
				t.Fatalf("expected %t, got %t", tc.want, got)
			}
		})
	}
}

func TestEffectiveDueDate_Routine(t *testing.T) {
	lastDone := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	explicit := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	routine := Task{
		Schedule: Schedule{Type: ScheduleRoutinely, LastDone: &lastDone, DueDate: &explicit},
		Repeat:   &RepeatConfig{Frequency: FrequencyDaily, Interval: 2},
	}

	due := routine.EffectiveDueDate()
	if due == nil {
		t.Fatal("expected derived due date")
	}
	want := lastDone.Add(48 * time.Hour)
	if !due.Equal(want) {
		t.Fatalf("expected %s, got %s", want, due)
	}
}

func TestEffectiveDueDate_RoutineWithoutHistory(t *testing.T) {
	explicit := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	routine := Task{
		Schedule: Schedule{Type: ScheduleRoutinely, DueDate: &explicit},
		Repeat:   &RepeatConfig{Frequency: FrequencyDaily, Interval: 1},
	}

	due := routine.EffectiveDueDate()
	if due == nil || !due.Equal(explicit) {
		t.Fatalf("expected explicit due date fallback, got %v", due)
	}
}

func TestFrequencyInterval(t *testing.T) {
	cases := map[Frequency]time.Duration{
		FrequencyDaily:   24 * time.Hour,
		FrequencyWeekly:  7 * 24 * time.Hour,
		FrequencyMonthly: 30 * 24 * time.Hour,
		FrequencyYearly:  365 * 24 * time.Hour,
	}
	for frequency, want := range cases {
		if got := frequency.Interval(); got != want {
			t.Errorf("%s interval = %s, expected %s", frequency, got, want)
		}
	}
}

func TestNew_InheritsFromParent(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	parent := New("parent01", "Parent", nil, now)
	parent.PlaceID = "home"
	parent.CreditIncrement = 0.25

	child := New("child001", "Child", parent, now)

	if child.ParentID != parent.ID {
		t.Errorf("expected parent ID %s, got %s", parent.ID, child.ParentID)
	}
	if child.PlaceID != "home" {
		t.Errorf("expected inherited place, got %s", child.PlaceID)
	}
	if child.CreditIncrement != 0.25 {
		t.Errorf("expected inherited credit increment, got %v", child.CreditIncrement)
	}
	if child.Importance != DefaultImportance {
		t.Errorf("expected default importance, got %v", child.Importance)
	}
	if child.DesiredCredits != DefaultDesiredCredits {
		t.Errorf("expected default desired credits, got %v", child.DesiredCredits)
	}
}

func TestViewFilterIsAll(t *testing.T) {
	if !(ViewFilter{}).IsAll() {
		t.Error("expected zero filter to match all")
	}
	if !(ViewFilter{PlaceID: FilterAll}).IsAll() {
		t.Error("expected All filter to match all")
	}
	if (ViewFilter{PlaceID: "home"}).IsAll() {
		t.Error("expected place filter not to match all")
	}
}
