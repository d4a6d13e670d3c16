package main

import (
	"testing"

	"github.com/tasklens/tasklens/task"
)

func TestBuildOpenHours_Modes(t *testing.T) {
	hours, err := buildOpenHours(false, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hours.Mode != task.HoursAlwaysOpen {
		t.Errorf("expected always open, got %s", hours.Mode)
	}

	hours, err = buildOpenHours(true, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hours.Mode != task.HoursAlwaysClosed {
		t.Errorf("expected always closed, got %s", hours.Mode)
	}
}

func TestBuildOpenHours_CustomRanges(t *testing.T) {
	hours, err := buildOpenHours(false, false, []string{
		"mon=09:00-17:00",
		"Monday=18:00-20:00",
		"sat=10:00-14:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hours.Mode != task.HoursCustom {
		t.Fatalf("expected custom mode, got %s", hours.Mode)
	}
	if got := len(hours.Schedule["Mon"]); got != 2 {
		t.Errorf("expected 2 Monday ranges, got %d", got)
	}
	if got := len(hours.Schedule["Sat"]); got != 1 {
		t.Errorf("expected 1 Saturday range, got %d", got)
	}
}

func TestBuildOpenHours_InvalidDay(t *testing.T) {
	if _, err := buildOpenHours(false, false, []string{"someday=09:00-17:00"}); err == nil {
		t.Error("expected error for invalid weekday")
	}
	if _, err := buildOpenHours(false, false, []string{"09:00-17:00"}); err == nil {
		t.Error("expected error for missing day separator")
	}
}

func TestFormatHoursSummary(t *testing.T) {
	if got := formatHoursSummary(task.OpenHours{Mode: task.HoursAlwaysOpen}); got != "always open" {
		t.Errorf("expected always open, got %q", got)
	}
	if got := formatHoursSummary(task.OpenHours{Mode: task.HoursAlwaysClosed}); got != "closed" {
		t.Errorf("expected closed, got %q", got)
	}

	custom := task.OpenHours{
		Mode: task.HoursCustom,
		Schedule: map[string][]string{
			"Mon": {"09:00-17:00"},
		},
	}
	if got := formatHoursSummary(custom); got != "Mon 09:00-17:00" {
		t.Errorf("expected Mon summary, got %q", got)
	}
}
