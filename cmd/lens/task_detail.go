package main

import (
	"fmt"
	"time"

	"github.com/tasklens/tasklens/engine"
	internalstrings "github.com/tasklens/tasklens/internal/strings"
	"github.com/tasklens/tasklens/internal/ui"
	"github.com/tasklens/tasklens/task"
)

const taskDetailLineWidth = 80

// printTaskDetail prints detailed information about one task.
func printTaskDetail(snap *task.Snapshot, ct engine.ComputedTask, highlight func(string) string, now time.Time) {
	fmt.Printf("ID:         %s\n", highlight(string(ct.ID)))
	fmt.Printf("Title:      %s\n", ct.Title)
	fmt.Printf("Status:     %s\n", ct.Status)
	fmt.Printf("Importance: %.2f\n", ct.Importance)
	fmt.Printf("Place:      %s\n", placeName(snap, ct.PlaceID))

	if ct.ParentID != "" {
		fmt.Printf("Parent:     %s\n", highlight(string(ct.ParentID)))
	}
	if ct.IsSequential {
		fmt.Printf("Sequential: yes\n")
	}

	if ct.EffectiveDueDate != nil {
		source := ""
		if ct.ScheduleSource == engine.ScheduleSourceAncestor {
			source = " (inherited)"
		}
		fmt.Printf("Due:        %s, %s%s\n",
			ct.EffectiveDueDate.Format("2006-01-02 15:04"),
			ui.FormatTimeUntil(*ct.EffectiveDueDate, now), source)
		fmt.Printf("Lead time:  %s\n", ui.FormatDurationShort(ct.EffectiveLeadTime))
		fmt.Printf("Urgency:    %s\n", ct.Urgency)
	}

	if ct.Repeat != nil {
		fmt.Printf("Repeats:    every %d %s cycle(s)\n", ct.Repeat.Interval, ct.Repeat.Frequency)
	}
	if ct.LastCompletedAt != nil {
		fmt.Printf("Completed:  %s\n", ui.FormatTimeAgo(*ct.LastCompletedAt, now))
	}

	fmt.Printf("Credits:    %.2f effective (%.2f desired)\n", ct.EffectiveCredits, ct.DesiredCredits)

	if ct.Notes != "" {
		notes := renderMarkdownOrDash(ct.Notes, taskDetailLineWidth)
		fmt.Printf("\nNotes:\n%s\n", internalstrings.IndentBlock(notes, 2))
	}
}

func placeName(snap *task.Snapshot, id task.PlaceID) string {
	if id == "" || id == task.AnywherePlaceID {
		return "anywhere"
	}
	if p, ok := snap.Places[id]; ok {
		return p.Name
	}
	return string(id)
}
