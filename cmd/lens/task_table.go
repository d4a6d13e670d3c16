package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/internal/ui"
)

// printTaskTable prints computed tasks in a table format.
func printTaskTable(tasks []engine.ComputedTask, prefixLengths map[string]int, now time.Time) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	fmt.Print(formatTaskTable(tasks, prefixLengths, ui.HighlightID, now))
}

func formatTaskTable(tasks []engine.ComputedTask, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "STATUS", "URG", "DUE", "TITLE"}, len(tasks))

	for _, ct := range tasks {
		prefixLen := prefixLengths[strings.ToLower(string(ct.ID))]
		row := []string{
			highlight(string(ct.ID), prefixLen),
			string(ct.Status),
			urgencyShort(ct.Urgency),
			formatDueCell(ct, now),
			ui.TruncateTableCell(ct.Title),
		}
		builder.AddRow(row)
	}

	return builder.String()
}

func formatDueCell(ct engine.ComputedTask, now time.Time) string {
	if ct.EffectiveDueDate == nil {
		return "-"
	}
	value := ui.FormatTimeUntil(*ct.EffectiveDueDate, now)
	if ct.ScheduleSource == engine.ScheduleSourceAncestor {
		value += "*"
	}
	return value
}

func urgencyShort(u engine.UrgencyStatus) string {
	switch u {
	case engine.UrgencyOverdue:
		return "OVER"
	case engine.UrgencyUrgent:
		return "URG"
	case engine.UrgencyActive:
		return "act"
	case engine.UrgencyUpcoming:
		return "soon"
	default:
		return "-"
	}
}
