package main

import (
	"fmt"
	"time"

	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/internal/ui"
	"github.com/tasklens/tasklens/task"
)

// printTaskOutline renders the task forest with ASCII art, in document
// order.
func printTaskOutline(snap *task.Snapshot, computed []engine.ComputedTask, now time.Time) {
	byID := make(map[task.ID]engine.ComputedTask, len(computed))
	for _, ct := range computed {
		byID[ct.ID] = ct
	}

	highlight := taskHighlighter(snap)
	for _, rootID := range snap.RootTaskIDs {
		printOutlineNode(snap, byID, rootID, "", true, highlight, now)
	}
}

func printOutlineNode(snap *task.Snapshot, byID map[task.ID]engine.ComputedTask, id task.ID, prefix string, isLast bool, highlight func(string) string, now time.Time) {
	t, ok := snap.Tasks[id]
	if !ok {
		return
	}

	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if prefix == "" {
		connector = ""
	}

	annotation := ""
	if ct, ok := byID[id]; ok && ct.EffectiveDueDate != nil && t.Status != task.StatusDone {
		annotation = fmt.Sprintf(" [%s]", ui.FormatTimeUntil(*ct.EffectiveDueDate, now))
	}

	fmt.Printf("%s%s%s %s%s (%s)\n",
		prefix, connector, outlineStatusIcon(t), t.Title, annotation, highlight(string(id)))

	childPrefix := prefix
	if prefix != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	} else {
		childPrefix = "    "
		if !isLast {
			childPrefix = "│   "
		}
	}

	for i, childID := range t.ChildTaskIDs {
		printOutlineNode(snap, byID, childID, childPrefix, i == len(t.ChildTaskIDs)-1, highlight, now)
	}
}

func outlineStatusIcon(t *task.Task) string {
	switch {
	case t.Status == task.StatusDone:
		return "[x]"
	case t.IsSequential:
		return "[>]"
	default:
		return "[ ]"
	}
}
