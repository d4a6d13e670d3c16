package main

import (
	"fmt"
	"strings"
	"time"
)

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDueDate accepts an absolute timestamp in a few common layouts, or a
// relative offset from now like "+36h".
func parseDueDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("due date is empty")
	}

	if strings.HasPrefix(value, "+") {
		offset, err := time.ParseDuration(value[1:])
		if err != nil {
			return time.Time{}, fmt.Errorf("parse relative due date %q: %w", value, err)
		}
		return now.Add(offset), nil
	}

	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date format: %q", value)
}
