package task

import (
	"strconv"
	"strings"
	"time"
)

// AnywherePlaceID is the sentinel place that is always open and matches
// every filter.
const AnywherePlaceID PlaceID = "anywhere"

// HoursMode determines how a place's open hours are evaluated.
type HoursMode string

const (
	// HoursAlwaysOpen means the place is open at all times.
	HoursAlwaysOpen HoursMode = "always_open"

	// HoursAlwaysClosed means the place is never open.
	HoursAlwaysClosed HoursMode = "always_closed"

	// HoursCustom uses a weekly schedule of "HH:MM-HH:MM" ranges.
	HoursCustom HoursMode = "custom"
)

// OpenHours describes when a place is open.
type OpenHours struct {
	Mode HoursMode `yaml:"mode"`

	// Schedule maps UTC weekday abbreviations (Mon..Sun) to time ranges
	// formatted as "HH:MM-HH:MM". Only consulted in HoursCustom mode.
	Schedule map[string][]string `yaml:"schedule,omitempty"`
}

// Place is a named physical context with open hours and single-hop
// containment of other places.
type Place struct {
	ID    PlaceID   `yaml:"id"`
	Name  string    `yaml:"name"`
	Hours OpenHours `yaml:"hours"`

	// IncludedPlaces are places subsumed by this one. Containment does
	// not resolve transitively.
	IncludedPlaces []PlaceID `yaml:"included_places,omitempty"`
}

// Includes reports whether the place directly contains the given place.
func (p *Place) Includes(id PlaceID) bool {
	for _, included := range p.IncludedPlaces {
		if included == id {
			return true
		}
	}
	return false
}

// OpenAt reports whether the place is open at the given UTC instant.
// Missing or unparseable schedule entries count as closed.
func (p *Place) OpenAt(now time.Time) bool {
	switch p.Hours.Mode {
	case HoursAlwaysOpen:
		return true
	case HoursAlwaysClosed:
		return false
	case HoursCustom:
		return scheduleOpenAt(p.Hours.Schedule, now.UTC())
	default:
		return false
	}
}

func scheduleOpenAt(schedule map[string][]string, now time.Time) bool {
	if schedule == nil {
		return false
	}

	day := now.Weekday().String()[:3]
	currentMinutes := now.Hour()*60 + now.Minute()

	for _, timeRange := range schedule[day] {
		start, end, ok := parseTimeRange(timeRange)
		if !ok {
			continue
		}
		if currentMinutes >= start && currentMinutes < end {
			return true
		}
	}
	return false
}

// parseTimeRange parses "HH:MM-HH:MM" into minutes since midnight.
func parseTimeRange(timeRange string) (start, end int, ok bool) {
	parts := strings.Split(timeRange, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	start, ok = parseMinutes(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseMinutes(parts[1])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func parseMinutes(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}
