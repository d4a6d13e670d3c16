package engine

import (
	"time"

	"github.com/tasklens/tasklens/task"
)

// resolveVisibility computes each task's contextual visibility: whether its
// effective place is open at the current instant and matches the view
// filter. The computation is purely local and order-independent; container
// delegation happens later in the scoring DFS.
func resolveVisibility(snap *task.Snapshot, tasks []enriched, idx index, filter task.ViewFilter, now time.Time) {
	effectivePlaces := make(map[task.ID]task.PlaceID, len(tasks))
	for i := range tasks {
		effectivePlaces[tasks[i].ID] = effectivePlace(&tasks[i], tasks, idx)
	}

	for i := range tasks {
		placeID := effectivePlaces[tasks[i].ID]
		tasks[i].PlaceID = placeID
		tasks[i].visibility = placeOpen(snap, placeID, now) && placeMatches(snap, placeID, filter)
	}
}

// effectivePlace resolves a task's place: its own, else the nearest
// ancestor's, else Anywhere.
func effectivePlace(t *enriched, tasks []enriched, idx index) task.PlaceID {
	current := t
	for steps := 0; steps <= len(tasks); steps++ {
		if current.PlaceID != "" {
			return current.PlaceID
		}
		parentSlot, ok := idx.lookup[current.ParentID]
		if current.ParentID == "" || !ok {
			break
		}
		current = &tasks[parentSlot]
	}
	return task.AnywherePlaceID
}

// placeOpen reports whether the place is open now. Anywhere is always
// open; an unknown place is closed, fail-safe.
func placeOpen(snap *task.Snapshot, placeID task.PlaceID, now time.Time) bool {
	if placeID == task.AnywherePlaceID {
		return true
	}
	place, ok := snap.Places[placeID]
	if !ok {
		return false
	}
	return place.OpenAt(now)
}

// placeMatches reports whether the task's effective place satisfies the
// view filter: the filter is All, the place is Anywhere, the place equals
// the filter, or the filter's place directly includes it (single hop).
func placeMatches(snap *task.Snapshot, placeID task.PlaceID, filter task.ViewFilter) bool {
	if filter.IsAll() {
		return true
	}
	if placeID == task.AnywherePlaceID {
		return true
	}
	if placeID == filter.PlaceID {
		return true
	}
	filterPlace, ok := snap.Places[filter.PlaceID]
	if !ok {
		return false
	}
	return filterPlace.Includes(placeID)
}
