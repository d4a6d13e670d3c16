package engine

import (
	"sort"

	"github.com/tasklens/tasklens/task"
)

// index holds the per-call lookup structures: a task-ID-to-slot map and a
// parent-to-ordered-children adjacency keyed by parent ID ("" for roots).
type index struct {
	lookup   map[task.ID]int
	children map[task.ID][]int
	warnings []string
}

// buildIndex builds the adjacency from the explicit order lists. Children
// are ordered by their position in the parent's child list (the root list
// for roots); records absent from any order list get a deterministic
// fallback position after the ordered ones, sorted by ID. Such records are
// reported as warnings rather than dropped.
func buildIndex(snap *task.Snapshot, tasks []enriched) index {
	idx := index{
		lookup:   make(map[task.ID]int, len(tasks)),
		children: make(map[task.ID][]int),
	}

	for i := range tasks {
		idx.lookup[tasks[i].ID] = i
		idx.children[tasks[i].ParentID] = append(idx.children[tasks[i].ParentID], i)
	}

	orderOf := func(orderList []task.ID) map[task.ID]int {
		order := make(map[task.ID]int, len(orderList))
		for position, id := range orderList {
			order[id] = position
		}
		return order
	}

	sortChildren := func(parentID task.ID, order map[task.ID]int) {
		slots := idx.children[parentID]
		sort.SliceStable(slots, func(a, b int) bool {
			posA, okA := order[tasks[slots[a]].ID]
			posB, okB := order[tasks[slots[b]].ID]
			switch {
			case okA && okB:
				return posA < posB
			case okA:
				return true
			case okB:
				return false
			default:
				return tasks[slots[a]].ID < tasks[slots[b]].ID
			}
		})
		for _, slot := range slots {
			if _, ok := order[tasks[slot].ID]; !ok {
				idx.warnings = append(idx.warnings,
					"task "+string(tasks[slot].ID)+" missing from order list of "+orderKeyName(parentID))
			}
		}
	}

	sortChildren("", orderOf(snap.RootTaskIDs))
	for parentID := range idx.children {
		if parentID == "" {
			continue
		}
		parentSlot, ok := idx.lookup[parentID]
		if !ok {
			continue
		}
		sortChildren(parentID, orderOf(tasks[parentSlot].ChildTaskIDs))
	}

	return idx
}

func orderKeyName(parentID task.ID) string {
	if parentID == "" {
		return "roots"
	}
	return "parent " + string(parentID)
}

// assignOutlineIndexes numbers every task by pre-order DFS from the roots
// in list order. The result is the final tie-break for equal priority and
// is stable across repeated runs on an unchanged tree.
func assignOutlineIndexes(tasks []enriched, idx index) {
	counter := 0
	var walk func(parentID task.ID)
	walk = func(parentID task.ID) {
		for _, slot := range idx.children[parentID] {
			tasks[slot].outlineIndex = counter
			counter++
			walk(tasks[slot].ID)
		}
	}
	walk("")
}

// aggregateCredits rolls each subtree's decayed credits up into its root's
// effectiveCredits, post-order.
func aggregateCredits(slot int, tasks []enriched, idx index) float64 {
	total := tasks[slot].effectiveCredits
	for _, childSlot := range idx.children[tasks[slot].ID] {
		total += aggregateCredits(childSlot, tasks, idx)
	}
	tasks[slot].effectiveCredits = total
	return total
}
