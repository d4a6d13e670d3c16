package task

import "sort"

// Snapshot is a single internally consistent view of the whole document:
// every task, the ordered roots, and every place. The store hands one to the
// engine per call; the engine clones it and never writes back.
type Snapshot struct {
	Tasks       map[ID]*Task       `yaml:"tasks"`
	RootTaskIDs []ID               `yaml:"root_task_ids"`
	Places      map[PlaceID]*Place `yaml:"places,omitempty"`
}

// NewSnapshot returns an empty snapshot with allocated maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Tasks:  make(map[ID]*Task),
		Places: make(map[PlaceID]*Place),
	}
}

// Clone deep-copies the snapshot so callers can mutate scratch state
// without touching the original.
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		Tasks:       make(map[ID]*Task, len(s.Tasks)),
		RootTaskIDs: append([]ID(nil), s.RootTaskIDs...),
		Places:      make(map[PlaceID]*Place, len(s.Places)),
	}

	for id, t := range s.Tasks {
		copied := *t
		copied.ChildTaskIDs = append([]ID(nil), t.ChildTaskIDs...)
		if t.Schedule.DueDate != nil {
			due := *t.Schedule.DueDate
			copied.Schedule.DueDate = &due
		}
		if t.Schedule.LastDone != nil {
			done := *t.Schedule.LastDone
			copied.Schedule.LastDone = &done
		}
		if t.Repeat != nil {
			repeat := *t.Repeat
			copied.Repeat = &repeat
		}
		if t.LastCompletedAt != nil {
			completed := *t.LastCompletedAt
			copied.LastCompletedAt = &completed
		}
		clone.Tasks[id] = &copied
	}

	for id, p := range s.Places {
		copied := *p
		copied.IncludedPlaces = append([]PlaceID(nil), p.IncludedPlaces...)
		if p.Hours.Schedule != nil {
			copied.Hours.Schedule = make(map[string][]string, len(p.Hours.Schedule))
			for day, ranges := range p.Hours.Schedule {
				copied.Hours.Schedule[day] = append([]string(nil), ranges...)
			}
		}
		clone.Places[id] = &copied
	}

	return clone
}

// HealReport describes structural fixes applied by Heal.
type HealReport struct {
	// DroppedChildRefs are child list entries pointing at absent tasks.
	DroppedChildRefs []ID

	// DroppedRootRefs are root list entries pointing at absent tasks.
	DroppedRootRefs []ID

	// AdoptedOrphans are reachable-from-nowhere tasks appended to the
	// root list.
	AdoptedOrphans []ID

	// RelinkedParents are tasks whose ParentID disagreed with the child
	// lists and was rewritten.
	RelinkedParents []ID
}

// Empty reports whether the heal pass changed nothing.
func (r HealReport) Empty() bool {
	return len(r.DroppedChildRefs) == 0 &&
		len(r.DroppedRootRefs) == 0 &&
		len(r.AdoptedOrphans) == 0 &&
		len(r.RelinkedParents) == 0
}

// Heal reconciles the dual tree encoding after loading a document that may
// carry eventual-consistency artifacts: dangling references are dropped,
// ParentID is rewritten to agree with the child lists, and unreachable
// tasks are adopted as roots in deterministic (sorted-ID) order.
func (s *Snapshot) Heal() HealReport {
	var report HealReport

	// Drop dangling root references.
	roots := s.RootTaskIDs[:0]
	for _, id := range s.RootTaskIDs {
		if _, ok := s.Tasks[id]; ok {
			roots = append(roots, id)
		} else {
			report.DroppedRootRefs = append(report.DroppedRootRefs, id)
		}
	}
	s.RootTaskIDs = roots

	// Drop dangling child references and index each task's recorded
	// parent according to the child lists.
	parentByChild := make(map[ID]ID, len(s.Tasks))
	for _, t := range s.Tasks {
		children := t.ChildTaskIDs[:0]
		for _, childID := range t.ChildTaskIDs {
			if _, ok := s.Tasks[childID]; ok {
				children = append(children, childID)
				parentByChild[childID] = t.ID
			} else {
				report.DroppedChildRefs = append(report.DroppedChildRefs, childID)
			}
		}
		t.ChildTaskIDs = children
	}

	// The child lists are authoritative: rewrite disagreeing ParentIDs.
	for _, t := range s.Tasks {
		wantParent := parentByChild[t.ID]
		if t.ParentID != wantParent {
			t.ParentID = wantParent
			report.RelinkedParents = append(report.RelinkedParents, t.ID)
		}
	}

	// Adopt unreachable tasks as roots, sorted for determinism.
	reachable := make(map[ID]bool, len(s.Tasks))
	var mark func(id ID)
	mark = func(id ID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		if t, ok := s.Tasks[id]; ok {
			for _, childID := range t.ChildTaskIDs {
				mark(childID)
			}
		}
	}
	for _, id := range s.RootTaskIDs {
		mark(id)
	}

	var orphans []ID
	for id := range s.Tasks {
		if !reachable[id] && parentByChild[id] == "" {
			orphans = append(orphans, id)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	for _, id := range orphans {
		s.RootTaskIDs = append(s.RootTaskIDs, id)
		report.AdoptedOrphans = append(report.AdoptedOrphans, id)
		mark(id)
	}

	sort.Slice(report.DroppedChildRefs, func(i, j int) bool {
		return report.DroppedChildRefs[i] < report.DroppedChildRefs[j]
	})

	return report
}
