package engine

import (
	"sort"
	"time"

	"github.com/tasklens/tasklens/task"
)

// Mode selects which listing the aggregator produces.
type Mode string

const (
	// ModeDoList is the default actionable list: hidden, acknowledged-
	// done, and below-cutoff tasks are dropped.
	ModeDoList Mode = "do-list"

	// ModePlanOutline keeps everything that passed visibility, including
	// done tasks, for outline rendering.
	ModePlanOutline Mode = "plan-outline"
)

// Options configures a Prioritize call.
type Options struct {
	// Mode selects do-list or plan-outline filtering. Empty means
	// ModeDoList.
	Mode Mode

	// IncludeHidden disables the visibility, acknowledged-done, and
	// focus-cutoff filters.
	IncludeHidden bool

	// Context fixes the evaluation instant and the user's place. It is
	// required: the engine never reads the wall clock itself.
	Context task.Context

	// Warn, when set, receives structural warnings (tasks missing from
	// order lists) instead of discarding them.
	Warn func(message string)
}

// Prioritize runs the full scoring pipeline over one snapshot and returns
// the ranked, filtered task list. It is a pure function of its arguments:
// the same snapshot, filter, and context always produce the same output.
func Prioritize(snap *task.Snapshot, filter task.ViewFilter, opts Options) []ComputedTask {
	scored, _ := score(snap, filter, opts)

	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := &scored[order[a]], &scored[order[b]]
		if diff := ta.priority - tb.priority; diff > priorityEpsilon || diff < -priorityEpsilon {
			return ta.priority > tb.priority
		}
		if ta.Importance != tb.Importance {
			return ta.Importance > tb.Importance
		}
		return ta.outlineIndex < tb.outlineIndex
	})

	planOutline := opts.Mode == ModePlanOutline
	now := opts.Context.Now

	result := make([]ComputedTask, 0, len(scored))
	for _, slot := range order {
		e := &scored[slot]

		if !opts.IncludeHidden {
			if !e.visibility {
				continue
			}
			if !planOutline && e.Status == task.StatusDone && e.IsAcknowledged {
				continue
			}
			if !planOutline && e.priority <= MinPriority {
				continue
			}
		}

		result = append(result, project(e, now))
	}

	return result
}

// score hydrates the scratch records and runs every scoring pass, leaving
// the enriched slice fully populated.
func score(snap *task.Snapshot, filter task.ViewFilter, opts Options) ([]enriched, index) {
	now := opts.Context.Now

	ids := make([]task.ID, 0, len(snap.Tasks))
	for id := range snap.Tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	tasks := make([]enriched, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, hydrate(snap.Tasks[id]))
	}

	idx := buildIndex(snap, tasks)
	if opts.Warn != nil {
		for _, warning := range idx.warnings {
			opts.Warn(warning)
		}
	}

	assignOutlineIndexes(tasks, idx)
	resolveVisibility(snap, tasks, idx, filter, now)

	for i := range tasks {
		tasks[i].leadTimeFactor = sanitize(leadTimeFactor(tasks[i].effectiveDueDate, tasks[i].effectiveLead, now))
		tasks[i].effectiveCredits = DecayCredits(tasks[i].Credits, tasks[i].CreditsTimestamp, now)
	}

	for _, rootSlot := range idx.children[""] {
		aggregateCredits(rootSlot, tasks, idx)
	}
	applyFeedbackFactors(tasks, idx)

	for _, rootSlot := range idx.children[""] {
		// Roots seed the walk with their own raw importance; separate
		// trees are scored absolutely, never normalized against each
		// other.
		tasks[rootSlot].normalizedImportance = tasks[rootSlot].Importance
		evaluateSubtree(rootSlot, rootSlot, tasks, idx, now)
	}

	return tasks, idx
}

// evaluateSubtree is the unified DFS: pre-order it pushes schedule and
// importance from the parent into the children, post-order it decides
// container delegation and computes the final priority. The effective root
// is passed down explicitly so every node multiplies in its own root's
// feedback factor. Returns whether the subtree contains a visible task.
func evaluateSubtree(slot, rootSlot int, tasks []enriched, idx index, now time.Time) bool {
	childSlots := idx.children[tasks[slot].ID]

	distributeToChildren(slot, childSlots, tasks, now)

	hasVisibleDescendant := false
	for _, childSlot := range childSlots {
		if evaluateSubtree(childSlot, rootSlot, tasks, idx, now) {
			hasVisibleDescendant = true
		}
	}

	e := &tasks[slot]
	if len(childSlots) > 0 && hasVisibleDescendant {
		// Container: ranking is delegated to the visible descendants.
		e.visibility = false
		e.priority = 0
		return true
	}

	visibilityFactor := 0.0
	if e.visibility {
		visibilityFactor = 1.0
	}
	e.priority = visibilityFactor *
		sanitize(e.normalizedImportance) *
		sanitize(tasks[rootSlot].feedbackFactor) *
		sanitize(e.leadTimeFactor)

	return e.visibility
}

// distributeToChildren is the pre-order step: each child inherits the
// parent's effective schedule when it lacks its own, receives its slice of
// the parent's importance budget, and has its readiness recomputed against
// the inherited schedule. Under sequential mode the first pending child in
// list order takes the whole budget and every later pending sibling is
// blocked outright.
func distributeToChildren(parentSlot int, childSlots []int, tasks []enriched, now time.Time) {
	if len(childSlots) == 0 {
		return
	}

	parent := &tasks[parentSlot]

	pendingImportanceSum := 0.0
	for _, childSlot := range childSlots {
		if tasks[childSlot].isPending {
			pendingImportanceSum += tasks[childSlot].Importance
		}
	}

	hasActiveChild := false
	for _, childSlot := range childSlots {
		child := &tasks[childSlot]

		// Schedule inheritance: a child without its own due date takes
		// the parent's effective (dueDate, leadTime) verbatim. Every
		// node repeats this rule, so inheritance propagates.
		if child.effectiveDueDate == nil && parent.effectiveDueDate != nil {
			due := *parent.effectiveDueDate
			child.effectiveDueDate = &due
			child.effectiveLead = parent.effectiveLead
			child.scheduleSource = ScheduleSourceAncestor
		}

		if parent.IsSequential {
			if child.Status == task.StatusPending {
				if hasActiveChild {
					// Blocked behind the active sibling.
					child.normalizedImportance = 0
					child.leadTimeFactor = 0
					continue
				}
				hasActiveChild = true
			}
			child.normalizedImportance = parent.normalizedImportance
		} else {
			if pendingImportanceSum == 0 {
				child.normalizedImportance = parent.normalizedImportance / float64(len(childSlots))
			} else {
				child.normalizedImportance = child.Importance / pendingImportanceSum * parent.normalizedImportance
			}
		}

		child.leadTimeFactor = sanitize(leadTimeFactor(child.effectiveDueDate, child.effectiveLead, now))
	}
}

// project converts a fully scored scratch record into the public view.
func project(e *enriched, now time.Time) ComputedTask {
	return ComputedTask{
		Task:              e.Task,
		EffectiveCredits:  e.effectiveCredits,
		IsContainer:       e.isContainer,
		IsPending:         e.isPending,
		IsReady:           e.isPending && e.leadTimeFactor > 0,
		EffectiveDueDate:  e.effectiveDueDate,
		EffectiveLeadTime: e.effectiveLead,
		ScheduleSource:    e.scheduleSource,
		Urgency:           urgencyStatus(e.effectiveDueDate, e.effectiveLead, now),
	}
}
