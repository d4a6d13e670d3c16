package engine

import (
	"math"
	"time"

	"github.com/tasklens/tasklens/task"
)

// LeadTimeStage labels where a task sits on the readiness ramp.
type LeadTimeStage string

const (
	// StageTooEarly means more than twice the lead time remains.
	StageTooEarly LeadTimeStage = "too-early"

	// StageRamping means the factor is climbing between 0 and 1.
	StageRamping LeadTimeStage = "ramping"

	// StageReady means the factor is saturated at 1.
	StageReady LeadTimeStage = "ready"

	// StageOverdue means the due date has passed.
	StageOverdue LeadTimeStage = "overdue"
)

// ScoreTrace is a factor-by-factor breakdown of one task's priority. It is
// computed by the same pipeline as the ranking itself, so the numbers never
// drift from actual scoring behavior.
type ScoreTrace struct {
	TaskID    task.ID
	TaskTitle string
	Score     float64
	Factors   ScoreFactors

	// ImportanceChain walks root to task, showing how the importance
	// budget narrowed at each level.
	ImportanceChain []ImportanceTrace

	Feedback FeedbackTrace
	LeadTime LeadTimeTrace

	// Visible is the task's final visibility, after container delegation.
	Visible bool
}

// ScoreFactors are the four multiplied factors.
type ScoreFactors struct {
	Visibility           float64
	NormalizedImportance float64
	Feedback             float64
	LeadTime             float64
}

// ImportanceTrace is one link in the root-to-task importance chain.
type ImportanceTrace struct {
	TaskID               task.ID
	TaskTitle            string
	Importance           float64
	NormalizedImportance float64
	SequentialBlocked    bool
}

// FeedbackTrace explains the effective root's feedback factor.
type FeedbackTrace struct {
	RootID          task.ID
	RootTitle       string
	DesiredCredits  float64
	EffectiveCredit float64
	TargetPercent   float64
	ActualPercent   float64
	Factor          float64
}

// LeadTimeTrace explains the readiness factor.
type LeadTimeTrace struct {
	EffectiveDueDate  *time.Time
	EffectiveLeadTime time.Duration
	Remaining         time.Duration
	Stage             LeadTimeStage
	Factor            float64
	Source            ScheduleSource
}

// Trace scores the whole snapshot and returns the breakdown for one task,
// or false when the task does not exist.
func Trace(snap *task.Snapshot, filter task.ViewFilter, opts Options, id task.ID) (ScoreTrace, bool) {
	tasks, idx := score(snap, filter, opts)

	slot, ok := idx.lookup[id]
	if !ok {
		return ScoreTrace{}, false
	}

	rootSlot := slot
	for tasks[rootSlot].ParentID != "" {
		parentSlot, ok := idx.lookup[tasks[rootSlot].ParentID]
		if !ok {
			break
		}
		rootSlot = parentSlot
	}

	e := &tasks[slot]
	root := &tasks[rootSlot]

	visibilityFactor := 0.0
	if e.visibility {
		visibilityFactor = 1.0
	}

	trace := ScoreTrace{
		TaskID:    e.ID,
		TaskTitle: e.Title,
		Score:     e.priority,
		Factors: ScoreFactors{
			Visibility:           visibilityFactor,
			NormalizedImportance: e.normalizedImportance,
			Feedback:             root.feedbackFactor,
			LeadTime:             e.leadTimeFactor,
		},
		ImportanceChain: importanceChain(slot, tasks, idx),
		Feedback:        feedbackTrace(rootSlot, tasks, idx),
		LeadTime:        leadTimeTrace(e, opts.Context.Now),
		Visible:         e.visibility,
	}
	return trace, true
}

func importanceChain(slot int, tasks []enriched, idx index) []ImportanceTrace {
	var lineage []int
	for current := slot; ; {
		lineage = append(lineage, current)
		parentSlot, ok := idx.lookup[tasks[current].ParentID]
		if tasks[current].ParentID == "" || !ok {
			break
		}
		current = parentSlot
	}

	chain := make([]ImportanceTrace, 0, len(lineage))
	for i := len(lineage) - 1; i >= 0; i-- {
		e := &tasks[lineage[i]]
		blocked := e.isPending && e.normalizedImportance == 0 && e.leadTimeFactor == 0 &&
			parentIsSequential(e, tasks, idx)
		chain = append(chain, ImportanceTrace{
			TaskID:               e.ID,
			TaskTitle:            e.Title,
			Importance:           e.Importance,
			NormalizedImportance: e.normalizedImportance,
			SequentialBlocked:    blocked,
		})
	}
	return chain
}

func parentIsSequential(e *enriched, tasks []enriched, idx index) bool {
	parentSlot, ok := idx.lookup[e.ParentID]
	return ok && tasks[parentSlot].IsSequential
}

func feedbackTrace(rootSlot int, tasks []enriched, idx index) FeedbackTrace {
	totals := computeFeedbackTotals(tasks, idx)
	root := &tasks[rootSlot]

	targetPercent := 0.0
	if totals.desired != 0 {
		targetPercent = root.DesiredCredits / totals.desired
	}
	actualPercent := 0.0
	if denominator := math.Max(totals.effective, feedbackEpsilon*totals.desired); denominator != 0 {
		actualPercent = root.effectiveCredits / denominator
	}

	return FeedbackTrace{
		RootID:          root.ID,
		RootTitle:       root.Title,
		DesiredCredits:  root.DesiredCredits,
		EffectiveCredit: root.effectiveCredits,
		TargetPercent:   targetPercent,
		ActualPercent:   actualPercent,
		Factor:          root.feedbackFactor,
	}
}

func leadTimeTrace(e *enriched, now time.Time) LeadTimeTrace {
	trace := LeadTimeTrace{
		EffectiveDueDate:  e.effectiveDueDate,
		EffectiveLeadTime: e.effectiveLead,
		Factor:            e.leadTimeFactor,
		Source:            e.scheduleSource,
		Stage:             StageReady,
	}

	if e.effectiveDueDate == nil {
		return trace
	}

	trace.Remaining = e.effectiveDueDate.Sub(now)
	switch {
	case trace.Remaining <= 0:
		trace.Stage = StageOverdue
	case trace.Remaining > 2*e.effectiveLead:
		trace.Stage = StageTooEarly
	case trace.Remaining > e.effectiveLead:
		trace.Stage = StageRamping
	default:
		trace.Stage = StageReady
	}
	return trace
}
