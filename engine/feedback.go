package engine

import "math"

// feedbackTotals aggregates desired and decayed effective credits across
// all root tasks.
type feedbackTotals struct {
	desired   float64
	effective float64
}

// computeFeedbackTotals sums desired and effective credits over the roots.
// Call after aggregateCredits so each root carries its whole subtree.
func computeFeedbackTotals(tasks []enriched, idx index) feedbackTotals {
	var totals feedbackTotals
	for _, slot := range idx.children[""] {
		totals.desired += tasks[slot].DesiredCredits
		totals.effective += tasks[slot].effectiveCredits
	}
	return totals
}

// feedbackFactor computes one root's suppression factor from its desired
// share versus the share of recent effort its subtree actually absorbed.
//
// The factor is (target/actual)^k clamped to [0,1]: a root sitting exactly
// at its proportional share scores 1.0, an over-served root is suppressed
// quadratically, and an under-served root is left untouched. Epsilon terms
// protect the ratios when total or per-root effort is near zero.
func feedbackFactor(desired, effective float64, totals feedbackTotals) float64 {
	if totals.desired == 0 {
		return 1
	}

	targetPercent := desired / totals.desired
	effectiveDenominator := math.Max(totals.effective, feedbackEpsilon*totals.desired)
	actualPercent := effective / effectiveDenominator

	if targetPercent == 0 {
		return 1
	}

	deviation := targetPercent / math.Max(actualPercent, feedbackEpsilon)
	factor := math.Pow(deviation, feedbackSensitivity)
	factor = sanitize(factor)
	if factor > 1 {
		return 1
	}
	if factor < 0 {
		return 0
	}
	return factor
}

// applyFeedbackFactors fills in feedbackFactor for every root slot.
func applyFeedbackFactors(tasks []enriched, idx index) {
	totals := computeFeedbackTotals(tasks, idx)
	for _, slot := range idx.children[""] {
		tasks[slot].feedbackFactor = feedbackFactor(tasks[slot].DesiredCredits, tasks[slot].effectiveCredits, totals)
	}
}
