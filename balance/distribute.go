// Package balance implements the fixed-sum credit redistribution across
// sibling goals and the balance view projection that reports target versus
// actual effort shares per root goal.
package balance

import (
	"errors"
	"fmt"

	"github.com/tasklens/tasklens/task"
)

// minShareFloor is the absolute lower bound on any sibling's share.
const minShareFloor = 0.01

var (
	// ErrTargetNotFound is returned when the adjusted sibling is not in
	// the set.
	ErrTargetNotFound = errors.New("target not in sibling set")

	// ErrEmptySiblingSet is returned when the sibling set is empty.
	ErrEmptySiblingSet = errors.New("sibling set is empty")
)

// Share pairs a task with its desired-credit share.
type Share struct {
	ID             task.ID
	DesiredCredits float64
}

// Bounds returns the per-item clamp range for a sibling set of size n: the
// total budget is n, each item holds at least max(0.01*n, 0.01), and the
// maximum leaves every other sibling at the minimum.
func Bounds(n int) (min, max float64) {
	min = minShareFloor * float64(n)
	if min < minShareFloor {
		min = minShareFloor
	}
	max = float64(n) - float64(n-1)*min
	return min, max
}

// Distribute sets one sibling's desired credits to newValue and rebalances
// the rest so the set still sums to exactly n (the sibling count).
//
// Taking budget (delta > 0) drains the others proportionally to their
// surplus above the minimum; giving budget back (delta < 0) adds to the
// others proportionally to their current value. The returned shares cover
// every sibling and are meant to be committed as one atomic update.
func Distribute(targetID task.ID, newValue float64, siblings []Share) ([]Share, error) {
	n := len(siblings)
	if n == 0 {
		return nil, ErrEmptySiblingSet
	}

	targetIndex := -1
	for i, sibling := range siblings {
		if sibling.ID == targetID {
			targetIndex = i
			break
		}
	}
	if targetIndex == -1 {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}

	result := make([]Share, n)
	copy(result, siblings)

	// A single sibling owns the whole budget regardless of input.
	if n == 1 {
		result[0].DesiredCredits = 1
		return result, nil
	}

	min, max := Bounds(n)
	clamped := newValue
	if clamped < min {
		clamped = min
	}
	if clamped > max {
		clamped = max
	}

	delta := clamped - siblings[targetIndex].DesiredCredits
	result[targetIndex].DesiredCredits = clamped

	switch {
	case delta > 0:
		// Drain the increase from the others, weighted by how much
		// slack each has above the minimum.
		surplusSum := 0.0
		for i, sibling := range siblings {
			if i == targetIndex {
				continue
			}
			if surplus := sibling.DesiredCredits - min; surplus > 0 {
				surplusSum += surplus
			}
		}
		if surplusSum == 0 {
			// Unreachable while the bounds hold, but never divide
			// by zero over user data.
			result[targetIndex].DesiredCredits = siblings[targetIndex].DesiredCredits
			return result, nil
		}
		for i, sibling := range siblings {
			if i == targetIndex {
				continue
			}
			surplus := sibling.DesiredCredits - min
			if surplus < 0 {
				surplus = 0
			}
			result[i].DesiredCredits = sibling.DesiredCredits - delta*(surplus/surplusSum)
		}

	case delta < 0:
		// Hand the released budget back proportionally to current
		// value, or evenly when the others hold nothing.
		valueSum := 0.0
		for i, sibling := range siblings {
			if i == targetIndex {
				continue
			}
			valueSum += sibling.DesiredCredits
		}
		for i, sibling := range siblings {
			if i == targetIndex {
				continue
			}
			weight := 1.0 / float64(n-1)
			if valueSum != 0 {
				weight = sibling.DesiredCredits / valueSum
			}
			result[i].DesiredCredits = sibling.DesiredCredits + (-delta)*weight
		}
	}

	return result, nil
}
