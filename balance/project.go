package balance

import (
	"time"

	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/task"
)

// starvingThreshold is the margin by which actual share must fall below
// target share before a goal is flagged as starving. It absorbs
// floating-point noise.
const starvingThreshold = 0.001

// Item is one root goal's position in the balance view.
type Item struct {
	ID    task.ID
	Title string

	// TargetPercent is the goal's desired share of attention.
	TargetPercent float64

	// ActualPercent is the share of recent (decayed) effort the goal's
	// subtree actually absorbed.
	ActualPercent float64

	// IsStarving reports whether the goal is meaningfully under-served.
	IsStarving bool

	DesiredCredits   float64
	EffectiveCredits float64
}

// Data is the balance view for all root goals.
type Data struct {
	Items        []Item
	TotalCredits float64
}

// Project computes the balance view at the given instant: each root's
// decayed subtree credits against its desired share.
func Project(snap *task.Snapshot, now time.Time) Data {
	effective := make(map[task.ID]float64, len(snap.Tasks))
	for id, t := range snap.Tasks {
		effective[id] = engine.DecayCredits(t.Credits, t.CreditsTimestamp, now)
	}

	var aggregate func(id task.ID) float64
	aggregate = func(id task.ID) float64 {
		total := effective[id]
		if t, ok := snap.Tasks[id]; ok {
			for _, childID := range t.ChildTaskIDs {
				total += aggregate(childID)
			}
		}
		return total
	}

	var data Data
	totalDesired := 0.0
	rootCredits := make([]float64, 0, len(snap.RootTaskIDs))

	for _, rootID := range snap.RootTaskIDs {
		root, ok := snap.Tasks[rootID]
		if !ok {
			continue
		}
		credits := aggregate(rootID)
		rootCredits = append(rootCredits, credits)
		totalDesired += root.DesiredCredits
		data.TotalCredits += credits
	}

	i := 0
	for _, rootID := range snap.RootTaskIDs {
		root, ok := snap.Tasks[rootID]
		if !ok {
			continue
		}
		credits := rootCredits[i]
		i++

		targetPercent := 0.0
		if totalDesired > 0 {
			targetPercent = root.DesiredCredits / totalDesired
		}
		actualPercent := 0.0
		if data.TotalCredits > 0 {
			actualPercent = credits / data.TotalCredits
		}

		data.Items = append(data.Items, Item{
			ID:               rootID,
			Title:            root.Title,
			TargetPercent:    targetPercent,
			ActualPercent:    actualPercent,
			IsStarving:       actualPercent < targetPercent-starvingThreshold,
			DesiredCredits:   root.DesiredCredits,
			EffectiveCredits: credits,
		})
	}

	return data
}
