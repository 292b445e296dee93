package gwa

import "github.com/shopspring/decimal"

const (
	worstGWA = 5.00
	bestGWA  = 1.00

	// units assumed to remain when projecting the average needed to reach a goal
	projectedUnits = 15
)

// GoalProgress tells how close the current GWA is to the goal.
type GoalProgress struct {
	TargetGWA       float64 `json:"targetGWA"`
	CurrentGWA      float64 `json:"currentGWA"`
	Percentage      float64 `json:"percentage"` // [0,100], 1 decimal place
	Achieved        bool    `json:"achieved"`
	Remaining       float64 `json:"remaining"`       // GWA points left to gain, 0 once achieved
	RequiredAverage float64 `json:"requiredAverage"` // over the next 15 units, clamped to [1.00,5.00]
}

// ComputeGoalProgress returns nil when there is no goal or no GWA yet.
func ComputeGoalProgress(goal *Goal, subjects []Subject) *GoalProgress {
	if goal == nil {
		return nil
	}
	agg, ok := ComputeAggregate(subjects)
	if !ok {
		return nil
	}

	p := &GoalProgress{
		TargetGWA:       goal.TargetGWA,
		CurrentGWA:      agg.GWA,
		RequiredAverage: requiredAverage(goal.TargetGWA, agg),
	}
	if agg.GWA <= goal.TargetGWA {
		p.Percentage = 100
		p.Achieved = true
		return p
	}

	pct := (worstGWA - agg.GWA) / (worstGWA - goal.TargetGWA) * 100
	p.Percentage = round(clamp(pct, 0, 100), 1)
	p.Remaining = round(agg.GWA-goal.TargetGWA, 2)
	return p
}

// requiredAverage solves target*(units+15) = weightedSum + 15*x for x.
func requiredAverage(target float64, agg Aggregate) float64 {
	x := (target*float64(agg.TotalUnits+projectedUnits) - agg.WeightedSum) / projectedUnits
	return round(clamp(x, bestGWA, worstGWA), 2)
}

// GoalTransition is an edge detector over GoalProgress.Achieved: newlyAchieved is only true when
// achieved flips from false to true. A nil progress (goal cleared, no GWA) resets the state.
func GoalTransition(prevAchieved bool, progress *GoalProgress) (achieved, newlyAchieved bool) {
	if progress == nil {
		return false, false
	}
	return progress.Achieved, progress.Achieved && !prevAchieved
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
