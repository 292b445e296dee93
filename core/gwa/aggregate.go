package gwa

// Aggregate is the credit-weighted mean of a list of subjects.
type Aggregate struct {
	GWA         float64 `json:"gwa"` // unrounded
	TotalUnits  int     `json:"totalUnits"`
	WeightedSum float64 `json:"weightedSum"`
}

// ComputeAggregate returns false when there are no subjects or no units,
// in which case no GWA is defined.
func ComputeAggregate(subjects []Subject) (Aggregate, bool) {
	var agg Aggregate
	for _, s := range subjects {
		agg.TotalUnits += s.Units
		agg.WeightedSum += s.WeightedGrade()
	}
	if len(subjects) == 0 || agg.TotalUnits == 0 {
		return Aggregate{}, false
	}
	agg.GWA = agg.WeightedSum / float64(agg.TotalUnits)
	return agg, true
}

// TotalUnits sums the units of all subjects.
func TotalUnits(subjects []Subject) int {
	var total int
	for _, s := range subjects {
		total += s.Units
	}
	return total
}
