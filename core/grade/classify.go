package grade

import "strconv"

// Classification is the remark, GWA equivalent and severity of a percentage grade.
type Classification struct {
	Remark   string `json:"remark"`
	GWA      string `json:"gwa"`
	Severity string `json:"colorTag"`
}

// Classify maps a percentage onto the grade scale.
// Rows are matched top-down on their lower bound, so values above 100 are Excellent
// and negative values are Failed.
func Classify(pct float64) Classification {
	r := rangeOf(pct)
	return Classification{
		Remark:   r.Remark,
		GWA:      r.GWA,
		Severity: RemarkSeverity(r.Remark),
	}
}

// Remark is a shortcut for Classify(pct).Remark.
func Remark(pct float64) string {
	return rangeOf(pct).Remark
}

// PercentageToGWA returns the numeric GWA bucket of a percentage.
func PercentageToGWA(pct float64) float64 {
	g, _ := strconv.ParseFloat(rangeOf(pct).GWA, 64)
	return g
}

func rangeOf(pct float64) Range {
	for _, r := range ranges {
		if pct >= r.Min {
			return r
		}
	}
	return ranges[len(ranges)-1]
}
