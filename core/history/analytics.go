package history

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/trezcool/gradecalc/core/grade"
)

const notAvailable = "N/A"

// Stats are insights over the calculation history.
type Stats struct {
	Total         int    `json:"total"`
	Highest       string `json:"highest"`
	Lowest        string `json:"lowest"`
	Average       string `json:"average"`
	Passed        int    `json:"passed"`
	Failed        int    `json:"failed"`
	PassFailRatio string `json:"passFailRatio"`
}

// ComputeStats skips records whose final grade cannot be parsed.
// Highest, Lowest, Average and PassFailRatio are "N/A" when nothing is left.
func ComputeStats(recs []Record) Stats {
	stats := Stats{
		Highest:       notAvailable,
		Lowest:        notAvailable,
		Average:       notAvailable,
		PassFailRatio: notAvailable,
	}

	var highest, lowest, sum decimal.Decimal
	for _, rec := range recs {
		fg, err := grade.ParseFinalGrade(rec.FinalGrade)
		if err != nil {
			continue
		}
		d := fg.Decimal()
		if stats.Total == 0 || d.GreaterThan(highest) {
			highest = d
		}
		if stats.Total == 0 || d.LessThan(lowest) {
			lowest = d
		}
		sum = sum.Add(d)
		stats.Total++

		if fg.Float64() >= grade.PassingPercentage {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	if stats.Total == 0 {
		return stats
	}

	stats.Highest = highest.StringFixed(2)
	stats.Lowest = lowest.StringFixed(2)
	stats.Average = sum.Div(decimal.NewFromInt(int64(stats.Total))).StringFixed(2)
	stats.PassFailRatio = strconv.Itoa(stats.Passed) + ":" + strconv.Itoa(stats.Failed)
	return stats
}
