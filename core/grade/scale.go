package grade

// Remarks
const (
	RemarkExcellent    = "Excellent"
	RemarkVeryGood     = "Very Good"
	RemarkSatisfactory = "Satisfactory"
	RemarkFair         = "Fair"
	RemarkFailed       = "Failed"
)

// Severity tags consumed by the presentation layer to colour a remark.
const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
	SeverityError   = "error"
)

// PassingPercentage is the lowest percentage that is not Failed.
const PassingPercentage = 59.5

// Range is one row of the percentage -> GWA table.
type Range struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	GWA    string  `json:"gwa"`
	Remark string  `json:"remark"`
	Label  string  `json:"label"`
}

// Contains reports whether pct lies within the row, both ends inclusive.
func (r Range) Contains(pct float64) bool {
	return pct >= r.Min && pct <= r.Max
}

var (
	// ordered best to worst; first match wins.
	ranges = []Range{
		{Min: 97.5, Max: 100, GWA: "1.00", Remark: RemarkExcellent, Label: "97.50 - 100"},
		{Min: 94.5, Max: 97.49, GWA: "1.25", Remark: RemarkVeryGood, Label: "94.50 - 97.49"},
		{Min: 91.5, Max: 94.49, GWA: "1.50", Remark: RemarkVeryGood, Label: "91.50 - 94.49"},
		{Min: 86.5, Max: 91.49, GWA: "1.75", Remark: RemarkVeryGood, Label: "86.50 - 91.49"},
		{Min: 81.5, Max: 86.49, GWA: "2.00", Remark: RemarkSatisfactory, Label: "81.50 - 86.49"},
		{Min: 76.0, Max: 81.49, GWA: "2.25", Remark: RemarkSatisfactory, Label: "76.00 - 81.49"},
		{Min: 70.5, Max: 75.99, GWA: "2.50", Remark: RemarkSatisfactory, Label: "70.50 - 75.99"},
		{Min: 65.0, Max: 70.49, GWA: "2.75", Remark: RemarkFair, Label: "65.00 - 70.49"},
		{Min: 59.5, Max: 64.99, GWA: "3.00", Remark: RemarkFair, Label: "59.50 - 64.99"},
		{Min: 0, Max: 59.49, GWA: "5.00", Remark: RemarkFailed, Label: "0.00 - 59.49"},
	}

	// GWAValues is the fixed set of grades a subject may carry, best to worst.
	GWAValues = []float64{1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75, 3.00, 5.00}

	remarkSeverities = map[string]string{
		RemarkExcellent:    SeveritySuccess,
		RemarkVeryGood:     SeveritySuccess,
		RemarkSatisfactory: SeverityWarning,
		RemarkFair:         SeverityInfo,
		RemarkFailed:       SeverityError,
	}
)

// Scale returns a copy of the percentage -> GWA table.
func Scale() []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}

// IsGWAValue reports whether g is one of GWAValues.
func IsGWAValue(g float64) bool {
	for _, v := range GWAValues {
		if v == g {
			return true
		}
	}
	return false
}

// RemarkSeverity maps a remark to its severity tag. Unknown remarks map to "".
func RemarkSeverity(remark string) string {
	return remarkSeverities[remark]
}

// GWARemark maps a GWA value (a scale value or an aggregated mean) to a remark.
func GWARemark(gwa float64) string {
	switch {
	case gwa <= 1.00:
		return RemarkExcellent
	case gwa <= 1.75:
		return RemarkVeryGood
	case gwa <= 2.50:
		return RemarkSatisfactory
	case gwa <= 3.00:
		return RemarkFair
	default:
		return RemarkFailed
	}
}

// GWASeverity maps a GWA value to its severity tag.
func GWASeverity(gwa float64) string {
	return RemarkSeverity(GWARemark(gwa))
}
