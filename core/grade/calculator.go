package grade

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/gradecalc/core"
)

var (
	// errors
	ErrIncompleteInput = errors.New("all period grades are required")
	ErrOutOfRange      = errors.New("period grades must be between 0 and 100")

	missingText    = "this field is required"
	notNumericText = "grade must be a number"
	outOfRangeText = "grade must be between 0 and 100"

	minGrade = decimal.Zero
	maxGrade = decimal.NewFromInt(100)

	periodWeight = decimal.NewFromInt(20)
	finalsWeight = decimal.NewFromInt(40)
	totalWeight  = decimal.NewFromInt(100)
)

// PeriodGrades holds the raw, possibly empty, scores typed for each grading period.
type PeriodGrades struct {
	Prelims   string `json:"prelims"`
	Midterm   string `json:"midterm"`
	Prefinals string `json:"prefinals"`
	Finals    string `json:"finals"`
}

func (pg PeriodGrades) fields() [4]struct{ name, value string } {
	return [4]struct{ name, value string }{
		{"prelims", pg.Prelims},
		{"midterm", pg.Midterm},
		{"prefinals", pg.Prefinals},
		{"finals", pg.Finals},
	}
}

// FinalGrade is a weighted final percentage, rounded to 2 decimal places.
type FinalGrade struct {
	value decimal.Decimal
}

func NewFinalGrade(d decimal.Decimal) FinalGrade {
	return FinalGrade{value: d.Round(2)}
}

// String always formats with exactly 2 decimal places, eg. "75.00".
func (fg FinalGrade) String() string   { return fg.value.StringFixed(2) }
func (fg FinalGrade) Float64() float64 { return fg.value.InexactFloat64() }
func (fg FinalGrade) Decimal() decimal.Decimal {
	return fg.value
}

// ComputeFinalGrade weighs prelims, midterm and pre-finals at 20% each and finals at 40%.
// The result is rounded half away from zero to 2 decimal places.
//
// A missing or non-numeric field fails with ErrIncompleteInput; otherwise a field outside [0,100]
// fails with ErrOutOfRange. Both come wrapped in a *core.ValidationError naming every offending field.
func ComputeFinalGrade(pg PeriodGrades) (FinalGrade, error) {
	var (
		values     [4]decimal.Decimal
		incomplete []core.FieldError
		outOfRange []core.FieldError
	)
	for i, fld := range pg.fields() {
		raw := core.CleanString(fld.value)
		if raw == "" {
			incomplete = append(incomplete, core.FieldError{Field: fld.name, Error: missingText})
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			incomplete = append(incomplete, core.FieldError{Field: fld.name, Error: notNumericText})
			continue
		}
		if d.LessThan(minGrade) || d.GreaterThan(maxGrade) {
			outOfRange = append(outOfRange, core.FieldError{Field: fld.name, Error: outOfRangeText})
		}
		values[i] = d
	}
	if len(incomplete) > 0 {
		return FinalGrade{}, core.NewValidationError(ErrIncompleteInput, incomplete...)
	}
	if len(outOfRange) > 0 {
		return FinalGrade{}, core.NewValidationError(ErrOutOfRange, outOfRange...)
	}

	sum := values[0].Mul(periodWeight).
		Add(values[1].Mul(periodWeight)).
		Add(values[2].Mul(periodWeight)).
		Add(values[3].Mul(finalsWeight))
	return NewFinalGrade(sum.Div(totalWeight)), nil
}

// ParseFinalGrade reads a stored final grade, eg. a history record's "78.00".
func ParseFinalGrade(s string) (FinalGrade, error) {
	d, err := decimal.NewFromString(core.CleanString(s))
	if err != nil {
		return FinalGrade{}, errors.Wrapf(err, "parsing final grade %q", s)
	}
	return NewFinalGrade(d), nil
}
