package gwa

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/grade"
)

var (
	gwaGradeTag  = "gwagrade"
	gwaGradeText = "grade must be one of 1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75, 3.00 or 5.00"
)

func init() {
	_ = core.Validate.RegisterValidation(gwaGradeTag, gwaGradeValidation)
	core.RegisterCustomTranslation(gwaGradeTag, gwaGradeText)
}

// gwaGradeValidation only allows values from the fixed GWA scale.
func gwaGradeValidation(fl validator.FieldLevel) bool {
	return grade.IsGWAValue(fl.Field().Float())
}
