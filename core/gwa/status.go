package gwa

import "github.com/trezcool/gradecalc/core/grade"

// Academic statuses
const (
	StatusFailed           = "Failed"
	StatusHonorStudent     = "Honor Student"
	StatusPassed           = "Passed"
	StatusNeedsImprovement = "Needs Improvement"
)

// Fixed business rules.
const (
	failingGrade        = 5.00
	passingMaxGWA       = 3.00
	honorStudentMaxGWA  = 1.75
	honorListMaxGWA     = 1.50
	honorListFloorGrade = 2.00 // no subject may be graded worse than this
)

// Summary is the payload shown next to the subject list.
type Summary struct {
	GWA                    float64 `json:"gwa"`
	TotalUnits             int     `json:"totalUnits"`
	Remark                 string  `json:"remark"`
	ColorTag               string  `json:"colorTag"`
	Status                 string  `json:"status"`
	DeansListEligible      bool    `json:"deansListEligible"`
	PresidentsListEligible bool    `json:"presidentsListEligible"`
}

// Evaluate aggregates subjects and derives status and honors.
// It returns false when no GWA is defined.
func Evaluate(subjects []Subject) (Summary, bool) {
	agg, ok := ComputeAggregate(subjects)
	if !ok {
		return Summary{TotalUnits: TotalUnits(subjects)}, false
	}
	return Summary{
		GWA:                    agg.GWA,
		TotalUnits:             agg.TotalUnits,
		Remark:                 grade.GWARemark(agg.GWA),
		ColorTag:               grade.GWASeverity(agg.GWA),
		Status:                 AcademicStatus(agg.GWA, subjects),
		DeansListEligible:      IsDeanLister(agg.GWA, subjects),
		PresidentsListEligible: IsPresidentsLister(agg.GWA, subjects),
	}, true
}

// AcademicStatus evaluates its branches in order. The gwa > 3.00 branch is only reachable through a
// failing subject, which the first branch already catches; it is kept for scales with in-between grades.
func AcademicStatus(gwa float64, subjects []Subject) string {
	switch {
	case hasFailingSubject(subjects):
		return StatusFailed
	case gwa > passingMaxGWA:
		return StatusFailed
	case gwa <= honorStudentMaxGWA:
		return StatusHonorStudent
	case gwa <= passingMaxGWA:
		return StatusPassed
	default:
		return StatusNeedsImprovement
	}
}

// IsDeanLister is term based in the institution's rules, but without a notion of terms
// it shares the honor-list predicate with IsPresidentsLister.
func IsDeanLister(gwa float64, subjects []Subject) bool {
	return honorListEligible(gwa, subjects)
}

// IsPresidentsLister is cumulative in the institution's rules; see IsDeanLister.
func IsPresidentsLister(gwa float64, subjects []Subject) bool {
	return honorListEligible(gwa, subjects)
}

func honorListEligible(gwa float64, subjects []Subject) bool {
	if len(subjects) == 0 || gwa > honorListMaxGWA || hasFailingSubject(subjects) {
		return false
	}
	for _, s := range subjects {
		if s.Grade > honorListFloorGrade {
			return false
		}
	}
	return true
}

func hasFailingSubject(subjects []Subject) bool {
	for _, s := range subjects {
		if s.Grade == failingGrade {
			return true
		}
	}
	return false
}
