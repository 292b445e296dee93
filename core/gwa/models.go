package gwa

import (
	"time"

	"github.com/trezcool/gradecalc/core"
)

// Subject is a graded, credited course counted towards the GWA.
type Subject struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Units int     `json:"units"`
	Grade float64 `json:"grade"`
}

// WeightedGrade is grade * units.
func (s Subject) WeightedGrade() float64 {
	return s.Grade * float64(s.Units)
}

// NewSubject contains information needed to add a Subject.
type NewSubject struct {
	Name  string  `json:"name" validate:"notblank"`
	Units int     `json:"units" validate:"min=1,max=6"`
	Grade float64 `json:"grade" validate:"gwagrade"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.ValidateStruct(ns)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
// nil fields are left untouched.
type UpdateSubject struct {
	Name  *string  `json:"name" validate:"omitempty,notblank"`
	Units *int     `json:"units" validate:"omitempty,min=1,max=6"`
	Grade *float64 `json:"grade" validate:"omitempty,gwagrade"`
}

func (us *UpdateSubject) Validate() error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		us.Name = &name
	}
	return core.ValidateStruct(us)
}

func (us UpdateSubject) apply(orig Subject) Subject {
	if us.Name != nil {
		orig.Name = *us.Name
	}
	if us.Units != nil {
		orig.Units = *us.Units
	}
	if us.Grade != nil {
		orig.Grade = *us.Grade
	}
	return orig
}

// Goal is the GWA the user is aiming for. Lower is better.
type Goal struct {
	TargetGWA float64   `json:"targetGWA"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewGoal struct {
	TargetGWA float64 `json:"targetGWA" validate:"gte=1,lte=5"`
}

func (ng NewGoal) Validate() error { return core.ValidateStruct(ng) }
