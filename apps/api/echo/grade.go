package echoapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/grade"
	"github.com/trezcool/gradecalc/core/gwa"
)

const percentageParam = "percentage"

type (
	// score accepts a period grade sent either as a JSON number or as a string.
	score string

	finalGradeRequest struct {
		Prelims   score `json:"prelims"`
		Midterm   score `json:"midterm"`
		Prefinals score `json:"prefinals"`
		Finals    score `json:"finals"`
	}

	finalGradeResponse struct {
		FinalGrade string `json:"finalGrade"`
		grade.Classification
	}

	classifyResponse struct {
		Percentage float64 `json:"percentage"`
		grade.Classification
	}

	gwaRequest struct {
		Subjects     []gwa.NewSubject `json:"subjects"`
		Goal         *gwa.NewGoal     `json:"goal"`
		PrevAchieved bool             `json:"prevAchieved"`
	}

	gwaResponse struct {
		Summary       *gwa.Summary      `json:"summary"` // null when no GWA is defined
		TotalUnits    int               `json:"totalUnits"`
		Progress      *gwa.GoalProgress `json:"progress"`
		Achieved      bool              `json:"achieved"`
		NewlyAchieved bool              `json:"newlyAchieved"`
	}
)

func (s *score) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = score(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("grades must be numbers or strings")
	}
	*s = score(n.String())
	return nil
}

func (req finalGradeRequest) periodGrades() grade.PeriodGrades {
	return grade.PeriodGrades{
		Prelims:   string(req.Prelims),
		Midterm:   string(req.Midterm),
		Prefinals: string(req.Prefinals),
		Finals:    string(req.Finals),
	}
}

// validate checks every subject and the goal, prefixing field errors with their position.
func (req *gwaRequest) validate() error {
	var flds []core.FieldError
	collect := func(prefix string, err error) error {
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		for _, f := range vErr.Fields {
			flds = append(flds, core.FieldError{Field: prefix + f.Field, Error: f.Error})
		}
		return nil
	}

	for i := range req.Subjects {
		if err := req.Subjects[i].Validate(); err != nil {
			if err = collect("subjects["+strconv.Itoa(i)+"].", err); err != nil {
				return err
			}
		}
	}
	if req.Goal != nil {
		if err := req.Goal.Validate(); err != nil {
			if err = collect("goal.", err); err != nil {
				return err
			}
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(core.ErrInvalidInput, flds...)
	}
	return nil
}

func (req gwaRequest) subjects() []gwa.Subject {
	out := make([]gwa.Subject, len(req.Subjects))
	for i, ns := range req.Subjects {
		out[i] = gwa.Subject{ID: int64(i + 1), Name: ns.Name, Units: ns.Units, Grade: ns.Grade}
	}
	return out
}

func registerGradeAPI(g *echo.Group) {
	g.GET("/scale", scale)
	g.GET("/classify", classify)
	g.POST("/final-grade", finalGrade)
	g.POST("/gwa", evaluateGWA)
}

// Handlers

func scale(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grade.Scale())
}

func classify(ctx echo.Context) error {
	raw := core.CleanString(ctx.QueryParam(percentageParam))
	if raw == "" {
		return core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: percentageParam, Error: "this field is required"})
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: percentageParam, Error: "percentage must be a number"})
	}
	return ctx.JSON(http.StatusOK, classifyResponse{Percentage: pct, Classification: grade.Classify(pct)})
}

func finalGrade(ctx echo.Context) error {
	var req finalGradeRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to finalGradeRequest")
	}
	fg, err := grade.ComputeFinalGrade(req.periodGrades())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, finalGradeResponse{
		FinalGrade:     fg.String(),
		Classification: grade.Classify(fg.Float64()),
	})
}

func evaluateGWA(ctx echo.Context) error {
	var req gwaRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to gwaRequest")
	}
	if err := req.validate(); err != nil {
		return err
	}

	subjects := req.subjects()
	resp := gwaResponse{TotalUnits: gwa.TotalUnits(subjects)}
	if sum, ok := gwa.Evaluate(subjects); ok {
		resp.Summary = &sum
	}
	if req.Goal != nil {
		resp.Progress = gwa.ComputeGoalProgress(&gwa.Goal{TargetGWA: req.Goal.TargetGWA}, subjects)
	}
	resp.Achieved, resp.NewlyAchieved = gwa.GoalTransition(req.PrevAchieved, resp.Progress)
	return ctx.JSON(http.StatusOK, resp)
}
