package gwa

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/grade"
	"github.com/trezcool/gradecalc/core/history"
)

const (
	DefaultImportUnits = 3
	DefaultImportName  = "Imported Subject"
)

var (
	// errors
	ErrSubjectNotFound = errors.New("subject not found")

	NowFunc = time.Now // mockable
)

type (
	// SubjectRepository stores Subjects in insertion order. Implementations own their collection and hand out copies.
	SubjectRepository interface {
		// CreateSubject assigns a fresh unique ID and appends the subject.
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id int64) (Subject, error)
		// UpdateSubject replaces the subject with the same ID in place; ErrSubjectNotFound if there is none.
		UpdateSubject(ctx context.Context, s Subject) (Subject, error)
		// DeleteSubject returns ErrSubjectNotFound if there is no subject with this ID.
		DeleteSubject(ctx context.Context, id int64) error
		ClearSubjects(ctx context.Context) error
	}

	// GoalRepository stores the optional Goal singleton and the last seen achieved state.
	GoalRepository interface {
		// GetGoal returns nil when no goal is set.
		GetGoal(ctx context.Context) (*Goal, error)
		SetGoal(ctx context.Context, g Goal) error
		ClearGoal(ctx context.Context) error
		GoalAchieved(ctx context.Context) (bool, error)
		SetGoalAchieved(ctx context.Context, achieved bool) error
	}

	Service struct {
		subjects SubjectRepository
		goals    GoalRepository
	}
)

func NewService(subjects SubjectRepository, goals GoalRepository) *Service {
	return &Service{subjects: subjects, goals: goals}
}

func (svc *Service) AddSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(); err != nil {
		return Subject{}, err
	}
	s, err := svc.subjects.CreateSubject(ctx, Subject{Name: ns.Name, Units: ns.Units, Grade: ns.Grade})
	if err != nil {
		return Subject{}, errors.Wrap(err, "creating subject")
	}
	return s, nil
}

// EditSubject overwrites the set fields. Editing an unknown ID is a no-op reported through ok == false.
func (svc *Service) EditSubject(ctx context.Context, id int64, us UpdateSubject) (s Subject, ok bool, err error) {
	if err = us.Validate(); err != nil {
		return Subject{}, false, err
	}
	orig, err := svc.subjects.GetSubjectByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrSubjectNotFound {
			return Subject{}, false, nil
		}
		return Subject{}, false, errors.Wrap(err, "getting subject")
	}
	s, err = svc.subjects.UpdateSubject(ctx, us.apply(orig))
	if err != nil {
		if errors.Cause(err) == ErrSubjectNotFound {
			return Subject{}, false, nil
		}
		return Subject{}, false, errors.Wrap(err, "updating subject")
	}
	return s, true, nil
}

// DeleteSubject is a no-op for unknown IDs.
func (svc *Service) DeleteSubject(ctx context.Context, id int64) error {
	if err := svc.subjects.DeleteSubject(ctx, id); err != nil && errors.Cause(err) != ErrSubjectNotFound {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}

func (svc *Service) ClearSubjects(ctx context.Context) error {
	return svc.subjects.ClearSubjects(ctx)
}

func (svc *Service) ListSubjects(ctx context.Context) ([]Subject, error) {
	return svc.subjects.QueryAllSubjects(ctx)
}

// ImportFromHistory adds a Subject graded with the GWA equivalent of a Record's final grade.
// units <= 0 defaults to DefaultImportUnits.
func (svc *Service) ImportFromHistory(ctx context.Context, rec history.Record, units int) (Subject, error) {
	if units <= 0 {
		units = DefaultImportUnits
	}
	name := core.CleanString(rec.Title)
	if name == "" {
		name = DefaultImportName
	}
	return svc.AddSubject(ctx, NewSubject{
		Name:  name,
		Units: units,
		Grade: grade.PercentageToGWA(rec.Percentage()),
	})
}

// Summary evaluates the stored subjects; ok is false when no GWA is defined.
func (svc *Service) Summary(ctx context.Context) (sum Summary, ok bool, err error) {
	subjects, err := svc.subjects.QueryAllSubjects(ctx)
	if err != nil {
		return Summary{}, false, errors.Wrap(err, "querying subjects")
	}
	sum, ok = Evaluate(subjects)
	return sum, ok, nil
}

func (svc *Service) Goal(ctx context.Context) (*Goal, error) {
	return svc.goals.GetGoal(ctx)
}

// SetGoal creates or replaces the goal.
func (svc *Service) SetGoal(ctx context.Context, ng NewGoal) (Goal, error) {
	if err := ng.Validate(); err != nil {
		return Goal{}, err
	}
	g := Goal{TargetGWA: ng.TargetGWA, CreatedAt: NowFunc().UTC()}
	if err := svc.goals.SetGoal(ctx, g); err != nil {
		return Goal{}, errors.Wrap(err, "setting goal")
	}
	return g, nil
}

func (svc *Service) ClearGoal(ctx context.Context) error {
	if err := svc.goals.ClearGoal(ctx); err != nil {
		return errors.Wrap(err, "clearing goal")
	}
	return svc.goals.SetGoalAchieved(ctx, false)
}

// Progress computes the goal progress (nil without a goal or a GWA) and advances the stored
// achieved state. newlyAchieved is true only on the call where the goal flips to achieved.
func (svc *Service) Progress(ctx context.Context) (progress *GoalProgress, newlyAchieved bool, err error) {
	goal, err := svc.goals.GetGoal(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, "getting goal")
	}
	subjects, err := svc.subjects.QueryAllSubjects(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, "querying subjects")
	}
	prev, err := svc.goals.GoalAchieved(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, "getting goal state")
	}

	progress = ComputeGoalProgress(goal, subjects)
	achieved, newlyAchieved := GoalTransition(prev, progress)
	if achieved != prev {
		if err = svc.goals.SetGoalAchieved(ctx, achieved); err != nil {
			return nil, false, errors.Wrap(err, "saving goal state")
		}
	}
	return progress, newlyAchieved, nil
}
