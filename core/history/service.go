package history

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/grade"
)

var (
	// errors
	ErrNotFound = errors.New("history record not found")
)

type (
	// Repository stores Records newest first. Implementations own their collection and hand out copies.
	Repository interface {
		// CreateRecord assigns a fresh unique ID and prepends the record.
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		QueryAllRecords(ctx context.Context) ([]Record, error)
		GetRecordByID(ctx context.Context, id int64) (Record, error)
		// UpdateRecord replaces the record with the same ID in place; ErrNotFound if there is none.
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
		// DeleteRecord returns ErrNotFound if there is no record with this ID.
		DeleteRecord(ctx context.Context, id int64) error
		ClearRecords(ctx context.Context) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save computes the final grade and creates a new Record, or updates the Record with sr.ID.
// Updating an unknown ID is a no-op reported through ok == false.
func (svc *Service) Save(ctx context.Context, sr SaveRecord) (rec Record, ok bool, err error) {
	fg, err := grade.ComputeFinalGrade(sr.Grades)
	if err != nil {
		return Record{}, false, err
	}
	title := core.CleanString(sr.Title)
	now := NowFunc().Format(TimestampLayout)

	if sr.ID == 0 {
		if title == "" {
			title = DefaultTitle
		}
		rec = Record{Title: title}
	} else {
		rec, err = svc.repo.GetRecordByID(ctx, sr.ID)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return Record{}, false, nil
			}
			return Record{}, false, errors.Wrap(err, "getting history record")
		}
		if title != "" {
			rec.Title = title
		}
	}

	rec.Prelims = core.CleanString(sr.Grades.Prelims)
	rec.Midterm = core.CleanString(sr.Grades.Midterm)
	rec.Prefinals = core.CleanString(sr.Grades.Prefinals)
	rec.Finals = core.CleanString(sr.Grades.Finals)
	rec.FinalGrade = fg.String()
	rec.Timestamp = now

	if sr.ID == 0 {
		rec, err = svc.repo.CreateRecord(ctx, rec)
		if err != nil {
			return Record{}, false, errors.Wrap(err, "creating history record")
		}
		return rec, true, nil
	}
	rec, err = svc.repo.UpdateRecord(ctx, rec)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Record{}, false, nil
		}
		return Record{}, false, errors.Wrap(err, "updating history record")
	}
	return rec, true, nil
}

func (svc *Service) List(ctx context.Context) ([]Record, error) {
	return svc.repo.QueryAllRecords(ctx)
}

func (svc *Service) Get(ctx context.Context, id int64) (Record, error) {
	return svc.repo.GetRecordByID(ctx, id)
}

// Delete is a no-op for unknown IDs.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	if err := svc.repo.DeleteRecord(ctx, id); err != nil && errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "deleting history record")
	}
	return nil
}

func (svc *Service) Clear(ctx context.Context) error {
	return svc.repo.ClearRecords(ctx)
}

// Stats computes the analytics of every saved Record.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	recs, err := svc.repo.QueryAllRecords(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(recs), nil
}
