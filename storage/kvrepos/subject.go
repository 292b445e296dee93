package kvrepos

import (
	"context"

	"github.com/trezcool/gradecalc/core/gwa"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

type SubjectRepository struct {
	collection[gwa.Subject]
}

var _ gwa.SubjectRepository = (*SubjectRepository)(nil)

// NewSubjectRepository loads the gwaSubjects key. It keeps watching the key until ctx is done.
func NewSubjectRepository(ctx context.Context, db *DB) (*SubjectRepository, error) {
	repo := &SubjectRepository{}
	if err := repo.open(ctx, db, kvstore.KeySubjects); err != nil {
		return nil, err
	}
	return repo, nil
}

func (repo *SubjectRepository) maxID() int64 {
	var id int64
	for _, s := range repo.items {
		if s.ID > id {
			id = s.ID
		}
	}
	return id
}

func (repo *SubjectRepository) CreateSubject(ctx context.Context, s gwa.Subject) (gwa.Subject, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	s.ID = nextID(repo.maxID())
	subjects := append(repo.snapshot(), s)
	if err := repo.commit(ctx, subjects); err != nil {
		return gwa.Subject{}, err
	}
	return s, nil
}

func (repo *SubjectRepository) QueryAllSubjects(context.Context) ([]gwa.Subject, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.snapshot(), nil
}

func (repo *SubjectRepository) GetSubjectByID(_ context.Context, id int64) (gwa.Subject, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, s := range repo.items {
		if s.ID == id {
			return s, nil
		}
	}
	return gwa.Subject{}, gwa.ErrSubjectNotFound
}

func (repo *SubjectRepository) UpdateSubject(ctx context.Context, s gwa.Subject) (gwa.Subject, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	subjects := repo.snapshot()
	for i := range subjects {
		if subjects[i].ID == s.ID {
			subjects[i] = s
			if err := repo.commit(ctx, subjects); err != nil {
				return gwa.Subject{}, err
			}
			return s, nil
		}
	}
	return gwa.Subject{}, gwa.ErrSubjectNotFound
}

func (repo *SubjectRepository) DeleteSubject(ctx context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, s := range repo.items {
		if s.ID == id {
			subjects := make([]gwa.Subject, 0, len(repo.items)-1)
			subjects = append(subjects, repo.items[:i]...)
			subjects = append(subjects, repo.items[i+1:]...)
			return repo.commit(ctx, subjects)
		}
	}
	return gwa.ErrSubjectNotFound
}

func (repo *SubjectRepository) ClearSubjects(ctx context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.commit(ctx, make([]gwa.Subject, 0))
}
