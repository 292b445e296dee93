package kvrepos

import (
	"context"

	"github.com/trezcool/gradecalc/core/history"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

type HistoryRepository struct {
	collection[history.Record]
}

var _ history.Repository = (*HistoryRepository)(nil)

// NewHistoryRepository loads the grade_history key. It keeps watching the key until ctx is done.
func NewHistoryRepository(ctx context.Context, db *DB) (*HistoryRepository, error) {
	repo := &HistoryRepository{}
	if err := repo.open(ctx, db, kvstore.KeyHistory); err != nil {
		return nil, err
	}
	return repo, nil
}

func (repo *HistoryRepository) maxID() int64 {
	var id int64
	for _, rec := range repo.items {
		if rec.ID > id {
			id = rec.ID
		}
	}
	return id
}

func (repo *HistoryRepository) CreateRecord(ctx context.Context, rec history.Record) (history.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	rec.ID = nextID(repo.maxID())
	recs := make([]history.Record, 0, len(repo.items)+1)
	recs = append(recs, rec)
	recs = append(recs, repo.items...)
	if err := repo.commit(ctx, recs); err != nil {
		return history.Record{}, err
	}
	return rec, nil
}

func (repo *HistoryRepository) QueryAllRecords(context.Context) ([]history.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.snapshot(), nil
}

func (repo *HistoryRepository) GetRecordByID(_ context.Context, id int64) (history.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, rec := range repo.items {
		if rec.ID == id {
			return rec, nil
		}
	}
	return history.Record{}, history.ErrNotFound
}

func (repo *HistoryRepository) UpdateRecord(ctx context.Context, rec history.Record) (history.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	recs := repo.snapshot()
	for i := range recs {
		if recs[i].ID == rec.ID {
			recs[i] = rec
			if err := repo.commit(ctx, recs); err != nil {
				return history.Record{}, err
			}
			return rec, nil
		}
	}
	return history.Record{}, history.ErrNotFound
}

func (repo *HistoryRepository) DeleteRecord(ctx context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, rec := range repo.items {
		if rec.ID == id {
			recs := make([]history.Record, 0, len(repo.items)-1)
			recs = append(recs, repo.items[:i]...)
			recs = append(recs, repo.items[i+1:]...)
			return repo.commit(ctx, recs)
		}
	}
	return history.ErrNotFound
}

func (repo *HistoryRepository) ClearRecords(ctx context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.commit(ctx, make([]history.Record, 0))
}
