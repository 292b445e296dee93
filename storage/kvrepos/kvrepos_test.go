package kvrepos

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/gwa"
	"github.com/trezcool/gradecalc/core/history"
	logsvc "github.com/trezcool/gradecalc/services/logger"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

func newTestDB(t *testing.T) (*DB, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewDB(store, logsvc.NewNopLogger()), store
}

func frozenNow(t *testing.T, now time.Time) {
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = time.Now })
}

func TestHistoryRepository(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frozenNow(t, time.UnixMilli(1_700_000_000_000))

	db, store := newTestDB(t)
	repo, err := NewHistoryRepository(ctx, db)
	require.NoError(t, err)

	recs, err := repo.QueryAllRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	a, err := repo.CreateRecord(ctx, history.Record{FinalGrade: "78.00", Title: "a"})
	require.NoError(t, err)
	b, err := repo.CreateRecord(ctx, history.Record{FinalGrade: "80.00", Title: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_000), a.ID)
	assert.Equal(t, a.ID+1, b.ID, "unique within the same millisecond")

	recs, _ = repo.QueryAllRecords(ctx)
	require.Len(t, recs, 2)
	assert.Equal(t, []int64{b.ID, a.ID}, []int64{recs[0].ID, recs[1].ID}, "newest first")

	// returned slices are copies
	recs[0].Title = "changed"
	got, err := repo.GetRecordByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)

	a.Title = "a2"
	_, err = repo.UpdateRecord(ctx, a)
	require.NoError(t, err)
	_, err = repo.UpdateRecord(ctx, history.Record{ID: 1})
	assert.Equal(t, history.ErrNotFound, err)

	assert.Equal(t, history.ErrNotFound, repo.DeleteRecord(ctx, 1))
	require.NoError(t, repo.DeleteRecord(ctx, b.ID))

	// written through
	raw, found, _ := store.Get(ctx, kvstore.KeyHistory)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":1700000000000,"prelims":"","midterm":"","prefinals":"","finals":"","finalGrade":"78.00","timestamp":"","title":"a2"}]`, string(raw))

	// a fresh repository reads the persisted state
	repo2, err := NewHistoryRepository(ctx, db)
	require.NoError(t, err)
	recs, _ = repo2.QueryAllRecords(ctx)
	require.Len(t, recs, 1)
	assert.Equal(t, "a2", recs[0].Title)

	require.NoError(t, repo.ClearRecords(ctx))
	raw, _, _ = store.Get(ctx, kvstore.KeyHistory)
	assert.Equal(t, "[]", string(raw))
}

func TestHistoryRepository_idsAboveStoredMax(t *testing.T) {
	ctx := context.Background()
	db, store := newTestDB(t)
	require.NoError(t, store.Set(ctx, kvstore.KeyHistory, []byte(`[{"id":5000,"finalGrade":"75.00"}]`)))
	frozenNow(t, time.UnixMilli(1000))

	repo, err := NewHistoryRepository(ctx, db)
	require.NoError(t, err)
	rec, err := repo.CreateRecord(ctx, history.Record{})
	require.NoError(t, err)
	assert.Equal(t, int64(5001), rec.ID)
}

func TestRepositories_malformedData(t *testing.T) {
	ctx := context.Background()
	db, store := newTestDB(t)
	require.NoError(t, store.Set(ctx, kvstore.KeyHistory, []byte(`{not json`)))
	require.NoError(t, store.Set(ctx, kvstore.KeySubjects, []byte(`{"id":1}`)))
	require.NoError(t, store.Set(ctx, kvstore.KeyGoal, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, kvstore.KeyGoalAchieved, []byte(`maybe`)))

	hRepo, err := NewHistoryRepository(ctx, db)
	require.NoError(t, err)
	recs, _ := hRepo.QueryAllRecords(ctx)
	assert.Empty(t, recs)

	sRepo, err := NewSubjectRepository(ctx, db)
	require.NoError(t, err)
	subjects, _ := sRepo.QueryAllSubjects(ctx)
	assert.Empty(t, subjects)

	gRepo, err := NewGoalRepository(ctx, db)
	require.NoError(t, err)
	g, _ := gRepo.GetGoal(ctx)
	assert.Nil(t, g)
	achieved, _ := gRepo.GoalAchieved(ctx)
	assert.False(t, achieved)

	// the next write replaces the bad data
	_, err = hRepo.CreateRecord(ctx, history.Record{FinalGrade: "90.00"})
	require.NoError(t, err)
	raw, _, _ := store.Get(ctx, kvstore.KeyHistory)
	assert.Contains(t, string(raw), `"finalGrade":"90.00"`)
}

func TestSubjectRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	repo, err := NewSubjectRepository(ctx, db)
	require.NoError(t, err)

	a, _ := repo.CreateSubject(ctx, gwa.Subject{Name: "Algebra", Units: 3, Grade: 1.25})
	b, _ := repo.CreateSubject(ctx, gwa.Subject{Name: "Biology", Units: 2, Grade: 2.00})
	c, _ := repo.CreateSubject(ctx, gwa.Subject{Name: "Chemistry", Units: 1, Grade: 1.00})
	assert.True(t, a.ID < b.ID && b.ID < c.ID)

	subjects, _ := repo.QueryAllSubjects(ctx)
	assert.Equal(t, []string{"Algebra", "Biology", "Chemistry"}, names(subjects), "insertion order")

	b.Grade = 1.50
	_, err = repo.UpdateSubject(ctx, b)
	require.NoError(t, err)
	subjects, _ = repo.QueryAllSubjects(ctx)
	assert.Equal(t, 1.50, subjects[1].Grade)

	_, err = repo.UpdateSubject(ctx, gwa.Subject{ID: -1})
	assert.Equal(t, gwa.ErrSubjectNotFound, err)
	_, err = repo.GetSubjectByID(ctx, -1)
	assert.Equal(t, gwa.ErrSubjectNotFound, err)

	require.NoError(t, repo.DeleteSubject(ctx, b.ID))
	assert.Equal(t, gwa.ErrSubjectNotFound, repo.DeleteSubject(ctx, b.ID))
	subjects, _ = repo.QueryAllSubjects(ctx)
	assert.Equal(t, []string{"Algebra", "Chemistry"}, names(subjects))

	require.NoError(t, repo.ClearSubjects(ctx))
	subjects, _ = repo.QueryAllSubjects(ctx)
	assert.Empty(t, subjects)
}

func names(subjects []gwa.Subject) []string {
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, s.Name)
	}
	return out
}

func TestSubjectRepository_reloadsForeignWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	db, _ := newTestDB(t)

	mine, err := NewSubjectRepository(ctx, db)
	require.NoError(t, err)
	other, err := NewSubjectRepository(ctx, db)
	require.NoError(t, err)

	var mineCalls, otherCalls int32
	mine.Subscribe(func() { atomic.AddInt32(&mineCalls, 1) })
	other.Subscribe(func() { atomic.AddInt32(&otherCalls, 1) })

	_, err = other.CreateSubject(ctx, gwa.Subject{Name: "Algebra", Units: 3, Grade: 1.00})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		subjects, _ := mine.QueryAllSubjects(ctx)
		return len(subjects) == 1 && atomic.LoadInt32(&mineCalls) == 1
	}, 2*time.Second, 10*time.Millisecond)
	// a repository is not notified of its own writes
	assert.Never(t, func() bool { return atomic.LoadInt32(&otherCalls) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestGoalRepository(t *testing.T) {
	ctx := context.Background()
	db, store := newTestDB(t)
	repo, err := NewGoalRepository(ctx, db)
	require.NoError(t, err)

	g, err := repo.GetGoal(ctx)
	require.NoError(t, err)
	assert.Nil(t, g)

	created := time.Date(2025, 3, 14, 16, 5, 9, 0, time.UTC)
	require.NoError(t, repo.SetGoal(ctx, gwa.Goal{TargetGWA: 1.75, CreatedAt: created}))
	require.NoError(t, repo.SetGoalAchieved(ctx, true))

	raw, _, _ := store.Get(ctx, kvstore.KeyGoal)
	assert.JSONEq(t, `{"targetGWA":1.75,"createdAt":"2025-03-14T16:05:09Z"}`, string(raw))
	raw, _, _ = store.Get(ctx, kvstore.KeyGoalAchieved)
	assert.Equal(t, "true", string(raw))

	repo2, err := NewGoalRepository(ctx, db)
	require.NoError(t, err)
	g, _ = repo2.GetGoal(ctx)
	require.NotNil(t, g)
	assert.Equal(t, 1.75, g.TargetGWA)
	assert.True(t, g.CreatedAt.Equal(created))
	achieved, _ := repo2.GoalAchieved(ctx)
	assert.True(t, achieved)

	require.NoError(t, repo.ClearGoal(ctx))
	g, _ = repo.GetGoal(ctx)
	assert.Nil(t, g)
	_, found, _ := store.Get(ctx, kvstore.KeyGoal)
	assert.False(t, found)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	prefs := NewPreferences(db)

	theme, err := prefs.Get(ctx, kvstore.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, theme)
	layout, err := prefs.Get(ctx, kvstore.KeyHistoryLayout)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryLayout, layout)

	require.NoError(t, prefs.Set(ctx, kvstore.KeyTheme, " dark "))
	theme, _ = prefs.Get(ctx, kvstore.KeyTheme)
	assert.Equal(t, "dark", theme)

	tests := []struct {
		name, key, value string
		wantValidation   bool
	}{
		{name: "bad theme", key: kvstore.KeyTheme, value: "neon", wantValidation: true},
		{name: "bad layout", key: kvstore.KeyHistoryLayout, value: "table", wantValidation: true},
		{name: "blank", key: kvstore.KeyHistoryLayout, value: " ", wantValidation: true},
		{name: "unknown key", key: "fontSize", value: "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := prefs.Set(ctx, tt.key, tt.value)
			require.Error(t, err)
			var vErr *core.ValidationError
			assert.Equal(t, tt.wantValidation, errors.As(err, &vErr))
		})
	}
}
