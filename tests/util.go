package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradecalc/core"
	logsvc "github.com/trezcool/gradecalc/services/logger"
	"github.com/trezcool/gradecalc/storage/kvrepos"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

// Repos bundles the repositories of a fresh in-memory store.
type Repos struct {
	Store    *kvstore.MemoryStore
	DB       *kvrepos.DB
	History  *kvrepos.HistoryRepository
	Subjects *kvrepos.SubjectRepository
	Goal     *kvrepos.GoalRepository
	Prefs    *kvrepos.Preferences
}

// OpenRepos opens every repository on an empty memory store. Watches stop when the test ends.
func OpenRepos(t *testing.T, logger ...core.Logger) *Repos {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var log core.Logger = logsvc.NewNopLogger()
	if len(logger) > 0 {
		log = logger[0]
	}

	r := &Repos{Store: kvstore.NewMemoryStore()}
	r.DB = kvrepos.NewDB(r.Store, log)

	var err error
	r.History, err = kvrepos.NewHistoryRepository(ctx, r.DB)
	require.NoError(t, err, "opening history repository")
	r.Subjects, err = kvrepos.NewSubjectRepository(ctx, r.DB)
	require.NoError(t, err, "opening subject repository")
	r.Goal, err = kvrepos.NewGoalRepository(ctx, r.DB)
	require.NoError(t, err, "opening goal repository")
	r.Prefs = kvrepos.NewPreferences(r.DB)
	return r
}
