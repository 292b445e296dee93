package kvrepos

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gradecalc/core/gwa"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

// GoalRepository keeps the goal under gwaGoal (absent when unset) and the
// last seen achieved state under gwaGoalAchieved ("true" or "false").
type GoalRepository struct {
	db       *DB
	mu       sync.RWMutex
	goal     *gwa.Goal
	achieved bool

	subsMu sync.Mutex
	subs   []func()
}

var _ gwa.GoalRepository = (*GoalRepository)(nil)

func NewGoalRepository(ctx context.Context, db *DB) (*GoalRepository, error) {
	repo := &GoalRepository{db: db}
	if err := repo.load(ctx); err != nil {
		return nil, err
	}
	if w, ok := db.Store.(kvstore.Watcher); ok {
		reload := func() {
			go func() {
				if err := repo.load(ctx); err != nil {
					db.Log.Error("reloading goal", err)
					return
				}
				repo.notify()
			}()
		}
		for _, key := range []string{kvstore.KeyGoal, kvstore.KeyGoalAchieved} {
			if err := w.Watch(ctx, key, reload); err != nil {
				return nil, errors.Wrapf(err, "watching %s", key)
			}
		}
	}
	return repo, nil
}

func (repo *GoalRepository) load(ctx context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	goalData, goalFound, err := repo.db.Store.Get(ctx, kvstore.KeyGoal)
	if err != nil {
		return errors.Wrapf(err, "loading %s", kvstore.KeyGoal)
	}
	achievedData, achievedFound, err := repo.db.Store.Get(ctx, kvstore.KeyGoalAchieved)
	if err != nil {
		return errors.Wrapf(err, "loading %s", kvstore.KeyGoalAchieved)
	}

	var goal *gwa.Goal
	if goalFound && len(goalData) > 0 && string(goalData) != "null" {
		var g gwa.Goal
		if err = json.Unmarshal(goalData, &g); err != nil {
			repo.db.Log.Warn("discarding stored data", errors.Wrap(ErrMalformedData, err.Error()), map[string]interface{}{"key": kvstore.KeyGoal})
		} else {
			goal = &g
		}
	}
	var achieved bool
	if achievedFound {
		if achieved, err = strconv.ParseBool(string(achievedData)); err != nil {
			repo.db.Log.Warn("discarding stored data", errors.Wrap(ErrMalformedData, err.Error()), map[string]interface{}{"key": kvstore.KeyGoalAchieved})
			achieved = false
		}
	}

	repo.goal, repo.achieved = goal, achieved
	return nil
}

func (repo *GoalRepository) GetGoal(context.Context) (*gwa.Goal, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	if repo.goal == nil {
		return nil, nil
	}
	g := *repo.goal
	return &g, nil
}

func (repo *GoalRepository) SetGoal(ctx context.Context, g gwa.Goal) error {
	b, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "encoding goal")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err = repo.db.Store.Set(ctx, kvstore.KeyGoal, b); err != nil {
		return errors.Wrap(err, "saving goal")
	}
	repo.goal = &g
	return nil
}

func (repo *GoalRepository) ClearGoal(ctx context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.db.Store.Delete(ctx, kvstore.KeyGoal); err != nil {
		return errors.Wrap(err, "clearing goal")
	}
	repo.goal = nil
	return nil
}

func (repo *GoalRepository) GoalAchieved(context.Context) (bool, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.achieved, nil
}

func (repo *GoalRepository) SetGoalAchieved(ctx context.Context, achieved bool) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.db.Store.Set(ctx, kvstore.KeyGoalAchieved, []byte(strconv.FormatBool(achieved))); err != nil {
		return errors.Wrap(err, "saving goal state")
	}
	repo.achieved = achieved
	return nil
}

// Subscribe registers fn to run after every reload caused by a write to the goal keys.
func (repo *GoalRepository) Subscribe(fn func()) {
	repo.subsMu.Lock()
	repo.subs = append(repo.subs, fn)
	repo.subsMu.Unlock()
}

func (repo *GoalRepository) notify() {
	repo.subsMu.Lock()
	subs := append([]func(){}, repo.subs...)
	repo.subsMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
