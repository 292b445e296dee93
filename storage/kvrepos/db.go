package kvrepos

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

var (
	// errors
	ErrMalformedData = errors.New("malformed stored data")

	nowFunc = time.Now // mockable
)

// DB bundles what every repository needs: the backing store and a logger for recoverable problems.
type DB struct {
	Store kvstore.Store
	Log   core.Logger
}

func NewDB(store kvstore.Store, log core.Logger) *DB {
	return &DB{Store: store, Log: log}
}

// nextID returns a millisecond timestamp, bumped above maxID so IDs stay unique within one millisecond.
func nextID(maxID int64) int64 {
	id := nowFunc().UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}

// collection is a JSON list kept in memory and written through to a single store key.
type collection[T any] struct {
	db  *DB
	key string

	mu    sync.RWMutex
	items []T
	last  []byte // last bytes read from or written to the store

	subsMu sync.Mutex
	subs   []func()
}

// open reads the key once and, when the store supports it, reloads on foreign writes until ctx is done.
func (c *collection[T]) open(ctx context.Context, db *DB, key string) error {
	c.db, c.key = db, key
	if err := c.reload(ctx); err != nil {
		return err
	}
	if w, ok := db.Store.(kvstore.Watcher); ok {
		// the store may notify synchronously from inside our own write, while c.mu is held
		onChange := func() { go c.onChange(ctx) }
		if err := w.Watch(ctx, key, onChange); err != nil {
			return errors.Wrapf(err, "watching %s", key)
		}
	}
	return nil
}

// reload replaces the in-memory items with the stored ones.
func (c *collection[T]) reload(ctx context.Context) error {
	_, err := c.refresh(ctx)
	return err
}

// refresh is reload reporting whether the stored bytes differed from the last ones seen.
func (c *collection[T]) refresh(ctx context.Context) (bool, error) {
	// held across Get so a stale read cannot overwrite a newer write
	c.mu.Lock()
	defer c.mu.Unlock()

	b, found, err := c.db.Store.Get(ctx, c.key)
	if err != nil {
		return false, errors.Wrapf(err, "loading %s", c.key)
	}
	if bytes.Equal(b, c.last) && c.items != nil {
		return false, nil
	}
	c.items = c.decode(b, found)
	c.last = b
	return true, nil
}

func (c *collection[T]) decode(b []byte, found bool) []T {
	items := make([]T, 0)
	if !found || len(bytes.TrimSpace(b)) == 0 {
		return items
	}
	if err := json.Unmarshal(b, &items); err != nil {
		c.db.Log.Warn("discarding stored data", errors.Wrap(ErrMalformedData, err.Error()), map[string]interface{}{"key": c.key})
		return make([]T, 0)
	}
	return items
}

func (c *collection[T]) onChange(ctx context.Context) {
	changed, err := c.refresh(ctx)
	if err != nil {
		c.db.Log.Error("reloading collection", err, map[string]interface{}{"key": c.key})
		return
	}
	if changed {
		c.notify()
	}
}

// snapshot returns a copy of the items. Callers must hold c.mu.
func (c *collection[T]) snapshot() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// commit persists items and, on success only, makes them current. Callers must hold c.mu for writing.
func (c *collection[T]) commit(ctx context.Context, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", c.key)
	}
	if err = c.db.Store.Set(ctx, c.key, b); err != nil {
		return errors.Wrapf(err, "saving %s", c.key)
	}
	c.items = items
	c.last = b
	return nil
}

// Subscribe registers fn to run after the collection was reloaded because another writer changed it.
func (c *collection[T]) Subscribe(fn func()) {
	c.subsMu.Lock()
	c.subs = append(c.subs, fn)
	c.subsMu.Unlock()
}

func (c *collection[T]) notify() {
	c.subsMu.Lock()
	subs := append([]func(){}, c.subs...)
	c.subsMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
