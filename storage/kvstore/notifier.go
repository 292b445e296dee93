package kvstore

import (
	"context"
	"sync"
)

// notifier fans out in-process key change notifications.
type notifier struct {
	mu   sync.Mutex
	seq  int
	subs map[string]map[int]func()
}

func (n *notifier) subscribe(ctx context.Context, key string, fn func()) {
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[string]map[int]func())
	}
	if n.subs[key] == nil {
		n.subs[key] = make(map[int]func())
	}
	n.seq++
	id := n.seq
	n.subs[key][id] = fn
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs[key], id)
		n.mu.Unlock()
	}()
}

// notify runs the callbacks outside the lock so they may read the store.
func (n *notifier) notify(key string) {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs[key]))
	for _, fn := range n.subs[key] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
