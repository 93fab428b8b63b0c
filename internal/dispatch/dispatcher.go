// Package dispatch executes state-changing backend calls and keeps the query
// cache consistent. Every action carries a declarative set of cache patterns
// to invalidate on success; nothing is invalidated on failure, so views keep
// showing the last confirmed state. There is no optimistic update: the design
// is confirm-then-invalidate.
package dispatch

import (
	"context"
	"errors"
	"log"
	"sync"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/querycache"
)

// ErrInFlight means the same action for the same resource is already being
// submitted; the duplicate trigger is rejected rather than queued.
var ErrInFlight = errors.New("action already in flight")

type callFunc func(ctx context.Context) (any, error)

// Dispatcher guards and routes mutations.
type Dispatcher struct {
	store   *querycache.Store
	backend *backend.Client

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates a dispatcher over the given query store and backend client.
func New(store *querycache.Store, client *backend.Client) *Dispatcher {
	return &Dispatcher{
		store:    store,
		backend:  client,
		inflight: make(map[string]struct{}),
	}
}

// dispatch runs one guarded mutation. guard identifies the (action, resource)
// pair for duplicate suppression; invalidates lists the cache patterns that
// depend on the mutated resource.
func (d *Dispatcher) dispatch(ctx context.Context, guard string, invalidates []string, call callFunc) (any, error) {
	if !d.begin(guard) {
		return nil, ErrInFlight
	}
	defer d.end(guard)

	out, err := call(ctx)
	if err != nil {
		return nil, err
	}

	d.store.Invalidate(ctx, invalidates...)
	log.Printf("[Dispatcher] %s confirmed, invalidated %d pattern(s)", guard, len(invalidates))
	return out, nil
}

func (d *Dispatcher) begin(guard string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.inflight[guard]; dup {
		return false
	}
	d.inflight[guard] = struct{}{}
	return true
}

func (d *Dispatcher) end(guard string) {
	d.mu.Lock()
	delete(d.inflight, guard)
	d.mu.Unlock()
}
