package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"flipops-dashboard/internal/querycache"
)

func newStore(t *testing.T) *querycache.Store {
	t.Helper()
	store := querycache.NewStore(querycache.NewMemoryBackend(), querycache.StoreConfig{TTL: time.Minute})
	t.Cleanup(func() { store.Close() })
	return store
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPollerStartsAndStopsWithSubscribers(t *testing.T) {
	store := newStore(t)

	var fetches atomic.Int64
	store.Register("scheduler:status", func(ctx context.Context) (any, error) {
		fetches.Add(1)
		return map[string]bool{"running": true}, nil
	})

	p := New(store, 10*time.Millisecond, "scheduler:status")
	if p.Active() {
		t.Fatal("poller active before any subscriber")
	}

	release := p.Subscribe()
	if !p.Active() {
		t.Fatal("poller not active after subscribe")
	}

	// Immediate refresh plus at least one tick.
	waitFor(t, func() bool { return fetches.Load() >= 2 }, "poller never refreshed")

	release()
	waitFor(t, func() bool { return !p.Active() }, "poller still active after last release")

	// No more refreshes once stopped.
	settled := fetches.Load()
	time.Sleep(50 * time.Millisecond)
	if fetches.Load() != settled {
		t.Fatalf("poller refreshed after stop: %d -> %d", settled, fetches.Load())
	}
}

func TestPollerRefcount(t *testing.T) {
	store := newStore(t)
	store.Register("k", func(ctx context.Context) (any, error) { return 1, nil })

	p := New(store, time.Hour, "k")
	releaseA := p.Subscribe()
	releaseB := p.Subscribe()

	releaseA()
	if !p.Active() {
		t.Fatal("poller stopped while a subscriber remained")
	}

	releaseB()
	waitFor(t, func() bool { return !p.Active() }, "poller still active after all releases")
}

func TestPollerReleaseIsIdempotent(t *testing.T) {
	store := newStore(t)
	store.Register("k", func(ctx context.Context) (any, error) { return 1, nil })

	p := New(store, time.Hour, "k")
	releaseA := p.Subscribe()
	releaseB := p.Subscribe()

	releaseA()
	releaseA()
	releaseA()
	if !p.Active() {
		t.Fatal("double release stopped the poller early")
	}

	releaseB()
	waitFor(t, func() bool { return !p.Active() }, "poller still active")
}

func TestPollerRestartsAfterStop(t *testing.T) {
	store := newStore(t)

	var fetches atomic.Int64
	store.Register("k", func(ctx context.Context) (any, error) {
		fetches.Add(1)
		return 1, nil
	})

	p := New(store, time.Hour, "k")

	release := p.Subscribe()
	waitFor(t, func() bool { return fetches.Load() >= 1 }, "first run never refreshed")
	release()
	waitFor(t, func() bool { return !p.Active() }, "poller still active")

	before := fetches.Load()
	release = p.Subscribe()
	defer release()
	waitFor(t, func() bool { return fetches.Load() > before }, "second run never refreshed")
	if !p.Active() {
		t.Fatal("poller not active after resubscribe")
	}
}
