// Package poll re-issues a fixed set of queries on a wall-clock interval so
// time-sensitive widgets (scheduler status, dashboard counters) stay current
// without user action. Polling and mutation-triggered invalidation are
// independent triggers into the same query store; the store's single-flight
// guard deduplicates when both fire at once.
package poll

import (
	"log"
	"sync"
	"time"

	"flipops-dashboard/internal/querycache"
)

// Poller refreshes its target keys while at least one subscriber is active.
// The ticker starts on the first subscription and stops when the last
// subscriber releases.
type Poller struct {
	store    *querycache.Store
	interval time.Duration
	keys     []string

	mu      sync.Mutex
	subs    int
	stop    chan struct{}
	running bool
}

// New creates a poller for the given query keys. Each key must have a
// fetcher registered on the store (via Store.Register or a prior Resolve)
// before its refreshes can do anything.
func New(store *querycache.Store, interval time.Duration, keys ...string) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		store:    store,
		interval: interval,
		keys:     keys,
	}
}

// Subscribe registers a consumer and returns its release function. The first
// subscriber starts the polling loop and triggers an immediate refresh; the
// release of the last subscriber stops it. Release is idempotent.
func (p *Poller) Subscribe() (release func()) {
	p.mu.Lock()
	p.subs++
	if !p.running {
		p.running = true
		p.stop = make(chan struct{})
		go p.run(p.stop)
	}
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(p.release)
	}
}

func (p *Poller) release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subs--
	if p.subs == 0 && p.running {
		close(p.stop)
		p.running = false
	}
}

// Active reports whether the polling loop is currently running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) run(stop chan struct{}) {
	log.Printf("[Poller] Started - interval %v, %d key(s)", p.interval, len(p.keys))

	p.refreshAll()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.refreshAll()
		case <-stop:
			log.Printf("[Poller] Stopped")
			return
		}
	}
}

func (p *Poller) refreshAll() {
	for _, key := range p.keys {
		if !p.store.Refresh(key) {
			log.Printf("[Poller] no fetcher registered for %s, skipping", key)
		}
	}
}
