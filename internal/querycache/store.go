package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// FetchFunc loads the current value of a query from the backend.
type FetchFunc func(ctx context.Context) (any, error)

// StoreConfig tunes the store's freshness policy.
type StoreConfig struct {
	// TTL is the freshness window; entries older than this are served
	// stale while a re-fetch runs behind them. Default 30s.
	TTL time.Duration

	// Retention is how long the backend keeps an entry at all. Default 20m.
	Retention time.Duration

	// FetchTimeout bounds each fetch. Fetches run detached from the
	// requesting context so a navigating consumer does not cancel a fetch
	// other consumers joined. Default 30s.
	FetchTimeout time.Duration
}

// Stats are the store's observability counters.
type Stats struct {
	Hits          int64 `json:"hits"`
	StaleHits     int64 `json:"stale_hits"`
	Misses        int64 `json:"misses"`
	Refreshes     int64 `json:"refreshes"`
	Discarded     int64 `json:"discarded"`
	Invalidations int64 `json:"invalidations"`
	TrackedKeys   int   `json:"tracked_keys"`
}

// Store is the process-wide cached query store. It guarantees at most one
// in-flight fetch per key (concurrent readers join the existing fetch) and
// rejects stale responses: a fetch whose key was invalidated after the
// request was issued never overwrites the cache.
type Store struct {
	backend      Backend
	ttl          time.Duration
	retention    time.Duration
	fetchTimeout time.Duration

	mu       sync.Mutex
	flights  map[string]*flight
	gens     map[string]uint64
	fetchers map[string]FetchFunc

	hits          atomic.Int64
	staleHits     atomic.Int64
	misses        atomic.Int64
	refreshes     atomic.Int64
	discarded     atomic.Int64
	invalidations atomic.Int64
}

// flight is one in-flight fetch, shared by every reader that joined it.
type flight struct {
	done chan struct{}
	data json.RawMessage
	err  error
}

// NewStore creates a query store over the given backend.
func NewStore(backend Backend, cfg StoreConfig) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 20 * time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Store{
		backend:      backend,
		ttl:          cfg.TTL,
		retention:    cfg.Retention,
		fetchTimeout: cfg.FetchTimeout,
		flights:      make(map[string]*flight),
		gens:         make(map[string]uint64),
		fetchers:     make(map[string]FetchFunc),
	}
}

// Resolve returns the best known value for key. Fresh entries are served
// directly. Aged-out entries are served immediately with stale=true while a
// re-fetch runs in the background. Missing or invalidated entries block on a
// fresh fetch; if that fetch fails and invalidated data exists, the old data
// is returned as a stale fallback together with the fetch error.
func (s *Store) Resolve(ctx context.Context, key string, fetch FetchFunc) (json.RawMessage, bool, error) {
	s.Register(key, fetch)

	var fallback *Entry
	entry, err := s.backend.Get(ctx, key)
	switch {
	case err == nil && !entry.Stale && time.Since(entry.FetchedAt) <= s.ttl:
		s.hits.Add(1)
		return entry.Data, false, nil

	case err == nil && !entry.Stale:
		s.staleHits.Add(1)
		s.launch(key, fetch)
		return entry.Data, true, nil

	case err == nil:
		fallback = entry

	case !errors.Is(err, ErrNoEntry):
		log.Printf("[QueryStore] backend get %s: %v", key, err)
	}

	s.misses.Add(1)
	fl := s.launch(key, fetch)
	select {
	case <-fl.done:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}

	if fl.err != nil {
		if fallback != nil {
			return fallback.Data, true, fl.err
		}
		return nil, false, fl.err
	}
	return fl.data, false, nil
}

// Resolve fetches key through store s and decodes the cached envelope into T.
// A non-nil value may be returned together with an error when the store falls
// back to invalidated data after a failed fetch.
func Resolve[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (*T, error)) (*T, bool, error) {
	raw, stale, err := s.Resolve(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if raw == nil {
		return nil, stale, err
	}
	var v T
	if jerr := json.Unmarshal(raw, &v); jerr != nil {
		return nil, stale, jerr
	}
	return &v, stale, err
}

// Register associates a fetcher with a key so Refresh and the poller can
// re-issue the query without a consumer read. The last registration wins.
func (s *Store) Register(key string, fetch FetchFunc) {
	s.mu.Lock()
	s.fetchers[key] = fetch
	s.mu.Unlock()
}

// Refresh re-issues the query for key using its registered fetcher, without
// waiting for the result. Reports whether a fetcher was known. A refresh
// that races a consumer read shares the same fetch.
func (s *Store) Refresh(key string) bool {
	s.mu.Lock()
	fetch, ok := s.fetchers[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.refreshes.Add(1)
	s.launch(key, fetch)
	return true
}

// Invalidate marks every entry matching the patterns stale and supersedes
// any fetch currently in flight for them. Patterns ending in '*' match by
// prefix, anything else matches exactly.
func (s *Store) Invalidate(ctx context.Context, patterns ...string) {
	for _, pattern := range patterns {
		prefix, byPrefix := strings.CutSuffix(pattern, "*")

		s.mu.Lock()
		for key := range s.fetchers {
			if (byPrefix && strings.HasPrefix(key, prefix)) || (!byPrefix && key == pattern) {
				s.gens[key]++
			}
		}
		s.mu.Unlock()

		if _, err := s.backend.MarkStale(ctx, pattern); err != nil {
			log.Printf("[QueryStore] invalidate %s: %v", pattern, err)
		}
		s.invalidations.Add(1)
	}
}

// Clear drops every cached entry. Keys re-fetch lazily on next read.
func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx)
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	keys := len(s.fetchers)
	s.mu.Unlock()
	return Stats{
		Hits:          s.hits.Load(),
		StaleHits:     s.staleHits.Load(),
		Misses:        s.misses.Load(),
		Refreshes:     s.refreshes.Load(),
		Discarded:     s.discarded.Load(),
		Invalidations: s.invalidations.Load(),
		TrackedKeys:   keys,
	}
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// launch starts a fetch for key unless one is already in flight, in which
// case the existing flight is returned for joining.
func (s *Store) launch(key string, fetch FetchFunc) *flight {
	s.mu.Lock()
	if fl, ok := s.flights[key]; ok {
		s.mu.Unlock()
		return fl
	}
	fl := &flight{done: make(chan struct{})}
	s.flights[key] = fl
	gen := s.gens[key]
	s.mu.Unlock()

	go s.runFlight(key, gen, fl, fetch)
	return fl
}

// runFlight executes one fetch. The result is handed to every joined reader,
// but it only overwrites the cache if the key's generation is unchanged: an
// invalidation issued while the request was outstanding supersedes it.
func (s *Store) runFlight(key string, gen uint64, fl *flight, fetch FetchFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	v, err := fetch(ctx)
	var raw json.RawMessage
	if err == nil {
		raw, err = json.Marshal(v)
	}

	s.mu.Lock()
	delete(s.flights, key)
	superseded := s.gens[key] != gen
	s.mu.Unlock()

	fl.data, fl.err = raw, err
	close(fl.done)

	if err != nil {
		log.Printf("[QueryStore] fetch %s: %v", key, err)
		return
	}
	if superseded {
		s.discarded.Add(1)
		return
	}

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	entry := &Entry{Data: raw, FetchedAt: time.Now()}
	if err := s.backend.Set(sctx, key, entry, s.retention); err != nil {
		log.Printf("[QueryStore] backend set %s: %v", key, err)
	}
}
