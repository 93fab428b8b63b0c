// Package querycache is the process-wide cached query store backing the
// dashboard views. Entries are keyed by (resource kind, canonical parameters)
// and served stale-while-revalidate: reads return the best known value
// immediately and trigger a background re-fetch when the entry has aged out.
// Mutations invalidate entries by key pattern, forcing the next read to fetch
// fresh data.
package querycache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is the stored envelope for one resolved query.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
	// Stale marks an entry explicitly invalidated by a mutation. Unlike
	// age-based staleness, a stale entry must not be served as current:
	// the next read blocks on a fresh fetch and falls back to the stale
	// data only if that fetch fails.
	Stale bool `json:"stale"`
}

// Backend abstracts entry storage so the store can run on process memory or
// on a shared Redis between dashboard replicas.
type Backend interface {
	// Get retrieves an entry. Returns ErrNoEntry if absent.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores an entry, evicted after the retention period.
	Set(ctx context.Context, key string, entry *Entry, retention time.Duration) error

	// Delete removes an entry.
	Delete(ctx context.Context, key string) error

	// MarkStale flags entries matching the pattern. A pattern ending in
	// '*' matches by prefix, anything else matches exactly. Returns the
	// number of entries flagged.
	MarkStale(ctx context.Context, pattern string) (int, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// StoreError is a sentinel error type for backend conditions.
type StoreError string

func (e StoreError) Error() string { return string(e) }

const (
	// ErrNoEntry indicates the key has never been fetched (or was evicted).
	ErrNoEntry StoreError = "no cache entry"
)
