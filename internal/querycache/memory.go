package querycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memEntry wraps a stored entry with its eviction deadline.
type memEntry struct {
	entry     Entry
	expiresAt time.Time
}

func (e *memEntry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// MemoryBackend is an in-process implementation of Backend. Use it for
// single-instance deployments and tests.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]*memEntry

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewMemoryBackend creates an in-memory backend with automatic eviction of
// entries past their retention.
func NewMemoryBackend() *MemoryBackend {
	b := &MemoryBackend{
		entries:         make(map[string]*memEntry),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go b.cleanup()

	return b
}

// Get retrieves an entry by key.
func (b *MemoryBackend) Get(ctx context.Context, key string) (*Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	me, ok := b.entries[key]
	if !ok || me.expired() {
		return nil, ErrNoEntry
	}

	entry := me.entry
	return &entry, nil
}

// Set stores an entry with the given retention.
func (b *MemoryBackend) Set(ctx context.Context, key string, entry *Entry, retention time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[key] = &memEntry{
		entry:     *entry,
		expiresAt: time.Now().Add(retention),
	}

	return nil
}

// Delete removes an entry by key.
func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, key)
	return nil
}

// MarkStale flags entries matching the pattern as invalidated.
func (b *MemoryBackend) MarkStale(ctx context.Context, pattern string) (int, error) {
	prefix, byPrefix := strings.CutSuffix(pattern, "*")

	b.mu.Lock()
	defer b.mu.Unlock()

	flagged := 0
	for key, me := range b.entries {
		if me.expired() {
			continue
		}
		if byPrefix && !strings.HasPrefix(key, prefix) {
			continue
		}
		if !byPrefix && key != pattern {
			continue
		}
		me.entry.Stale = true
		flagged++
	}
	return flagged, nil
}

// Clear removes all entries.
func (b *MemoryBackend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = make(map[string]*memEntry)
	return nil
}

// Close stops the background eviction goroutine.
func (b *MemoryBackend) Close() error {
	b.stopOnce.Do(func() { close(b.stopCleanup) })
	return nil
}

// cleanup periodically evicts expired entries.
func (b *MemoryBackend) cleanup() {
	ticker := time.NewTicker(b.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.evictExpired()
		case <-b.stopCleanup:
			return
		}
	}
}

func (b *MemoryBackend) evictExpired() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, me := range b.entries {
		if me.expired() {
			delete(b.entries, key)
		}
	}
}
