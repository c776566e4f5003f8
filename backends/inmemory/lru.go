package inmemory

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUBackend implements SnapshotBackend using LRU eviction policy.
// When full, the least recently used snapshot is dropped.
type LRUBackend[E comparable] struct {
	mu    *sync.RWMutex
	cache *lru.Cache[string, map[E]int]
}

// NewLRUBackend creates a new LRU backend holding at most capacity snapshots
func NewLRUBackend[E comparable](capacity int) (*LRUBackend[E], error) {
	lruCache, err := lru.New[string, map[E]int](capacity)
	if err != nil {
		return nil, err
	}

	return &LRUBackend[E]{
		mu:    &sync.RWMutex{},
		cache: lruCache,
	}, nil
}

// Add merges counts into the named snapshot
func (b *LRUBackend[E]) Add(ctx context.Context, name string, counts map[E]int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot, ok := b.cache.Get(name)
	if !ok {
		snapshot = make(map[E]int, len(counts))
	}
	for e, c := range counts {
		snapshot[e] += c
	}
	b.cache.Add(name, snapshot)
	return nil
}

// Get returns a copy of the named snapshot
func (b *LRUBackend[E]) Get(ctx context.Context, name string) (map[E]int, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot, ok := b.cache.Get(name)
	if !ok {
		return nil, false, nil
	}

	out := make(map[E]int, len(snapshot))
	for e, c := range snapshot {
		out[e] = c
	}
	return out, true, nil
}

// Delete removes a snapshot from the LRU cache
func (b *LRUBackend[E]) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cache.Remove(name)
	return nil
}

// Contains checks if a snapshot exists without affecting recency
func (b *LRUBackend[E]) Contains(ctx context.Context, name string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.cache.Contains(name), nil
}

// Names returns the stored snapshot names, oldest first
func (b *LRUBackend[E]) Names(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.cache.Keys(), nil
}

// Flush clears all snapshots
func (b *LRUBackend[E]) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cache.Purge()
	return nil
}

// Len returns the number of snapshots in the LRU cache
func (b *LRUBackend[E]) Len(ctx context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.cache.Len(), nil
}

// Close closes the LRU backend (no-op for in-memory)
func (b *LRUBackend[E]) Close() error {
	return nil
}
