// Package inflight tracks keys with work currently in progress, giving the
// narrative pipeline its at-most-one-concurrent-request-per-key guarantee.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"
)

// Registry records in-flight keys. Begin is the atomic check-and-set that
// makes duplicate suppression race-free under concurrent HTTP handlers.
type Registry interface {
	// Begin atomically marks key as in flight. Returns false if the key
	// was already marked, in which case the caller must not start work.
	Begin(ctx context.Context, key string) bool

	// End clears the marker. Callers must End on success and failure
	// alike so a failed key stays eligible for retry.
	End(ctx context.Context, key string)

	// Active reports whether key is currently marked.
	Active(ctx context.Context, key string) bool

	// Size returns the number of in-flight keys.
	Size() int64
}

// inMemoryRegistry implements Registry with a mutex-guarded set.
type inMemoryRegistry struct {
	mu   sync.RWMutex
	keys map[string]struct{}
	size atomic.Int64
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() Registry {
	return &inMemoryRegistry{keys: make(map[string]struct{})}
}

func (r *inMemoryRegistry) Begin(ctx context.Context, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key]; exists {
		return false
	}
	r.keys[key] = struct{}{}
	r.size.Add(1)
	return true
}

func (r *inMemoryRegistry) End(ctx context.Context, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key]; exists {
		delete(r.keys, key)
		r.size.Add(-1)
	}
}

func (r *inMemoryRegistry) Active(ctx context.Context, key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.keys[key]
	return exists
}

func (r *inMemoryRegistry) Size() int64 {
	return r.size.Load()
}
