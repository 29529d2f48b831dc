package shutdown

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vibey_backend/core"
)

// cleanupEntry holds a registered cleanup function with metadata.
type cleanupEntry struct {
	name     string
	fn       core.ShutdownFunc
	priority int // lower = earlier execution
}

// Registry maintains an ordered collection of cleanup functions executed
// during graceful shutdown.
//
// Usage:
//
//	registry := NewRegistry()
//	registry.Register("database", 30, func(ctx context.Context) error {
//	    return repo.Close()
//	})
//	registry.Register("logger", 5, func(ctx context.Context) error {
//	    return logger.Sync()
//	})
//
//	errs := registry.RunCleanup(ctx)
type Registry struct {
	mu      sync.Mutex
	entries []cleanupEntry
	closed  bool
}

// NewRegistry creates a Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{entries: make([]cleanupEntry, 0)}
}

// Register adds a cleanup function with a name and priority.
// Lower priority values execute earlier. Registration after RunCleanup
// has been called is a no-op.
//
// Typical priority ranges:
//   - 0-9: flush logs and metrics
//   - 10-29: stop background work
//   - 30+: close databases and files
func (r *Registry) Register(name string, priority int, fn core.ShutdownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.entries = append(r.entries, cleanupEntry{name: name, fn: fn, priority: priority})
}

// RunCleanup executes all registered functions in priority order. Every
// function runs even if earlier ones fail; errors are collected with the
// entry name attached. After RunCleanup the registry is closed and further
// calls return nil.
func (r *Registry) RunCleanup(ctx context.Context) []error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true

	sorted := make([]cleanupEntry, len(r.entries))
	copy(sorted, r.entries)
	r.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})

	var errs []error
	for _, entry := range sorted {
		if entry.fn == nil {
			continue
		}
		if err := entry.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.name, err))
		}
	}
	return errs
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
