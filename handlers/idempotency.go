package handlers

import (
	"context"
	"sync"
)

// IdempotencyRegistry records which command identities have already
// produced effects, so at-least-once delivery of offline-originated
// commands does not double-apply them. Implementations must make the
// check-then-act sequence safe under concurrent deliveries.
type IdempotencyRegistry interface {
	HasBeenProcessed(ctx context.Context, commandID string) (bool, error)
	MarkAsProcessed(ctx context.Context, commandID string) error
}

// MemoryIdempotencyRegistry is a mutex-guarded in-process registry
type MemoryIdempotencyRegistry struct {
	mu        sync.Mutex
	processed map[string]struct{}
}

// NewMemoryIdempotencyRegistry creates an empty registry
func NewMemoryIdempotencyRegistry() *MemoryIdempotencyRegistry {
	return &MemoryIdempotencyRegistry{
		processed: make(map[string]struct{}),
	}
}

// HasBeenProcessed reports whether the command has already been processed
func (r *MemoryIdempotencyRegistry) HasBeenProcessed(ctx context.Context, commandID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.processed[commandID]
	return ok, nil
}

// MarkAsProcessed records the command as processed
func (r *MemoryIdempotencyRegistry) MarkAsProcessed(ctx context.Context, commandID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.processed[commandID] = struct{}{}
	return nil
}
