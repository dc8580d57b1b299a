package repository

import (
	"context"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/eventstore"
)

// TerminalRepository loads and stores Terminal aggregates through the event store
type TerminalRepository struct {
	store eventstore.EventStore
}

// NewTerminalRepository creates a new terminal repository
func NewTerminalRepository(store eventstore.EventStore) *TerminalRepository {
	return &TerminalRepository{store: store}
}

// Load replays the terminal's event stream into a fresh aggregate.
// Returns a NotFoundError if no events exist for the identity.
func (r *TerminalRepository) Load(ctx context.Context, terminalID string) (*domain.TerminalAggregate, error) {
	aggregate := domain.NewTerminalAggregate(terminalID)
	if err := r.store.Load(ctx, aggregate); err != nil {
		return nil, err
	}
	return aggregate, nil
}

// Store appends the aggregate's pending events (last-writer-wins)
func (r *TerminalRepository) Store(ctx context.Context, aggregate *domain.TerminalAggregate) error {
	return r.store.Save(ctx, aggregate)
}

// StoreWithVersion appends the aggregate's pending events under an
// optimistic version check
func (r *TerminalRepository) StoreWithVersion(ctx context.Context, aggregate *domain.TerminalAggregate, expectedVersion int) error {
	return r.store.SaveWithVersion(ctx, aggregate, expectedVersion)
}

// Exists checks whether any events exist for the identity
func (r *TerminalRepository) Exists(ctx context.Context, terminalID string) (bool, error) {
	return r.store.Exists(ctx, terminalID)
}
