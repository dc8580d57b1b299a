package repository

import (
	"context"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/eventstore"
)

// ShiftRepository loads and stores Shift aggregates through the event store
type ShiftRepository struct {
	store eventstore.EventStore
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(store eventstore.EventStore) *ShiftRepository {
	return &ShiftRepository{store: store}
}

// Load replays the shift's event stream into a fresh aggregate.
// Returns a NotFoundError if no events exist for the identity.
func (r *ShiftRepository) Load(ctx context.Context, shiftID string) (*domain.ShiftAggregate, error) {
	aggregate := domain.NewShiftAggregate(shiftID)
	if err := r.store.Load(ctx, aggregate); err != nil {
		return nil, err
	}
	return aggregate, nil
}

// Store appends the aggregate's pending events (last-writer-wins)
func (r *ShiftRepository) Store(ctx context.Context, aggregate *domain.ShiftAggregate) error {
	return r.store.Save(ctx, aggregate)
}

// StoreWithVersion appends the aggregate's pending events under an
// optimistic version check
func (r *ShiftRepository) StoreWithVersion(ctx context.Context, aggregate *domain.ShiftAggregate, expectedVersion int) error {
	return r.store.SaveWithVersion(ctx, aggregate, expectedVersion)
}

// Exists checks whether any events exist for the identity
func (r *ShiftRepository) Exists(ctx context.Context, shiftID string) (bool, error) {
	return r.store.Exists(ctx, shiftID)
}
