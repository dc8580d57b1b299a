package repository

import (
	"context"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/eventstore"
)

// PosSessionRepository loads and stores PosSession aggregates through the event store
type PosSessionRepository struct {
	store eventstore.EventStore
}

// NewPosSessionRepository creates a new session repository
func NewPosSessionRepository(store eventstore.EventStore) *PosSessionRepository {
	return &PosSessionRepository{store: store}
}

// Load replays the session's event stream into a fresh aggregate.
// Returns a NotFoundError if no events exist for the identity.
func (r *PosSessionRepository) Load(ctx context.Context, sessionID string) (*domain.PosSessionAggregate, error) {
	aggregate := domain.NewPosSessionAggregate(sessionID)
	if err := r.store.Load(ctx, aggregate); err != nil {
		return nil, err
	}
	return aggregate, nil
}

// Store appends the aggregate's pending events (last-writer-wins)
func (r *PosSessionRepository) Store(ctx context.Context, aggregate *domain.PosSessionAggregate) error {
	return r.store.Save(ctx, aggregate)
}

// StoreWithVersion appends the aggregate's pending events under an
// optimistic version check
func (r *PosSessionRepository) StoreWithVersion(ctx context.Context, aggregate *domain.PosSessionAggregate, expectedVersion int) error {
	return r.store.SaveWithVersion(ctx, aggregate, expectedVersion)
}

// Exists checks whether any events exist for the identity
func (r *PosSessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	return r.store.Exists(ctx, sessionID)
}
