package eventstore

import (
	"context"

	"example.com/storebunk/services/pos/domain"
)

// EventStore is the interface for event storage. Each aggregate identity
// scopes one independent append-only stream.
type EventStore interface {
	// Save appends an aggregate's pending events unconditionally
	// (last-writer-wins)
	Save(ctx context.Context, aggregate domain.Aggregate) error

	// SaveWithVersion appends an aggregate's pending events only if the
	// stream currently holds exactly expectedVersion events; otherwise it
	// returns a ConcurrencyError and appends nothing. The check and the
	// append are a single critical section.
	SaveWithVersion(ctx context.Context, aggregate domain.Aggregate, expectedVersion int) error

	// Load replays all events for the aggregate's identity into it, in
	// append order. Returns a NotFoundError if the stream is empty.
	Load(ctx context.Context, aggregate domain.Aggregate) error

	// Exists checks if any events exist for an aggregate identity
	Exists(ctx context.Context, aggregateID string) (bool, error)

	// GetEvents gets all events for an aggregate identity
	GetEvents(ctx context.Context, aggregateID string) ([]domain.Event, error)

	// GetUnprocessedEvents gets events not yet picked up by the projection worker
	GetUnprocessedEvents(ctx context.Context, limit int) ([]domain.Event, error)

	// MarkEventAsProcessed marks an event as consumed by the projection worker
	MarkEventAsProcessed(ctx context.Context, eventID string) error
}
