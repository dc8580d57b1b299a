package eventstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/domain"
)

// MemoryEventStore is an in-memory event store. It is the source of truth
// for tests and demo wiring; durability is delegated to whatever store an
// implementer plugs in behind the same interface. The version check and
// the append happen under one lock, so no other append for the same
// identity can interleave.
type MemoryEventStore struct {
	mu        sync.Mutex
	streams   map[string][]domain.Event
	appendLog []string
	processed map[string]bool
	byEventID map[string]domain.Event
}

// NewMemoryEventStore creates an empty in-memory event store
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		streams:   make(map[string][]domain.Event),
		processed: make(map[string]bool),
		byEventID: make(map[string]domain.Event),
	}
}

// Save appends an aggregate's pending events unconditionally
func (s *MemoryEventStore) Save(ctx context.Context, aggregate domain.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(aggregate)
	return nil
}

// SaveWithVersion appends an aggregate's pending events under an
// optimistic version check
func (s *MemoryEventStore) SaveWithVersion(ctx context.Context, aggregate domain.Aggregate, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actual := len(s.streams[aggregate.GetID()])
	if actual != expectedVersion {
		return domain.NewConcurrency(aggregate.GetID(), expectedVersion, actual)
	}

	s.append(aggregate)
	return nil
}

// append drains the aggregate's pending events into its stream.
// Caller must hold the lock.
func (s *MemoryEventStore) append(aggregate domain.Aggregate) {
	for _, event := range aggregate.PopEvents() {
		event.ID = uuid.New().String()
		s.streams[event.AggregateID] = append(s.streams[event.AggregateID], event)
		s.appendLog = append(s.appendLog, event.ID)
		s.byEventID[event.ID] = event

		log.Debug().
			Str("aggregateID", event.AggregateID).
			Str("eventType", event.Type).
			Int("version", event.Version).
			Msg("Event saved")
	}
}

// Load replays all events for the aggregate's identity into it
func (s *MemoryEventStore) Load(ctx context.Context, aggregate domain.Aggregate) error {
	s.mu.Lock()
	events, ok := s.streams[aggregate.GetID()]
	history := make([]domain.Event, len(events))
	copy(history, events)
	s.mu.Unlock()

	if !ok || len(history) == 0 {
		return domain.NewNotFound(aggregate.GetType(), aggregate.GetID())
	}

	return aggregate.LoadFromHistory(history)
}

// Exists checks if any events exist for an aggregate identity
func (s *MemoryEventStore) Exists(ctx context.Context, aggregateID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.streams[aggregateID]) > 0, nil
}

// GetEvents gets all events for an aggregate identity
func (s *MemoryEventStore) GetEvents(ctx context.Context, aggregateID string) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.streams[aggregateID]
	out := make([]domain.Event, len(events))
	copy(out, events)
	return out, nil
}

// GetUnprocessedEvents gets events not yet marked processed, in append order
func (s *MemoryEventStore) GetUnprocessedEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Event
	for _, eventID := range s.appendLog {
		if s.processed[eventID] {
			continue
		}
		out = append(out, s.byEventID[eventID])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// MarkEventAsProcessed marks an event as consumed by the projection worker
func (s *MemoryEventStore) MarkEventAsProcessed(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[eventID] = true
	return nil
}
