package eventstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/models"
)

// GormEventStore implements EventStore on a relational database using GORM.
// A unique index on (aggregate_id, version) makes the optimistic check hold
// even against writers outside this process.
type GormEventStore struct {
	db *gorm.DB
}

// NewGormEventStore creates a new GORM event store
func NewGormEventStore(db *gorm.DB) *GormEventStore {
	return &GormEventStore{db: db}
}

// Save appends an aggregate's pending events unconditionally
func (s *GormEventStore) Save(ctx context.Context, aggregate domain.Aggregate) error {
	events := aggregate.GetEvents()
	if len(events) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.appendAll(tx, events); err != nil {
			return err
		}
		aggregate.ClearEvents()
		return nil
	})
}

// SaveWithVersion appends an aggregate's pending events only if the stream
// currently holds exactly expectedVersion events
func (s *GormEventStore) SaveWithVersion(ctx context.Context, aggregate domain.Aggregate, expectedVersion int) error {
	events := aggregate.GetEvents()
	if len(events) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Event{}).
			Where("aggregate_id = ?", aggregate.GetID()).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to count events for version check")
		}

		if int(count) != expectedVersion {
			return domain.NewConcurrency(aggregate.GetID(), expectedVersion, int(count))
		}

		if err := s.appendAll(tx, events); err != nil {
			return err
		}
		aggregate.ClearEvents()
		return nil
	})
}

func (s *GormEventStore) appendAll(tx *gorm.DB, events []domain.Event) error {
	for _, event := range events {
		data, err := json.Marshal(event.Data)
		if err != nil {
			return errors.Wrap(err, "failed to marshal event data")
		}

		dbEvent := models.Event{
			EventID:       uuid.New().String(),
			AggregateID:   event.AggregateID,
			AggregateType: event.AggregateType,
			EventType:     event.Type,
			Data:          data,
			Version:       event.Version,
			Timestamp:     event.Timestamp,
			Processed:     false,
		}

		if err := tx.Create(&dbEvent).Error; err != nil {
			return errors.Wrap(err, "failed to save event")
		}

		log.Info().
			Str("aggregateID", event.AggregateID).
			Str("eventType", event.Type).
			Int("version", event.Version).
			Msg("Event saved")
	}

	return nil
}

// Load replays all events for the aggregate's identity into it
func (s *GormEventStore) Load(ctx context.Context, aggregate domain.Aggregate) error {
	aggregateID := aggregate.GetID()
	if aggregateID == "" {
		return errors.New("aggregate ID is empty")
	}

	var dbEvents []models.Event
	if err := s.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("version ASC").
		Find(&dbEvents).Error; err != nil {
		return errors.Wrap(err, "failed to load events")
	}

	if len(dbEvents) == 0 {
		return domain.NewNotFound(aggregate.GetType(), aggregateID)
	}

	history := make([]domain.Event, len(dbEvents))
	for i, dbEvent := range dbEvents {
		payload, err := domain.DecodeEventData(dbEvent.EventType, dbEvent.Data)
		if err != nil {
			return errors.Wrapf(err, "corrupted history for aggregate %s", aggregateID)
		}

		history[i] = domain.Event{
			ID:            dbEvent.EventID,
			AggregateID:   dbEvent.AggregateID,
			AggregateType: dbEvent.AggregateType,
			Type:          dbEvent.EventType,
			Version:       dbEvent.Version,
			Timestamp:     dbEvent.Timestamp,
			Data:          payload,
		}
	}

	return aggregate.LoadFromHistory(history)
}

// Exists checks if an aggregate exists
func (s *GormEventStore) Exists(ctx context.Context, aggregateID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("aggregate_id = ?", aggregateID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check if aggregate exists")
	}

	return count > 0, nil
}

// GetEvents gets all events for an aggregate
func (s *GormEventStore) GetEvents(ctx context.Context, aggregateID string) ([]domain.Event, error) {
	var dbEvents []models.Event
	if err := s.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("version ASC").
		Find(&dbEvents).Error; err != nil {
		return nil, errors.Wrap(err, "failed to get events")
	}

	return s.toDomainEvents(dbEvents)
}

// GetUnprocessedEvents gets all unprocessed events
func (s *GormEventStore) GetUnprocessedEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	var dbEvents []models.Event
	if err := s.db.WithContext(ctx).
		Where("processed = ?", false).
		Order("timestamp ASC").
		Limit(limit).
		Find(&dbEvents).Error; err != nil {
		return nil, errors.Wrap(err, "failed to get unprocessed events")
	}

	return s.toDomainEvents(dbEvents)
}

func (s *GormEventStore) toDomainEvents(dbEvents []models.Event) ([]domain.Event, error) {
	events := make([]domain.Event, len(dbEvents))
	for i, dbEvent := range dbEvents {
		payload, err := domain.DecodeEventData(dbEvent.EventType, dbEvent.Data)
		if err != nil {
			return nil, err
		}

		events[i] = domain.Event{
			ID:            dbEvent.EventID,
			AggregateID:   dbEvent.AggregateID,
			AggregateType: dbEvent.AggregateType,
			Type:          dbEvent.EventType,
			Version:       dbEvent.Version,
			Timestamp:     dbEvent.Timestamp,
			Data:          payload,
		}
	}

	return events, nil
}

// MarkEventAsProcessed marks an event as processed
func (s *GormEventStore) MarkEventAsProcessed(ctx context.Context, eventID string) error {
	if err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("event_id = ?", eventID).
		Update("processed", true).
		Update("updated_at", time.Now()).
		Error; err != nil {
		return errors.Wrap(err, "failed to mark event as processed")
	}

	return nil
}
