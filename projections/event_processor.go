package projections

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/models"
)

// EventProcessor drains unprocessed events from the store and projects them
type EventProcessor struct {
	db                 *gorm.DB
	terminalProjector  *TerminalProjector
	shiftProjector     *ShiftProjector
	sessionProjector   *SessionProjector
	batchSize          int
	processingInterval time.Duration
	running            bool
	mutex              sync.Mutex
	stopChan           chan struct{}
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(
	db *gorm.DB,
	terminalProjector *TerminalProjector,
	shiftProjector *ShiftProjector,
	sessionProjector *SessionProjector,
) *EventProcessor {
	return &EventProcessor{
		db:                 db,
		terminalProjector:  terminalProjector,
		shiftProjector:     shiftProjector,
		sessionProjector:   sessionProjector,
		batchSize:          100,
		processingInterval: 5 * time.Second,
		running:            false,
		stopChan:           make(chan struct{}),
	}
}

// Start starts the event processor
func (p *EventProcessor) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.running {
		return
	}

	p.running = true
	go p.processEvents()
}

// Stop stops the event processor
func (p *EventProcessor) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.running {
		return
	}

	p.running = false
	p.stopChan <- struct{}{}
}

// processEvents processes events in a loop
func (p *EventProcessor) processEvents() {
	ticker := time.NewTicker(p.processingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(); err != nil {
				log.Error().Err(err).Msg("Failed to process event batch")
			}
		case <-p.stopChan:
			return
		}
	}
}

// processBatch processes a batch of unprocessed events in timestamp order
func (p *EventProcessor) processBatch() error {
	var events []models.Event
	if err := p.db.Where("processed = ?", false).
		Order("timestamp ASC").
		Limit(p.batchSize).
		Find(&events).Error; err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	log.Info().Msgf("Processing %d events", len(events))

	for _, event := range events {
		if err := p.processEvent(event); err != nil {
			log.Error().Err(err).Str("event_id", event.EventID).Msg("Failed to process event")
			errMsg := err.Error()
			p.db.Model(&event).Updates(map[string]interface{}{
				"error": &errMsg,
			})
			continue
		}

		if err := p.db.Model(&event).Updates(map[string]interface{}{
			"processed": true,
			"error":     nil,
		}).Error; err != nil {
			log.Error().Err(err).Str("event_id", event.EventID).Msg("Failed to mark event as processed")
		}
	}

	return nil
}

// processEvent routes one event to the projector for its aggregate type
func (p *EventProcessor) processEvent(event models.Event) error {
	ctx := context.Background()

	domainEvent := domain.Event{
		ID:            event.EventID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		Type:          event.EventType,
		Version:       event.Version,
		Timestamp:     event.Timestamp,
		Data:          event.Data,
	}

	switch event.AggregateType {
	case "terminal":
		return p.terminalProjector.Project(ctx, domainEvent)
	case "shift":
		return p.shiftProjector.Project(ctx, domainEvent)
	case "pos_session":
		return p.sessionProjector.Project(ctx, domainEvent)
	default:
		log.Warn().Str("aggregate_type", event.AggregateType).Msg("Unknown aggregate type")
		return nil
	}
}
