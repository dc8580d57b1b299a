package domain

import (
	"fmt"
	"time"
)

// AggregateBase provides common aggregate functionality
type AggregateBase struct {
	id            string
	aggregateType string
	version       int
	events        []Event
	applier       func(event interface{})
}

// Aggregate is the interface for all aggregates
type Aggregate interface {
	GetID() string
	GetType() string
	GetVersion() int
	GetEvents() []Event
	PopEvents() []Event
	ClearEvents()
	Apply(event interface{}) error
	LoadFromHistory(events []Event) error
}

// NewAggregateBase creates a new aggregate base
func NewAggregateBase(id, aggregateType string, applier func(interface{})) *AggregateBase {
	return &AggregateBase{
		id:            id,
		aggregateType: aggregateType,
		version:       0,
		events:        []Event{},
		applier:       applier,
	}
}

// GetID returns the aggregate ID
func (a *AggregateBase) GetID() string {
	return a.id
}

// GetType returns the aggregate type
func (a *AggregateBase) GetType() string {
	return a.aggregateType
}

// GetVersion returns the aggregate version: the count of events applied
// since creation, live-recorded and replayed alike.
func (a *AggregateBase) GetVersion() int {
	return a.version
}

// GetEvents returns the pending (not yet persisted) events
func (a *AggregateBase) GetEvents() []Event {
	return a.events
}

// PopEvents drains and returns the pending events
func (a *AggregateBase) PopEvents() []Event {
	events := a.events
	a.events = []Event{}
	return events
}

// ClearEvents clears the pending events
func (a *AggregateBase) ClearEvents() {
	a.events = []Event{}
}

// Apply records a new event: it updates the aggregate state through the
// apply rule, wraps the payload in an envelope and appends it to the
// pending list. Invariant checks belong in the public mutating methods,
// before Apply is called; apply rules themselves never fail.
func (a *AggregateBase) Apply(event interface{}) error {
	if a.applier == nil {
		return fmt.Errorf("applier is not set")
	}

	eventType, err := eventTypeFor(event)
	if err != nil {
		return err
	}

	a.applier(event)

	a.events = append(a.events, Event{
		AggregateID:   a.id,
		AggregateType: a.aggregateType,
		Type:          eventType,
		Version:       a.version + 1,
		Timestamp:     time.Now(),
		Data:          event,
	})

	a.version++

	return nil
}

// LoadFromHistory replays historical events in order, updating state and
// version without adding to the pending list. Replay of well-formed
// history cannot fail; an unknown event type here means corrupted history.
func (a *AggregateBase) LoadFromHistory(events []Event) error {
	if a.applier == nil {
		return fmt.Errorf("applier is not set")
	}

	for _, event := range events {
		if _, err := eventTypeFor(event.Data); err != nil {
			return fmt.Errorf("corrupted history for aggregate %s: %w", a.id, err)
		}
		a.applier(event.Data)
		a.version++
	}

	return nil
}

// eventTypeFor maps an event payload struct to its type tag
func eventTypeFor(event interface{}) (string, error) {
	switch event.(type) {
	// Terminal events
	case TerminalRegisteredEvent:
		return TerminalRegistered, nil
	case TerminalActivatedEvent:
		return TerminalActivated, nil
	case TerminalDisabledEvent:
		return TerminalDisabled, nil
	case TerminalMaintenanceSetEvent:
		return TerminalMaintenanceSet, nil
	case TerminalDecommissionedEvent:
		return TerminalDecommissioned, nil
	case TerminalRecommissionedEvent:
		return TerminalRecommissioned, nil
	case TerminalRenamedEvent:
		return TerminalRenamed, nil
	case TerminalReassignedEvent:
		return TerminalReassigned, nil

	// Shift events
	case ShiftOpenedEvent:
		return ShiftOpened, nil
	case CashDropRecordedEvent:
		return CashDropRecorded, nil
	case ShiftClosedEvent:
		return ShiftClosed, nil
	case ShiftForceClosedEvent:
		return ShiftForceClosed, nil

	// PosSession events
	case SessionStartedEvent:
		return SessionStarted, nil
	case NewOrderStartedEvent:
		return NewOrderStarted, nil
	case OrderCreatedOfflineEvent:
		return OrderCreatedOffline, nil
	case OrderParkedEvent:
		return OrderParked, nil
	case OrderResumedEvent:
		return OrderResumed, nil
	case OrderDeactivatedEvent:
		return OrderDeactivated, nil
	case OrderReactivatedEvent:
		return OrderReactivated, nil
	case OrderMarkedPendingSyncEvent:
		return OrderMarkedPendingSync, nil
	case OrderSyncedOnlineEvent:
		return OrderSyncedOnline, nil
	case CheckoutInitiatedEvent:
		return CheckoutInitiated, nil
	case PaymentRequestedEvent:
		return PaymentRequested, nil
	case OrderCompletedEvent:
		return OrderCompleted, nil
	case OrderCancelledEvent:
		return OrderCancelled, nil
	case SessionEndedEvent:
		return SessionEnded, nil

	default:
		return "", fmt.Errorf("unknown event type: %T", event)
	}
}
