package projections

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v7"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/config"
	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/models"
)

// SessionProjector maintains the POS session read model and the per-order
// residency rows the enforcement checks and lifecycle sweeps query
type SessionProjector struct {
	db            *gorm.DB
	elasticClient *elasticsearch.Client
	cfg           config.Config
}

// NewSessionProjector creates a new session projector
func NewSessionProjector(db *gorm.DB, elasticClient *elasticsearch.Client, cfg config.Config) *SessionProjector {
	return &SessionProjector{
		db:            db,
		elasticClient: elasticClient,
		cfg:           cfg,
	}
}

// Project projects an event
func (p *SessionProjector) Project(ctx context.Context, event domain.Event) error {
	data, ok := event.Data.([]byte)
	if !ok {
		return fmt.Errorf("unexpected data type for event %s", event.ID)
	}

	payload, err := domain.DecodeEventData(event.Type, data)
	if err != nil {
		return err
	}

	switch e := payload.(type) {
	case domain.SessionStartedEvent:
		session := models.PosSession{
			SessionID:      e.SessionID,
			ShiftID:        e.ShiftID,
			TerminalID:     e.TerminalID,
			State:          domain.SessionStateIdle,
			Version:        event.Version,
			LastActivityAt: event.Timestamp,
			StartedAt:      e.StartedAt,
			CreatedAt:      event.Timestamp,
			UpdatedAt:      event.Timestamp,
		}
		if err := p.db.WithContext(ctx).Create(&session).Error; err != nil {
			return fmt.Errorf("failed to create session in database: %w", err)
		}

	case domain.NewOrderStartedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": &e.OrderID,
			"state":           domain.SessionStateBuilding,
		}); err != nil {
			return err
		}
		if err := p.createOrder(ctx, event, e.SessionID, e.OrderID, false); err != nil {
			return err
		}

	case domain.OrderCreatedOfflineEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": &e.OrderID,
			"state":           domain.SessionStateBuilding,
		}); err != nil {
			return err
		}
		if err := p.createOrder(ctx, event, e.SessionID, e.OrderID, true); err != nil {
			return err
		}

	case domain.OrderParkedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": nil,
			"state":           domain.SessionStateIdle,
		}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"residency": models.ResidencyParked,
		}); err != nil {
			return err
		}

	case domain.OrderResumedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": &e.OrderID,
			"state":           domain.SessionStateBuilding,
		}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"residency": models.ResidencyActive,
		}); err != nil {
			return err
		}

	case domain.OrderDeactivatedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": nil,
			"state":           domain.SessionStateIdle,
		}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"residency": models.ResidencyInactive,
		}); err != nil {
			return err
		}

	case domain.OrderReactivatedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": &e.OrderID,
			"state":           domain.SessionStateBuilding,
		}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"residency": models.ResidencyActive,
		}); err != nil {
			return err
		}

	case domain.OrderMarkedPendingSyncEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"pending_sync": true,
		}); err != nil {
			return err
		}

	case domain.OrderSyncedOnlineEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"pending_sync": false,
		}); err != nil {
			return err
		}

	case domain.CheckoutInitiatedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"state": domain.SessionStateCheckout,
		}); err != nil {
			return err
		}

	case domain.PaymentRequestedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{}); err != nil {
			return err
		}

	case domain.OrderCompletedEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": nil,
			"state":           domain.SessionStateIdle,
		}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"residency": models.ResidencyCompleted,
		}); err != nil {
			return err
		}

	case domain.OrderCancelledEvent:
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"active_order_id": nil,
			"state":           domain.SessionStateIdle,
		}); err != nil {
			return err
		}
		if err := p.updateOrder(ctx, event, e.OrderID, map[string]interface{}{
			"residency": models.ResidencyCancelled,
		}); err != nil {
			return err
		}

	case domain.SessionEndedEvent:
		endedAt := e.EndedAt
		if err := p.updateSession(ctx, event, e.SessionID, map[string]interface{}{
			"state":    domain.SessionStateIdle,
			"ended":    true,
			"ended_at": &endedAt,
		}); err != nil {
			return err
		}

	default:
		return nil
	}

	if err := p.indexSession(ctx, sessionIDOf(payload)); err != nil {
		return err
	}

	return indexDocument(ctx, p.elasticClient, FormatIndex(PosEventsIndex, p.cfg), event.ID, event)
}

// sessionIDOf extracts the session identity from a decoded session payload
func sessionIDOf(payload interface{}) string {
	switch e := payload.(type) {
	case domain.SessionStartedEvent:
		return e.SessionID
	case domain.NewOrderStartedEvent:
		return e.SessionID
	case domain.OrderCreatedOfflineEvent:
		return e.SessionID
	case domain.OrderParkedEvent:
		return e.SessionID
	case domain.OrderResumedEvent:
		return e.SessionID
	case domain.OrderDeactivatedEvent:
		return e.SessionID
	case domain.OrderReactivatedEvent:
		return e.SessionID
	case domain.OrderMarkedPendingSyncEvent:
		return e.SessionID
	case domain.OrderSyncedOnlineEvent:
		return e.SessionID
	case domain.CheckoutInitiatedEvent:
		return e.SessionID
	case domain.PaymentRequestedEvent:
		return e.SessionID
	case domain.OrderCompletedEvent:
		return e.SessionID
	case domain.OrderCancelledEvent:
		return e.SessionID
	case domain.SessionEndedEvent:
		return e.SessionID
	default:
		return ""
	}
}

// updateSession applies the update fields to the session row. Every session
// event bumps version and last activity.
func (p *SessionProjector) updateSession(ctx context.Context, event domain.Event, sessionID string, updateFields map[string]interface{}) error {
	updateFields["version"] = event.Version
	updateFields["last_activity_at"] = event.Timestamp
	updateFields["updated_at"] = event.Timestamp

	if err := p.db.WithContext(ctx).Model(&models.PosSession{}).
		Where("session_id = ?", sessionID).
		Updates(updateFields).Error; err != nil {
		return fmt.Errorf("failed to update session in database: %w", err)
	}

	return nil
}

// createOrder inserts the residency row binding an order to its session
// and terminal
func (p *SessionProjector) createOrder(ctx context.Context, event domain.Event, sessionID, orderID string, pendingSync bool) error {
	var session models.PosSession
	if err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error; err != nil {
		return fmt.Errorf("failed to get session from database: %w", err)
	}

	order := models.SessionOrder{
		OrderID:     orderID,
		SessionID:   sessionID,
		TerminalID:  session.TerminalID,
		Residency:   models.ResidencyActive,
		PendingSync: pendingSync,
		CreatedAt:   event.Timestamp,
		UpdatedAt:   event.Timestamp,
	}
	if err := p.db.WithContext(ctx).Create(&order).Error; err != nil {
		return fmt.Errorf("failed to create session order in database: %w", err)
	}

	return nil
}

// updateOrder applies the update fields to the order residency row
func (p *SessionProjector) updateOrder(ctx context.Context, event domain.Event, orderID string, updateFields map[string]interface{}) error {
	updateFields["updated_at"] = event.Timestamp

	if err := p.db.WithContext(ctx).Model(&models.SessionOrder{}).
		Where("order_id = ?", orderID).
		Updates(updateFields).Error; err != nil {
		return fmt.Errorf("failed to update session order in database: %w", err)
	}

	return nil
}

// indexSession indexes the current session row in Elasticsearch
func (p *SessionProjector) indexSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	var session models.PosSession
	if err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error; err != nil {
		return fmt.Errorf("failed to get session from database: %w", err)
	}

	return indexDocument(ctx, p.elasticClient, FormatIndex(PosSessionsIndex, p.cfg), sessionID, session)
}
