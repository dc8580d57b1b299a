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

// ShiftProjector maintains the shift read model
type ShiftProjector struct {
	db            *gorm.DB
	elasticClient *elasticsearch.Client
	cfg           config.Config
}

// NewShiftProjector creates a new shift projector
func NewShiftProjector(db *gorm.DB, elasticClient *elasticsearch.Client, cfg config.Config) *ShiftProjector {
	return &ShiftProjector{
		db:            db,
		elasticClient: elasticClient,
		cfg:           cfg,
	}
}

// Project projects an event
func (p *ShiftProjector) Project(ctx context.Context, event domain.Event) error {
	data, ok := event.Data.([]byte)
	if !ok {
		return fmt.Errorf("unexpected data type for event %s", event.ID)
	}

	payload, err := domain.DecodeEventData(event.Type, data)
	if err != nil {
		return err
	}

	switch e := payload.(type) {
	case domain.ShiftOpenedEvent:
		shift := models.Shift{
			ShiftID:           e.ShiftID,
			TerminalID:        e.TerminalID,
			BranchID:          e.BranchID,
			CashierID:         e.CashierID,
			Status:            domain.ShiftStatusOpen,
			Version:           event.Version,
			Currency:          e.OpeningCashAmount.Currency,
			OpeningCashAmount: e.OpeningCashAmount.Amount,
			OpenedAt:          e.OpenedAt,
			CreatedAt:         event.Timestamp,
			UpdatedAt:         event.Timestamp,
		}
		if err := p.db.WithContext(ctx).Create(&shift).Error; err != nil {
			return fmt.Errorf("failed to create shift in database: %w", err)
		}
		if err := p.indexShift(ctx, e.ShiftID); err != nil {
			return err
		}

	case domain.CashDropRecordedEvent:
		updateFields := map[string]interface{}{
			"version":         event.Version,
			"cash_drop_total": gorm.Expr("cash_drop_total + ?", e.Amount.Amount),
			"cash_drop_count": gorm.Expr("cash_drop_count + 1"),
			"updated_at":      event.Timestamp,
		}
		if err := p.db.WithContext(ctx).Model(&models.Shift{}).
			Where("shift_id = ?", e.ShiftID).
			Updates(updateFields).Error; err != nil {
			return fmt.Errorf("failed to update shift in database: %w", err)
		}
		if err := p.indexShift(ctx, e.ShiftID); err != nil {
			return err
		}

	case domain.ShiftClosedEvent:
		declared := e.DeclaredClosingCashAmount.Amount
		expected := e.ExpectedCashAmount.Amount
		variance := e.Variance.Amount
		closedAt := e.ClosedAt
		updateFields := map[string]interface{}{
			"version":              event.Version,
			"status":               domain.ShiftStatusClosed,
			"declared_cash_amount": &declared,
			"expected_cash_amount": &expected,
			"cash_variance":        &variance,
			"closed_at":            &closedAt,
			"updated_at":           event.Timestamp,
		}
		if err := p.db.WithContext(ctx).Model(&models.Shift{}).
			Where("shift_id = ?", e.ShiftID).
			Updates(updateFields).Error; err != nil {
			return fmt.Errorf("failed to update shift in database: %w", err)
		}
		if err := p.indexShift(ctx, e.ShiftID); err != nil {
			return err
		}

	case domain.ShiftForceClosedEvent:
		closedAt := e.ForceClosedAt
		updateFields := map[string]interface{}{
			"version":    event.Version,
			"status":     domain.ShiftStatusForceClosed,
			"closed_at":  &closedAt,
			"updated_at": event.Timestamp,
		}
		if err := p.db.WithContext(ctx).Model(&models.Shift{}).
			Where("shift_id = ?", e.ShiftID).
			Updates(updateFields).Error; err != nil {
			return fmt.Errorf("failed to update shift in database: %w", err)
		}
		if err := p.indexShift(ctx, e.ShiftID); err != nil {
			return err
		}

	default:
		return nil
	}

	return indexDocument(ctx, p.elasticClient, FormatIndex(PosEventsIndex, p.cfg), event.ID, event)
}

// indexShift indexes the current shift row in Elasticsearch
func (p *ShiftProjector) indexShift(ctx context.Context, shiftID string) error {
	var shift models.Shift
	if err := p.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		First(&shift).Error; err != nil {
		return fmt.Errorf("failed to get shift from database: %w", err)
	}

	return indexDocument(ctx, p.elasticClient, FormatIndex(ShiftsIndex, p.cfg), shiftID, shift)
}
