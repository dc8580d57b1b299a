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

// TerminalProjector maintains the terminal read model
type TerminalProjector struct {
	db            *gorm.DB
	elasticClient *elasticsearch.Client
	cfg           config.Config
}

// NewTerminalProjector creates a new terminal projector
func NewTerminalProjector(db *gorm.DB, elasticClient *elasticsearch.Client, cfg config.Config) *TerminalProjector {
	return &TerminalProjector{
		db:            db,
		elasticClient: elasticClient,
		cfg:           cfg,
	}
}

// Project projects an event
func (p *TerminalProjector) Project(ctx context.Context, event domain.Event) error {
	data, ok := event.Data.([]byte)
	if !ok {
		return fmt.Errorf("unexpected data type for event %s", event.ID)
	}

	payload, err := domain.DecodeEventData(event.Type, data)
	if err != nil {
		return err
	}

	switch e := payload.(type) {
	case domain.TerminalRegisteredEvent:
		terminal := models.Terminal{
			TerminalID:   e.TerminalID,
			BranchID:     e.BranchID,
			Name:         e.Name,
			Status:       domain.TerminalStatusActive,
			Version:      event.Version,
			RegisteredAt: e.RegisteredAt,
			CreatedAt:    event.Timestamp,
			UpdatedAt:    event.Timestamp,
		}
		if err := p.db.WithContext(ctx).Create(&terminal).Error; err != nil {
			return fmt.Errorf("failed to create terminal in database: %w", err)
		}
		if err := p.indexTerminal(ctx, e.TerminalID); err != nil {
			return err
		}

	case domain.TerminalActivatedEvent:
		if err := p.updateTerminal(ctx, event, e.TerminalID, map[string]interface{}{
			"status": domain.TerminalStatusActive,
		}); err != nil {
			return err
		}

	case domain.TerminalDisabledEvent:
		if err := p.updateTerminal(ctx, event, e.TerminalID, map[string]interface{}{
			"status": domain.TerminalStatusDisabled,
		}); err != nil {
			return err
		}

	case domain.TerminalMaintenanceSetEvent:
		if err := p.updateTerminal(ctx, event, e.TerminalID, map[string]interface{}{
			"status": domain.TerminalStatusMaintenance,
		}); err != nil {
			return err
		}

	case domain.TerminalDecommissionedEvent:
		if err := p.updateTerminal(ctx, event, e.TerminalID, map[string]interface{}{
			"status": domain.TerminalStatusDecommissioned,
		}); err != nil {
			return err
		}

	case domain.TerminalRecommissionedEvent:
		if err := p.updateTerminal(ctx, event, e.TerminalID, map[string]interface{}{
			"status": domain.TerminalStatusDisabled,
		}); err != nil {
			return err
		}

	case domain.TerminalRenamedEvent:
		if err := p.updateTerminal(ctx, event, e.TerminalID, map[string]interface{}{
			"name": e.NewName,
		}); err != nil {
			return err
		}

	case domain.TerminalReassignedEvent:
		if err := p.updateTerminal(ctx, event, e.TerminalID, map[string]interface{}{
			"branch_id": e.NewBranchID,
		}); err != nil {
			return err
		}

	default:
		return nil
	}

	return indexDocument(ctx, p.elasticClient, FormatIndex(PosEventsIndex, p.cfg), event.ID, event)
}

// updateTerminal applies the update fields to the terminal row and re-indexes it
func (p *TerminalProjector) updateTerminal(ctx context.Context, event domain.Event, terminalID string, updateFields map[string]interface{}) error {
	updateFields["version"] = event.Version
	updateFields["updated_at"] = event.Timestamp

	if err := p.db.WithContext(ctx).Model(&models.Terminal{}).
		Where("terminal_id = ?", terminalID).
		Updates(updateFields).Error; err != nil {
		return fmt.Errorf("failed to update terminal in database: %w", err)
	}

	return p.indexTerminal(ctx, terminalID)
}

// indexTerminal indexes the current terminal row in Elasticsearch
func (p *TerminalProjector) indexTerminal(ctx context.Context, terminalID string) error {
	var terminal models.Terminal
	if err := p.db.WithContext(ctx).
		Where("terminal_id = ?", terminalID).
		First(&terminal).Error; err != nil {
		return fmt.Errorf("failed to get terminal from database: %w", err)
	}

	return indexDocument(ctx, p.elasticClient, FormatIndex(TerminalsIndex, p.cfg), terminalID, terminal)
}
