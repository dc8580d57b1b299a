package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/repository"
)

type StartNewOrderOfflineCommand struct {
	CommandID  string `json:"command_id" validate:"required,uuid4"`
	SessionID  string `json:"session_id" validate:"required"`
	OrderID    string `json:"order_id" validate:"required,uuid4"`
	BranchID   string `json:"branch_id" validate:"required"`
	CustomerID string `json:"customer_id"`
}

type MarkOrderPendingSyncCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
}

type SyncOrderOnlineCommand struct {
	CommandID string `json:"command_id" validate:"required,uuid4"`
	SessionID string `json:"session_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
}

// OfflineHandler handles the offline order flow: creation without the
// ordering context, queuing for sync, and the sync itself. Offline
// commands arrive at least once, so every effectful one carries a command
// identity checked against the idempotency registry.
type OfflineHandler struct {
	repo        *repository.PosSessionRepository
	idempotency IdempotencyRegistry
	pendingSync *domain.PendingSyncQueue
	ordering    domain.OrderingService
}

// NewOfflineHandler creates a new offline handler
func NewOfflineHandler(
	repo *repository.PosSessionRepository,
	idempotency IdempotencyRegistry,
	pendingSync *domain.PendingSyncQueue,
	ordering domain.OrderingService,
) *OfflineHandler {
	return &OfflineHandler{
		repo:        repo,
		idempotency: idempotency,
		pendingSync: pendingSync,
		ordering:    ordering,
	}
}

// HandleStartNewOrderOffline starts an order created while offline. The
// order becomes the session's active order and is queued for online sync.
// Redelivery of the same command is a no-op.
func (h *OfflineHandler) HandleStartNewOrderOffline(ctx context.Context, cmd StartNewOrderOfflineCommand) error {
	log.Info().
		Str("commandID", cmd.CommandID).
		Str("sessionID", cmd.SessionID).
		Str("orderID", cmd.OrderID).
		Msg("Handling StartNewOrderOffline command")

	processed, err := h.idempotency.HasBeenProcessed(ctx, cmd.CommandID)
	if err != nil {
		return err
	}
	if processed {
		log.Info().Str("commandID", cmd.CommandID).Msg("Offline command already processed, skipping")
		return nil
	}

	if h.pendingSync.HasByOrderID(cmd.OrderID) {
		log.Info().Str("orderID", cmd.OrderID).Msg("Order already queued for sync, skipping")
		return h.idempotency.MarkAsProcessed(ctx, cmd.CommandID)
	}

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if err := aggregate.StartNewOrderOffline(cmd.OrderID, cmd.CommandID); err != nil {
		return err
	}

	if err := h.repo.StoreWithVersion(ctx, aggregate, expectedVersion); err != nil {
		return err
	}

	h.pendingSync.Enqueue(cmd.SessionID, cmd.OrderID, cmd.CommandID)

	return h.idempotency.MarkAsProcessed(ctx, cmd.CommandID)
}

// HandleMarkOrderPendingSync flags the session's active order as awaiting
// online creation. The order stays active and sellable.
func (h *OfflineHandler) HandleMarkOrderPendingSync(ctx context.Context, cmd MarkOrderPendingSyncCommand) error {
	log.Info().
		Str("sessionID", cmd.SessionID).
		Str("orderID", cmd.OrderID).
		Msg("Handling MarkOrderPendingSync command")

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if err := aggregate.MarkOrderPendingSync(cmd.OrderID); err != nil {
		return err
	}

	if err := h.repo.StoreWithVersion(ctx, aggregate, expectedVersion); err != nil {
		return err
	}

	h.pendingSync.Enqueue(cmd.SessionID, cmd.OrderID, "")
	return nil
}

// HandleSyncOrderOnline creates the online counterpart of an offline order
// and clears it from the pending-sync bookkeeping. Redelivery of the same
// command is a no-op.
func (h *OfflineHandler) HandleSyncOrderOnline(ctx context.Context, cmd SyncOrderOnlineCommand) error {
	log.Info().
		Str("commandID", cmd.CommandID).
		Str("sessionID", cmd.SessionID).
		Str("orderID", cmd.OrderID).
		Msg("Handling SyncOrderOnline command")

	processed, err := h.idempotency.HasBeenProcessed(ctx, cmd.CommandID)
	if err != nil {
		return err
	}
	if processed {
		log.Info().Str("commandID", cmd.CommandID).Msg("Sync command already processed, skipping")
		return nil
	}

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if err := aggregate.SyncOrderOnline(cmd.OrderID); err != nil {
		return err
	}

	err = h.ordering.CreateDraftOrder(ctx, cmd.OrderID, domain.DraftOrderContext{})
	if err != nil {
		return err
	}

	if err := h.repo.StoreWithVersion(ctx, aggregate, expectedVersion); err != nil {
		return err
	}

	h.pendingSync.DequeueByOrderID(cmd.OrderID)

	return h.idempotency.MarkAsProcessed(ctx, cmd.CommandID)
}
