package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/repository"
)

type StartSessionCommand struct {
	SessionID  string `json:"session_id" validate:"required,uuid4"`
	ShiftID    string `json:"shift_id" validate:"required"`
	TerminalID string `json:"terminal_id" validate:"required"`
}

type StartNewOrderCommand struct {
	SessionID  string `json:"session_id" validate:"required"`
	OrderID    string `json:"order_id" validate:"required,uuid4"`
	BranchID   string `json:"branch_id" validate:"required"`
	CustomerID string `json:"customer_id"`
}

type ParkOrderCommand struct {
	SessionID string `json:"session_id" validate:"required"`
}

type ResumeOrderCommand struct {
	SessionID  string `json:"session_id" validate:"required"`
	OrderID    string `json:"order_id" validate:"required"`
	TerminalID string `json:"terminal_id" validate:"required"`
}

type DeactivateOrderCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	Reason    string `json:"reason"`
}

type ReactivateOrderCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
}

type InitiateCheckoutCommand struct {
	SessionID string `json:"session_id" validate:"required"`
}

type RequestPaymentCommand struct {
	SessionID     string       `json:"session_id" validate:"required"`
	Amount        domain.Money `json:"amount"`
	PaymentMethod string       `json:"payment_method" validate:"required"`
}

type CompleteOrderCommand struct {
	SessionID string `json:"session_id" validate:"required"`
}

type CancelOrderCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

type EndSessionCommand struct {
	SessionID string `json:"session_id" validate:"required"`
}

// SessionHandler handles the POS session's order lifecycle, coordinating
// the ordering, inventory and payment contexts around the aggregate
type SessionHandler struct {
	repo             *repository.PosSessionRepository
	shiftRepo        *repository.ShiftRepository
	enforcement      *domain.MultiTerminalEnforcementService
	sessionReadModel SessionReadModel
	ordering         domain.OrderingService
	inventory        domain.InventoryService
	payment          domain.PaymentService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	repo *repository.PosSessionRepository,
	shiftRepo *repository.ShiftRepository,
	enforcement *domain.MultiTerminalEnforcementService,
	sessionReadModel SessionReadModel,
	ordering domain.OrderingService,
	inventory domain.InventoryService,
	payment domain.PaymentService,
) *SessionHandler {
	return &SessionHandler{
		repo:             repo,
		shiftRepo:        shiftRepo,
		enforcement:      enforcement,
		sessionReadModel: sessionReadModel,
		ordering:         ordering,
		inventory:        inventory,
		payment:          payment,
	}
}

// HandleStartSession starts a session bound to an open shift
func (h *SessionHandler) HandleStartSession(ctx context.Context, cmd StartSessionCommand) error {
	log.Info().
		Str("sessionID", cmd.SessionID).
		Str("shiftID", cmd.ShiftID).
		Msg("Handling StartSession command")

	exists, err := h.repo.Exists(ctx, cmd.SessionID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewInvariantViolation("Session %q already exists", cmd.SessionID)
	}

	shift, err := h.shiftRepo.Load(ctx, cmd.ShiftID)
	if err != nil {
		return err
	}
	if shift.State.Status != domain.ShiftStatusOpen {
		return domain.NewInvariantViolation("Cannot start session on shift %q in status %s",
			cmd.ShiftID, shift.State.Status)
	}
	if shift.State.TerminalID != cmd.TerminalID {
		return domain.NewInvariantViolation("Shift %q is open on terminal %q, not %q",
			cmd.ShiftID, shift.State.TerminalID, cmd.TerminalID)
	}

	aggregate, err := domain.StartSession(cmd.SessionID, cmd.ShiftID, cmd.TerminalID)
	if err != nil {
		return err
	}

	return h.repo.Store(ctx, aggregate)
}

// HandleStartNewOrder creates a draft order in the ordering context and
// makes it the session's active order
func (h *SessionHandler) HandleStartNewOrder(ctx context.Context, cmd StartNewOrderCommand) error {
	log.Info().
		Str("sessionID", cmd.SessionID).
		Str("orderID", cmd.OrderID).
		Msg("Handling StartNewOrder command")

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if aggregate.HasActiveOrder() {
		return domain.NewInvariantViolation("Cannot start new order when an order is already active")
	}

	err = h.ordering.CreateDraftOrder(ctx, cmd.OrderID, domain.DraftOrderContext{
		BranchID:   cmd.BranchID,
		CustomerID: cmd.CustomerID,
	})
	if err != nil {
		return err
	}

	if err := aggregate.StartNewOrder(cmd.OrderID); err != nil {
		return err
	}

	return h.repo.StoreWithVersion(ctx, aggregate, expectedVersion)
}

// HandleParkOrder parks the active order so another can be served
func (h *SessionHandler) HandleParkOrder(ctx context.Context, cmd ParkOrderCommand) error {
	log.Info().Str("sessionID", cmd.SessionID).Msg("Handling ParkOrder command")

	return h.mutate(ctx, cmd.SessionID, func(a *domain.PosSessionAggregate) error {
		return a.ParkOrder()
	})
}

// HandleResumeOrder resumes a parked order. The order must be bound to the
// requesting terminal.
func (h *SessionHandler) HandleResumeOrder(ctx context.Context, cmd ResumeOrderCommand) error {
	log.Info().
		Str("sessionID", cmd.SessionID).
		Str("orderID", cmd.OrderID).
		Msg("Handling ResumeOrder command")

	binding, err := h.sessionReadModel.OrderTerminalBinding(ctx)
	if err != nil {
		return err
	}
	if err := h.enforcement.AssertOrderBelongsToTerminal(cmd.OrderID, cmd.TerminalID, binding); err != nil {
		return err
	}

	return h.mutate(ctx, cmd.SessionID, func(a *domain.PosSessionAggregate) error {
		return a.ResumeOrder(cmd.OrderID)
	})
}

// HandleDeactivateOrder deactivates the active order, releasing its soft
// inventory reservation
func (h *SessionHandler) HandleDeactivateOrder(ctx context.Context, cmd DeactivateOrderCommand) error {
	log.Info().Str("sessionID", cmd.SessionID).Msg("Handling DeactivateOrder command")

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()
	orderID := aggregate.ActiveOrderID()

	if err := aggregate.DeactivateOrder(cmd.Reason); err != nil {
		return err
	}

	if err := h.repo.StoreWithVersion(ctx, aggregate, expectedVersion); err != nil {
		return err
	}

	if err := h.inventory.ReleaseReservation(ctx, orderID); err != nil {
		log.Error().Err(err).Str("orderID", orderID).Msg("Failed to release reservation for deactivated order")
	}

	return nil
}

// HandleReactivateOrder reactivates an inactive order, but only if its
// inventory can still be re-reserved
func (h *SessionHandler) HandleReactivateOrder(ctx context.Context, cmd ReactivateOrderCommand) error {
	log.Info().
		Str("sessionID", cmd.SessionID).
		Str("orderID", cmd.OrderID).
		Msg("Handling ReactivateOrder command")

	reserved, err := h.inventory.AttemptReReservation(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if !reserved {
		return domain.NewInvariantViolation("Cannot reactivate order %q: inventory is no longer available", cmd.OrderID)
	}

	return h.mutate(ctx, cmd.SessionID, func(a *domain.PosSessionAggregate) error {
		return a.ReactivateOrder(cmd.OrderID)
	})
}

// HandleInitiateCheckout moves the session into Checkout, confirming the
// order's soft inventory reservation
func (h *SessionHandler) HandleInitiateCheckout(ctx context.Context, cmd InitiateCheckoutCommand) error {
	log.Info().Str("sessionID", cmd.SessionID).Msg("Handling InitiateCheckout command")

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()
	orderID := aggregate.ActiveOrderID()

	if err := aggregate.InitiateCheckout(); err != nil {
		return err
	}

	if err := h.inventory.ConfirmReservation(ctx, orderID); err != nil {
		return err
	}

	return h.repo.StoreWithVersion(ctx, aggregate, expectedVersion)
}

// HandleRequestPayment authorizes a payment externally, records the request
// on the session, and applies the payment to the order
func (h *SessionHandler) HandleRequestPayment(ctx context.Context, cmd RequestPaymentCommand) error {
	log.Info().
		Str("sessionID", cmd.SessionID).
		Str("paymentMethod", cmd.PaymentMethod).
		Msg("Handling RequestPayment command")

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()
	orderID := aggregate.ActiveOrderID()

	authorized, err := h.payment.RequestPaymentAuthorization(ctx, orderID, cmd.Amount, cmd.PaymentMethod)
	if err != nil {
		return err
	}
	if !authorized {
		return domain.NewInvariantViolation("Payment authorization declined for order %q", orderID)
	}

	if err := aggregate.RequestPayment(cmd.Amount, cmd.PaymentMethod); err != nil {
		return err
	}

	if err := h.repo.StoreWithVersion(ctx, aggregate, expectedVersion); err != nil {
		return err
	}

	return h.payment.ApplyPayment(ctx, orderID, cmd.Amount, cmd.PaymentMethod)
}

// HandleCompleteOrder completes the active order once it is fully paid,
// confirming it in the ordering context and fulfilling its reservation
func (h *SessionHandler) HandleCompleteOrder(ctx context.Context, cmd CompleteOrderCommand) error {
	log.Info().Str("sessionID", cmd.SessionID).Msg("Handling CompleteOrder command")

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()
	orderID := aggregate.ActiveOrderID()

	if orderID == "" {
		return domain.NewInvariantViolation("No active order to complete")
	}

	fullyPaid, err := h.ordering.IsOrderFullyPaid(ctx, orderID)
	if err != nil {
		return err
	}
	if !fullyPaid {
		return domain.NewInvariantViolation("Cannot complete order %q: order is not fully paid", orderID)
	}

	if err := aggregate.CompleteOrder(); err != nil {
		return err
	}

	if err := h.repo.StoreWithVersion(ctx, aggregate, expectedVersion); err != nil {
		return err
	}

	if err := h.ordering.ConfirmOrder(ctx, orderID); err != nil {
		return err
	}

	return h.inventory.FulfillOrderReservation(ctx, orderID)
}

// HandleCancelOrder cancels the active order, propagating the cancellation
// to the ordering context and releasing the reservation
func (h *SessionHandler) HandleCancelOrder(ctx context.Context, cmd CancelOrderCommand) error {
	log.Info().
		Str("sessionID", cmd.SessionID).
		Str("reason", cmd.Reason).
		Msg("Handling CancelOrder command")

	aggregate, err := h.repo.Load(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()
	orderID := aggregate.ActiveOrderID()

	if err := aggregate.CancelOrder(cmd.Reason); err != nil {
		return err
	}

	if err := h.repo.StoreWithVersion(ctx, aggregate, expectedVersion); err != nil {
		return err
	}

	if err := h.ordering.CancelOrder(ctx, orderID, cmd.Reason); err != nil {
		log.Error().Err(err).Str("orderID", orderID).Msg("Failed to cancel order in ordering context")
	}

	return h.inventory.ReleaseReservation(ctx, orderID)
}

// HandleEndSession ends a session. Rejected while an order is active.
func (h *SessionHandler) HandleEndSession(ctx context.Context, cmd EndSessionCommand) error {
	log.Info().Str("sessionID", cmd.SessionID).Msg("Handling EndSession command")

	return h.mutate(ctx, cmd.SessionID, func(a *domain.PosSessionAggregate) error {
		return a.End()
	})
}

// mutate runs one load-mutate-store cycle under the optimistic version
// observed at load time
func (h *SessionHandler) mutate(ctx context.Context, sessionID string, fn func(*domain.PosSessionAggregate) error) error {
	aggregate, err := h.repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	expectedVersion := aggregate.GetVersion()

	if err := fn(aggregate); err != nil {
		return err
	}

	return h.repo.StoreWithVersion(ctx, aggregate, expectedVersion)
}
