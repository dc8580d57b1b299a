package domain

import "time"

// PosSession states
const (
	SessionStateIdle     = "Idle"
	SessionStateBuilding = "Building"
	SessionStateCheckout = "Checkout"
)

// PosSessionState represents the state of a POS session.
//
// An order identity lives in at most one of the parked/inactive bookkeeping
// sets at a time; pending-sync membership coexists with the active
// designation until the order is synced online.
type PosSessionState struct {
	SessionID          string
	ShiftID            string
	TerminalID         string
	State              string
	ActiveOrderID      string
	ParkedOrderIDs     map[string]struct{}
	InactiveOrderIDs   map[string]struct{}
	PendingSyncOrderIDs map[string]struct{}
	Ended              bool
}

// PosSessionAggregate is the aggregate for a POS session
type PosSessionAggregate struct {
	*AggregateBase
	State PosSessionState
}

// NewPosSessionAggregate creates an empty session aggregate bound to an identity
func NewPosSessionAggregate(id string) *PosSessionAggregate {
	aggregate := &PosSessionAggregate{
		State: PosSessionState{
			SessionID:           id,
			ParkedOrderIDs:      make(map[string]struct{}),
			InactiveOrderIDs:    make(map[string]struct{}),
			PendingSyncOrderIDs: make(map[string]struct{}),
		},
	}
	aggregate.AggregateBase = NewAggregateBase(id, "pos_session", aggregate.applyEvent)
	return aggregate
}

// StartSession creates a new session bound to a shift and terminal, in Idle state
func StartSession(id, shiftID, terminalID string) (*PosSessionAggregate, error) {
	aggregate := NewPosSessionAggregate(id)
	err := aggregate.Apply(SessionStartedEvent{
		SessionID:  id,
		ShiftID:    shiftID,
		TerminalID: terminalID,
		StartedAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// ActiveOrderID returns the active order identity, or "" if none
func (a *PosSessionAggregate) ActiveOrderID() string {
	return a.State.ActiveOrderID
}

// HasActiveOrder reports whether an order is currently active
func (a *PosSessionAggregate) HasActiveOrder() bool {
	return a.State.ActiveOrderID != ""
}

// StartNewOrder starts building a new order
func (a *PosSessionAggregate) StartNewOrder(orderID string) error {
	if a.HasActiveOrder() {
		return NewInvariantViolation("Cannot start new order when an order is already active")
	}

	return a.Apply(NewOrderStartedEvent{
		SessionID: a.State.SessionID,
		OrderID:   orderID,
		StartedAt: time.Now(),
	})
}

// StartNewOrderOffline starts building a new order created while offline.
// The command identity is recorded in the event so the offline command can
// be replayed idempotently.
func (a *PosSessionAggregate) StartNewOrderOffline(orderID, commandID string) error {
	if a.HasActiveOrder() {
		return NewInvariantViolation("Cannot start new order when an order is already active")
	}

	return a.Apply(OrderCreatedOfflineEvent{
		SessionID: a.State.SessionID,
		OrderID:   orderID,
		CommandID: commandID,
		CreatedAt: time.Now(),
	})
}

// ParkOrder moves the active order into the parked set
func (a *PosSessionAggregate) ParkOrder() error {
	if !a.HasActiveOrder() {
		return NewInvariantViolation("No active order to park")
	}

	return a.Apply(OrderParkedEvent{
		SessionID: a.State.SessionID,
		OrderID:   a.State.ActiveOrderID,
		ParkedAt:  time.Now(),
	})
}

// ResumeOrder makes a parked order the active order again
func (a *PosSessionAggregate) ResumeOrder(orderID string) error {
	if a.HasActiveOrder() {
		return NewInvariantViolation("Cannot resume order when an order is already active")
	}

	if _, ok := a.State.ParkedOrderIDs[orderID]; !ok {
		return NewInvariantViolation("Order is not in parked list")
	}

	return a.Apply(OrderResumedEvent{
		SessionID: a.State.SessionID,
		OrderID:   orderID,
		ResumedAt: time.Now(),
	})
}

// DeactivateOrder moves the active order into the inactive set (TTL-driven)
func (a *PosSessionAggregate) DeactivateOrder(reason string) error {
	if !a.HasActiveOrder() {
		return NewInvariantViolation("No active order to deactivate")
	}

	return a.Apply(OrderDeactivatedEvent{
		SessionID:     a.State.SessionID,
		OrderID:       a.State.ActiveOrderID,
		Reason:        reason,
		DeactivatedAt: time.Now(),
	})
}

// ReactivateOrder makes an inactive order the active order again. The
// caller must re-confirm inventory availability before invoking this.
func (a *PosSessionAggregate) ReactivateOrder(orderID string) error {
	if a.HasActiveOrder() {
		return NewInvariantViolation("Cannot reactivate order when an order is already active")
	}

	if _, ok := a.State.InactiveOrderIDs[orderID]; !ok {
		return NewInvariantViolation("Order is not in inactive list")
	}

	return a.Apply(OrderReactivatedEvent{
		SessionID:     a.State.SessionID,
		OrderID:       orderID,
		ReactivatedAt: time.Now(),
	})
}

// MarkOrderPendingSync flags the active order as awaiting online creation.
// The order stays active until synced.
func (a *PosSessionAggregate) MarkOrderPendingSync(orderID string) error {
	if a.State.ActiveOrderID != orderID {
		return NewInvariantViolation("Order %q is not the active order", orderID)
	}

	return a.Apply(OrderMarkedPendingSyncEvent{
		SessionID: a.State.SessionID,
		OrderID:   orderID,
		MarkedAt:  time.Now(),
	})
}

// SyncOrderOnline signals that a pending-sync order now has an online counterpart
func (a *PosSessionAggregate) SyncOrderOnline(orderID string) error {
	if _, ok := a.State.PendingSyncOrderIDs[orderID]; !ok {
		return NewInvariantViolation("Order %q is not pending sync", orderID)
	}

	return a.Apply(OrderSyncedOnlineEvent{
		SessionID: a.State.SessionID,
		OrderID:   orderID,
		SyncedAt:  time.Now(),
	})
}

// InitiateCheckout transitions the session from Building to Checkout
func (a *PosSessionAggregate) InitiateCheckout() error {
	if !a.HasActiveOrder() {
		return NewInvariantViolation("No active order to checkout")
	}

	if a.State.State != SessionStateBuilding {
		return NewInvariantViolation("Can only initiate checkout from Building state")
	}

	return a.Apply(CheckoutInitiatedEvent{
		SessionID:   a.State.SessionID,
		OrderID:     a.State.ActiveOrderID,
		InitiatedAt: time.Now(),
	})
}

// RequestPayment records a requested payment during checkout. External
// authorization happens at the handler layer, around this call.
func (a *PosSessionAggregate) RequestPayment(amount Money, paymentMethod string) error {
	if !a.HasActiveOrder() {
		return NewInvariantViolation("No active order for payment")
	}

	if a.State.State != SessionStateCheckout {
		return NewInvariantViolation("Can only request payment in Checkout state")
	}

	return a.Apply(PaymentRequestedEvent{
		SessionID:     a.State.SessionID,
		OrderID:       a.State.ActiveOrderID,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		RequestedAt:   time.Now(),
	})
}

// CompleteOrder completes the active order and returns the session to Idle
func (a *PosSessionAggregate) CompleteOrder() error {
	if !a.HasActiveOrder() {
		return NewInvariantViolation("No active order to complete")
	}

	if a.State.State != SessionStateCheckout {
		return NewInvariantViolation("Can only complete order in Checkout state")
	}

	return a.Apply(OrderCompletedEvent{
		SessionID:   a.State.SessionID,
		OrderID:     a.State.ActiveOrderID,
		CompletedAt: time.Now(),
	})
}

// CancelOrder cancels the active order and returns the session to Idle
func (a *PosSessionAggregate) CancelOrder(reason string) error {
	if !a.HasActiveOrder() {
		return NewInvariantViolation("No active order to cancel")
	}

	return a.Apply(OrderCancelledEvent{
		SessionID:   a.State.SessionID,
		OrderID:     a.State.ActiveOrderID,
		Reason:      reason,
		CancelledAt: time.Now(),
	})
}

// End ends the session. Rejected while an order is active.
func (a *PosSessionAggregate) End() error {
	if a.HasActiveOrder() {
		return NewInvariantViolation("Cannot end session with an active order")
	}

	return a.Apply(SessionEndedEvent{
		SessionID: a.State.SessionID,
		EndedAt:   time.Now(),
	})
}

// applyEvent applies an event to the session aggregate
func (a *PosSessionAggregate) applyEvent(event interface{}) {
	switch e := event.(type) {
	case SessionStartedEvent:
		a.State.SessionID = e.SessionID
		a.State.ShiftID = e.ShiftID
		a.State.TerminalID = e.TerminalID
		a.State.State = SessionStateIdle

	case NewOrderStartedEvent:
		a.State.ActiveOrderID = e.OrderID
		a.State.State = SessionStateBuilding

	case OrderCreatedOfflineEvent:
		a.State.ActiveOrderID = e.OrderID
		a.State.State = SessionStateBuilding
		a.State.PendingSyncOrderIDs[e.OrderID] = struct{}{}

	case OrderParkedEvent:
		a.State.ParkedOrderIDs[e.OrderID] = struct{}{}
		a.State.ActiveOrderID = ""
		a.State.State = SessionStateIdle

	case OrderResumedEvent:
		delete(a.State.ParkedOrderIDs, e.OrderID)
		a.State.ActiveOrderID = e.OrderID
		a.State.State = SessionStateBuilding

	case OrderDeactivatedEvent:
		a.State.InactiveOrderIDs[e.OrderID] = struct{}{}
		a.State.ActiveOrderID = ""
		a.State.State = SessionStateIdle

	case OrderReactivatedEvent:
		delete(a.State.InactiveOrderIDs, e.OrderID)
		a.State.ActiveOrderID = e.OrderID
		a.State.State = SessionStateBuilding

	case OrderMarkedPendingSyncEvent:
		a.State.PendingSyncOrderIDs[e.OrderID] = struct{}{}

	case OrderSyncedOnlineEvent:
		delete(a.State.PendingSyncOrderIDs, e.OrderID)

	case CheckoutInitiatedEvent:
		a.State.State = SessionStateCheckout

	case PaymentRequestedEvent:
		// no state change; the payment itself lives in the payment BC

	case OrderCompletedEvent:
		a.State.ActiveOrderID = ""
		a.State.State = SessionStateIdle

	case OrderCancelledEvent:
		a.State.ActiveOrderID = ""
		a.State.State = SessionStateIdle

	case SessionEndedEvent:
		a.State.ActiveOrderID = ""
		a.State.State = SessionStateIdle
		a.State.Ended = true
	}
}
