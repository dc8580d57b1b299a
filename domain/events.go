package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType constants
const (
	// Terminal events
	TerminalRegistered     = "V1_TERMINAL_REGISTERED"
	TerminalActivated      = "V1_TERMINAL_ACTIVATED"
	TerminalDisabled       = "V1_TERMINAL_DISABLED"
	TerminalMaintenanceSet = "V1_TERMINAL_MAINTENANCE_SET"
	TerminalDecommissioned = "V1_TERMINAL_DECOMMISSIONED"
	TerminalRecommissioned = "V1_TERMINAL_RECOMMISSIONED"
	TerminalRenamed        = "V1_TERMINAL_RENAMED"
	TerminalReassigned     = "V1_TERMINAL_REASSIGNED"

	// Shift events
	ShiftOpened       = "V1_SHIFT_OPENED"
	CashDropRecorded  = "V1_SHIFT_CASH_DROP_RECORDED"
	ShiftClosed       = "V1_SHIFT_CLOSED"
	ShiftForceClosed  = "V1_SHIFT_FORCE_CLOSED"

	// PosSession events
	SessionStarted         = "V1_SESSION_STARTED"
	NewOrderStarted        = "V1_SESSION_NEW_ORDER_STARTED"
	OrderCreatedOffline    = "V1_SESSION_ORDER_CREATED_OFFLINE"
	OrderParked            = "V1_SESSION_ORDER_PARKED"
	OrderResumed           = "V1_SESSION_ORDER_RESUMED"
	OrderDeactivated       = "V1_SESSION_ORDER_DEACTIVATED"
	OrderReactivated       = "V1_SESSION_ORDER_REACTIVATED"
	OrderMarkedPendingSync = "V1_SESSION_ORDER_MARKED_PENDING_SYNC"
	OrderSyncedOnline      = "V1_SESSION_ORDER_SYNCED_ONLINE"
	CheckoutInitiated      = "V1_SESSION_CHECKOUT_INITIATED"
	PaymentRequested       = "V1_SESSION_PAYMENT_REQUESTED"
	OrderCompleted         = "V1_SESSION_ORDER_COMPLETED"
	OrderCancelled         = "V1_SESSION_ORDER_CANCELLED"
	SessionEnded           = "V1_SESSION_ENDED"
)

// Event represents a domain event
type Event struct {
	ID            string      `json:"id"`
	AggregateID   string      `json:"aggregate_id"`
	AggregateType string      `json:"aggregate_type"`
	Type          string      `json:"type"`
	Version       int         `json:"version"`
	Timestamp     time.Time   `json:"timestamp"`
	Data          interface{} `json:"data"`
}

// Terminal Events

// TerminalRegisteredEvent represents a terminal registered event
type TerminalRegisteredEvent struct {
	TerminalID   string    `json:"terminal_id"`
	BranchID     string    `json:"branch_id"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// TerminalActivatedEvent represents a terminal activated event
type TerminalActivatedEvent struct {
	TerminalID  string    `json:"terminal_id"`
	ActivatedAt time.Time `json:"activated_at"`
}

// TerminalDisabledEvent represents a terminal disabled event
type TerminalDisabledEvent struct {
	TerminalID string    `json:"terminal_id"`
	DisabledAt time.Time `json:"disabled_at"`
}

// TerminalMaintenanceSetEvent represents a terminal set to maintenance
type TerminalMaintenanceSetEvent struct {
	TerminalID string    `json:"terminal_id"`
	SetAt      time.Time `json:"set_at"`
}

// TerminalDecommissionedEvent represents a terminal decommissioned event
type TerminalDecommissionedEvent struct {
	TerminalID       string    `json:"terminal_id"`
	Reason           string    `json:"reason"`
	DecommissionedAt time.Time `json:"decommissioned_at"`
}

// TerminalRecommissionedEvent represents a terminal recommissioned event
type TerminalRecommissionedEvent struct {
	TerminalID       string    `json:"terminal_id"`
	Reason           string    `json:"reason"`
	RecommissionedAt time.Time `json:"recommissioned_at"`
}

// TerminalRenamedEvent represents a terminal renamed event
type TerminalRenamedEvent struct {
	TerminalID string    `json:"terminal_id"`
	OldName    string    `json:"old_name"`
	NewName    string    `json:"new_name"`
	RenamedAt  time.Time `json:"renamed_at"`
}

// TerminalReassignedEvent represents a terminal reassigned to another branch
type TerminalReassignedEvent struct {
	TerminalID   string    `json:"terminal_id"`
	OldBranchID  string    `json:"old_branch_id"`
	NewBranchID  string    `json:"new_branch_id"`
	ReassignedAt time.Time `json:"reassigned_at"`
}

// Shift Events

// ShiftOpenedEvent represents a shift opened event
type ShiftOpenedEvent struct {
	ShiftID           string    `json:"shift_id"`
	TerminalID        string    `json:"terminal_id"`
	BranchID          string    `json:"branch_id"`
	CashierID         string    `json:"cashier_id"`
	OpeningCashAmount Money     `json:"opening_cash_amount"`
	OpenedAt          time.Time `json:"opened_at"`
}

// CashDropRecordedEvent represents a cash drop recorded on an open shift
type CashDropRecordedEvent struct {
	ShiftID    string    `json:"shift_id"`
	Amount     Money     `json:"amount"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ShiftClosedEvent represents a shift closed with cash reconciliation
type ShiftClosedEvent struct {
	ShiftID                   string    `json:"shift_id"`
	DeclaredClosingCashAmount Money     `json:"declared_closing_cash_amount"`
	ExpectedCashAmount        Money     `json:"expected_cash_amount"`
	Variance                  Money     `json:"variance"`
	ClosedAt                  time.Time `json:"closed_at"`
}

// ShiftForceClosedEvent represents a shift force-closed by a supervisor
type ShiftForceClosedEvent struct {
	ShiftID       string    `json:"shift_id"`
	SupervisorID  string    `json:"supervisor_id"`
	Reason        string    `json:"reason"`
	ForceClosedAt time.Time `json:"force_closed_at"`
}

// PosSession Events

// SessionStartedEvent represents a POS session started event
type SessionStartedEvent struct {
	SessionID  string    `json:"session_id"`
	ShiftID    string    `json:"shift_id"`
	TerminalID string    `json:"terminal_id"`
	StartedAt  time.Time `json:"started_at"`
}

// NewOrderStartedEvent represents a new order started in a session
type NewOrderStartedEvent struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	StartedAt time.Time `json:"started_at"`
}

// OrderCreatedOfflineEvent represents an order created while offline
type OrderCreatedOfflineEvent struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	CommandID string    `json:"command_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderParkedEvent represents the active order being parked
type OrderParkedEvent struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	ParkedAt  time.Time `json:"parked_at"`
}

// OrderResumedEvent represents a parked order being resumed
type OrderResumedEvent struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// OrderDeactivatedEvent represents the active order being deactivated
type OrderDeactivatedEvent struct {
	SessionID     string    `json:"session_id"`
	OrderID       string    `json:"order_id"`
	Reason        string    `json:"reason"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}

// OrderReactivatedEvent represents an inactive order being reactivated
type OrderReactivatedEvent struct {
	SessionID     string    `json:"session_id"`
	OrderID       string    `json:"order_id"`
	ReactivatedAt time.Time `json:"reactivated_at"`
}

// OrderMarkedPendingSyncEvent represents the active order being flagged for online sync
type OrderMarkedPendingSyncEvent struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	MarkedAt  time.Time `json:"marked_at"`
}

// OrderSyncedOnlineEvent represents an offline order gaining an online counterpart
type OrderSyncedOnlineEvent struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	SyncedAt  time.Time `json:"synced_at"`
}

// CheckoutInitiatedEvent represents checkout being initiated for the active order
type CheckoutInitiatedEvent struct {
	SessionID   string    `json:"session_id"`
	OrderID     string    `json:"order_id"`
	InitiatedAt time.Time `json:"initiated_at"`
}

// PaymentRequestedEvent represents a payment requested during checkout
type PaymentRequestedEvent struct {
	SessionID     string    `json:"session_id"`
	OrderID       string    `json:"order_id"`
	Amount        Money     `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	RequestedAt   time.Time `json:"requested_at"`
}

// OrderCompletedEvent represents the active order being completed
type OrderCompletedEvent struct {
	SessionID   string    `json:"session_id"`
	OrderID     string    `json:"order_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// OrderCancelledEvent represents the active order being cancelled via POS
type OrderCancelledEvent struct {
	SessionID   string    `json:"session_id"`
	OrderID     string    `json:"order_id"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// SessionEndedEvent represents a POS session ended event
type SessionEndedEvent struct {
	SessionID string    `json:"session_id"`
	EndedAt   time.Time `json:"ended_at"`
}

// DecodeEventData unmarshals a stored event payload into its typed struct
// based on the event type tag. Used by the durable store and the projectors.
func DecodeEventData(eventType string, data []byte) (interface{}, error) {
	var payload interface{}

	switch eventType {
	// Terminal events
	case TerminalRegistered:
		payload = &TerminalRegisteredEvent{}
	case TerminalActivated:
		payload = &TerminalActivatedEvent{}
	case TerminalDisabled:
		payload = &TerminalDisabledEvent{}
	case TerminalMaintenanceSet:
		payload = &TerminalMaintenanceSetEvent{}
	case TerminalDecommissioned:
		payload = &TerminalDecommissionedEvent{}
	case TerminalRecommissioned:
		payload = &TerminalRecommissionedEvent{}
	case TerminalRenamed:
		payload = &TerminalRenamedEvent{}
	case TerminalReassigned:
		payload = &TerminalReassignedEvent{}

	// Shift events
	case ShiftOpened:
		payload = &ShiftOpenedEvent{}
	case CashDropRecorded:
		payload = &CashDropRecordedEvent{}
	case ShiftClosed:
		payload = &ShiftClosedEvent{}
	case ShiftForceClosed:
		payload = &ShiftForceClosedEvent{}

	// PosSession events
	case SessionStarted:
		payload = &SessionStartedEvent{}
	case NewOrderStarted:
		payload = &NewOrderStartedEvent{}
	case OrderCreatedOffline:
		payload = &OrderCreatedOfflineEvent{}
	case OrderParked:
		payload = &OrderParkedEvent{}
	case OrderResumed:
		payload = &OrderResumedEvent{}
	case OrderDeactivated:
		payload = &OrderDeactivatedEvent{}
	case OrderReactivated:
		payload = &OrderReactivatedEvent{}
	case OrderMarkedPendingSync:
		payload = &OrderMarkedPendingSyncEvent{}
	case OrderSyncedOnline:
		payload = &OrderSyncedOnlineEvent{}
	case CheckoutInitiated:
		payload = &CheckoutInitiatedEvent{}
	case PaymentRequested:
		payload = &PaymentRequestedEvent{}
	case OrderCompleted:
		payload = &OrderCompletedEvent{}
	case OrderCancelled:
		payload = &OrderCancelledEvent{}
	case SessionEnded:
		payload = &SessionEndedEvent{}

	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event data: %w", eventType, err)
	}

	return dereference(payload), nil
}

// dereference returns the struct value behind the decoded pointer so apply
// switches can match on value types, same as live-recorded events.
func dereference(payload interface{}) interface{} {
	switch p := payload.(type) {
	case *TerminalRegisteredEvent:
		return *p
	case *TerminalActivatedEvent:
		return *p
	case *TerminalDisabledEvent:
		return *p
	case *TerminalMaintenanceSetEvent:
		return *p
	case *TerminalDecommissionedEvent:
		return *p
	case *TerminalRecommissionedEvent:
		return *p
	case *TerminalRenamedEvent:
		return *p
	case *TerminalReassignedEvent:
		return *p
	case *ShiftOpenedEvent:
		return *p
	case *CashDropRecordedEvent:
		return *p
	case *ShiftClosedEvent:
		return *p
	case *ShiftForceClosedEvent:
		return *p
	case *SessionStartedEvent:
		return *p
	case *NewOrderStartedEvent:
		return *p
	case *OrderCreatedOfflineEvent:
		return *p
	case *OrderParkedEvent:
		return *p
	case *OrderResumedEvent:
		return *p
	case *OrderDeactivatedEvent:
		return *p
	case *OrderReactivatedEvent:
		return *p
	case *OrderMarkedPendingSyncEvent:
		return *p
	case *OrderSyncedOnlineEvent:
		return *p
	case *CheckoutInitiatedEvent:
		return *p
	case *PaymentRequestedEvent:
		return *p
	case *OrderCompletedEvent:
		return *p
	case *OrderCancelledEvent:
		return *p
	case *SessionEndedEvent:
		return *p
	default:
		return payload
	}
}
