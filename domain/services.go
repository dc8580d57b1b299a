package domain

import "context"

// DraftOrderContext carries the ordering context for a draft order
type DraftOrderContext struct {
	BranchID   string
	CustomerID string
}

// OrderingService is the ordering bounded context as seen from the POS
type OrderingService interface {
	CreateDraftOrder(ctx context.Context, orderID string, orderCtx DraftOrderContext) error
	ConfirmOrder(ctx context.Context, orderID string) error
	CancelOrder(ctx context.Context, orderID, reason string) error
	IsOrderFullyPaid(ctx context.Context, orderID string) (bool, error)
}

// InventoryService is the inventory bounded context as seen from the POS.
// Reservations are soft (provisional) until confirmed at checkout, and are
// fulfilled when goods leave the store.
type InventoryService interface {
	ConfirmReservation(ctx context.Context, orderID string) error
	ReleaseReservation(ctx context.Context, orderID string) error
	FulfillOrderReservation(ctx context.Context, orderID string) error
	AttemptReReservation(ctx context.Context, orderID string) (bool, error)
}

// PaymentService is the payment bounded context as seen from the POS
type PaymentService interface {
	RequestPaymentAuthorization(ctx context.Context, orderID string, amount Money, paymentMethod string) (bool, error)
	ApplyPayment(ctx context.Context, orderID string, amount Money, paymentMethod string) error
}
