// Package clients holds the outbound adapters for the ordering, inventory
// and payment contexts. The in-process implementations below log and accept
// every call; they are replaced by real transport clients when those
// services are wired in.
package clients

import (
	"context"

	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/domain"
)

// LoggingOrderingService accepts every ordering call
type LoggingOrderingService struct{}

func NewLoggingOrderingService() *LoggingOrderingService {
	return &LoggingOrderingService{}
}

func (s *LoggingOrderingService) CreateDraftOrder(ctx context.Context, orderID string, orderCtx domain.DraftOrderContext) error {
	log.Info().Str("orderID", orderID).Str("branchID", orderCtx.BranchID).Msg("Creating draft order")
	return nil
}

func (s *LoggingOrderingService) ConfirmOrder(ctx context.Context, orderID string) error {
	log.Info().Str("orderID", orderID).Msg("Confirming order")
	return nil
}

func (s *LoggingOrderingService) CancelOrder(ctx context.Context, orderID, reason string) error {
	log.Info().Str("orderID", orderID).Str("reason", reason).Msg("Cancelling order")
	return nil
}

func (s *LoggingOrderingService) IsOrderFullyPaid(ctx context.Context, orderID string) (bool, error) {
	return true, nil
}

// LoggingInventoryService accepts every reservation call
type LoggingInventoryService struct{}

func NewLoggingInventoryService() *LoggingInventoryService {
	return &LoggingInventoryService{}
}

func (s *LoggingInventoryService) ConfirmReservation(ctx context.Context, orderID string) error {
	log.Info().Str("orderID", orderID).Msg("Confirming reservation")
	return nil
}

func (s *LoggingInventoryService) ReleaseReservation(ctx context.Context, orderID string) error {
	log.Info().Str("orderID", orderID).Msg("Releasing reservation")
	return nil
}

func (s *LoggingInventoryService) FulfillOrderReservation(ctx context.Context, orderID string) error {
	log.Info().Str("orderID", orderID).Msg("Fulfilling reservation")
	return nil
}

func (s *LoggingInventoryService) AttemptReReservation(ctx context.Context, orderID string) (bool, error) {
	log.Info().Str("orderID", orderID).Msg("Attempting re-reservation")
	return true, nil
}

// LoggingPaymentService authorizes every payment
type LoggingPaymentService struct{}

func NewLoggingPaymentService() *LoggingPaymentService {
	return &LoggingPaymentService{}
}

func (s *LoggingPaymentService) RequestPaymentAuthorization(ctx context.Context, orderID string, amount domain.Money, paymentMethod string) (bool, error) {
	log.Info().Str("orderID", orderID).Str("method", paymentMethod).Msg("Requesting payment authorization")
	return true, nil
}

func (s *LoggingPaymentService) ApplyPayment(ctx context.Context, orderID string, amount domain.Money, paymentMethod string) error {
	log.Info().Str("orderID", orderID).Str("method", paymentMethod).Msg("Applying payment")
	return nil
}
