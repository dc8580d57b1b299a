package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"example.com/storebunk/services/pos/domain"
)

// Mock external context services for testing

type MockOrderingService struct {
	mock.Mock
}

func (m *MockOrderingService) CreateDraftOrder(ctx context.Context, orderID string, orderCtx domain.DraftOrderContext) error {
	args := m.Called(ctx, orderID, orderCtx)
	return args.Error(0)
}

func (m *MockOrderingService) ConfirmOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderingService) CancelOrder(ctx context.Context, orderID, reason string) error {
	args := m.Called(ctx, orderID, reason)
	return args.Error(0)
}

func (m *MockOrderingService) IsOrderFullyPaid(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) ConfirmReservation(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockInventoryService) ReleaseReservation(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockInventoryService) FulfillOrderReservation(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockInventoryService) AttemptReReservation(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RequestPaymentAuthorization(ctx context.Context, orderID string, amount domain.Money, paymentMethod string) (bool, error) {
	args := m.Called(ctx, orderID, amount, paymentMethod)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentService) ApplyPayment(ctx context.Context, orderID string, amount domain.Money, paymentMethod string) error {
	args := m.Called(ctx, orderID, amount, paymentMethod)
	return args.Error(0)
}

// Stub read models backed by fixed snapshots

type stubSessionReadModel struct {
	activities      []SessionActivity
	activeSessions  map[string][]string
	terminalBinding map[string]string
}

func (s *stubSessionReadModel) GetSessionsWithActiveOrder(ctx context.Context) ([]SessionActivity, error) {
	return s.activities, nil
}

func (s *stubSessionReadModel) FindActiveByShiftID(ctx context.Context, shiftID string) ([]string, error) {
	return s.activeSessions[shiftID], nil
}

func (s *stubSessionReadModel) OrderTerminalBinding(ctx context.Context) (map[string]string, error) {
	if s.terminalBinding == nil {
		return map[string]string{}, nil
	}
	return s.terminalBinding, nil
}

type stubShiftReadModel struct {
	openByTerminal map[string]string
	byCashier      map[string]string
}

func (s *stubShiftReadModel) OpenShiftsByTerminal(ctx context.Context) (map[string]string, error) {
	if s.openByTerminal == nil {
		return map[string]string{}, nil
	}
	return s.openByTerminal, nil
}

func (s *stubShiftReadModel) ActiveTerminalByCashier(ctx context.Context) (map[string]string, error) {
	if s.byCashier == nil {
		return map[string]string{}, nil
	}
	return s.byCashier, nil
}
