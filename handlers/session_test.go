package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/eventstore"
	"example.com/storebunk/services/pos/repository"
)

type sessionFixture struct {
	handler   *SessionHandler
	repo      *repository.PosSessionRepository
	shiftRepo *repository.ShiftRepository
	readModel *stubSessionReadModel
	ordering  *MockOrderingService
	inventory *MockInventoryService
	payment   *MockPaymentService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	store := eventstore.NewMemoryEventStore()
	repo := repository.NewPosSessionRepository(store)
	shiftRepo := repository.NewShiftRepository(store)
	readModel := &stubSessionReadModel{}
	ordering := new(MockOrderingService)
	inventory := new(MockInventoryService)
	payment := new(MockPaymentService)

	shift, err := domain.OpenShift("shift-1", "term-1", "branch-1", "cashier-1", domain.NewMoney(10000, "KES"))
	require.NoError(t, err)
	require.NoError(t, shiftRepo.Store(context.Background(), shift))

	return &sessionFixture{
		handler:   NewSessionHandler(repo, shiftRepo, domain.NewMultiTerminalEnforcementService(), readModel, ordering, inventory, payment),
		repo:      repo,
		shiftRepo: shiftRepo,
		readModel: readModel,
		ordering:  ordering,
		inventory: inventory,
		payment:   payment,
	}
}

func TestStartSessionRequiresOpenShiftOnSameTerminal(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	err := f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID:  "session-1",
		ShiftID:    "shift-1",
		TerminalID: "term-2",
	})
	require.True(t, domain.IsInvariantViolation(err))

	err = f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID:  "session-1",
		ShiftID:    "missing-shift",
		TerminalID: "term-1",
	})
	require.True(t, domain.IsNotFound(err))

	require.NoError(t, f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID:  "session-1",
		ShiftID:    "shift-1",
		TerminalID: "term-1",
	}))

	// Same identity cannot be started twice
	err = f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID:  "session-1",
		ShiftID:    "shift-1",
		TerminalID: "term-1",
	})
	require.True(t, domain.IsInvariantViolation(err))
}

func TestFullOrderLifecycle(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.ordering.On("CreateDraftOrder", mock.Anything, "order-1", mock.Anything).Return(nil).Once()
	f.ordering.On("IsOrderFullyPaid", mock.Anything, "order-1").Return(true, nil).Once()
	f.ordering.On("ConfirmOrder", mock.Anything, "order-1").Return(nil).Once()
	f.inventory.On("ConfirmReservation", mock.Anything, "order-1").Return(nil).Once()
	f.inventory.On("FulfillOrderReservation", mock.Anything, "order-1").Return(nil).Once()
	f.payment.On("RequestPaymentAuthorization", mock.Anything, "order-1", mock.Anything, "card").Return(true, nil).Once()
	f.payment.On("ApplyPayment", mock.Anything, "order-1", mock.Anything, "card").Return(nil).Once()

	require.NoError(t, f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID: "session-1", ShiftID: "shift-1", TerminalID: "term-1",
	}))
	require.NoError(t, f.handler.HandleStartNewOrder(ctx, StartNewOrderCommand{
		SessionID: "session-1", OrderID: "order-1", BranchID: "branch-1",
	}))
	require.NoError(t, f.handler.HandleParkOrder(ctx, ParkOrderCommand{SessionID: "session-1"}))
	require.NoError(t, f.handler.HandleResumeOrder(ctx, ResumeOrderCommand{
		SessionID: "session-1", OrderID: "order-1", TerminalID: "term-1",
	}))
	require.NoError(t, f.handler.HandleInitiateCheckout(ctx, InitiateCheckoutCommand{SessionID: "session-1"}))
	require.NoError(t, f.handler.HandleRequestPayment(ctx, RequestPaymentCommand{
		SessionID: "session-1", Amount: domain.NewMoney(1000, "KES"), PaymentMethod: "card",
	}))
	require.NoError(t, f.handler.HandleCompleteOrder(ctx, CompleteOrderCommand{SessionID: "session-1"}))
	require.NoError(t, f.handler.HandleEndSession(ctx, EndSessionCommand{SessionID: "session-1"}))

	session, err := f.repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, 8, session.GetVersion())
	require.True(t, session.State.Ended)
	require.False(t, session.HasActiveOrder())

	f.ordering.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
	f.payment.AssertExpectations(t)
}

func TestResumeOrderEnforcesTerminalBinding(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.ordering.On("CreateDraftOrder", mock.Anything, "order-1", mock.Anything).Return(nil).Once()

	require.NoError(t, f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID: "session-1", ShiftID: "shift-1", TerminalID: "term-1",
	}))
	require.NoError(t, f.handler.HandleStartNewOrder(ctx, StartNewOrderCommand{
		SessionID: "session-1", OrderID: "order-1", BranchID: "branch-1",
	}))
	require.NoError(t, f.handler.HandleParkOrder(ctx, ParkOrderCommand{SessionID: "session-1"}))

	f.readModel.terminalBinding = map[string]string{"order-1": "term-1"}

	err := f.handler.HandleResumeOrder(ctx, ResumeOrderCommand{
		SessionID: "session-1", OrderID: "order-1", TerminalID: "term-2",
	})
	require.True(t, domain.IsInvariantViolation(err))

	require.NoError(t, f.handler.HandleResumeOrder(ctx, ResumeOrderCommand{
		SessionID: "session-1", OrderID: "order-1", TerminalID: "term-1",
	}))
}

func TestReactivateOrderGatedByInventory(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.ordering.On("CreateDraftOrder", mock.Anything, "order-1", mock.Anything).Return(nil).Once()
	f.inventory.On("ReleaseReservation", mock.Anything, "order-1").Return(nil).Once()

	require.NoError(t, f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID: "session-1", ShiftID: "shift-1", TerminalID: "term-1",
	}))
	require.NoError(t, f.handler.HandleStartNewOrder(ctx, StartNewOrderCommand{
		SessionID: "session-1", OrderID: "order-1", BranchID: "branch-1",
	}))
	require.NoError(t, f.handler.HandleDeactivateOrder(ctx, DeactivateOrderCommand{
		SessionID: "session-1", Reason: "idle",
	}))

	f.inventory.On("AttemptReReservation", mock.Anything, "order-1").Return(false, nil).Once()
	err := f.handler.HandleReactivateOrder(ctx, ReactivateOrderCommand{
		SessionID: "session-1", OrderID: "order-1",
	})
	require.True(t, domain.IsInvariantViolation(err))
	require.Contains(t, err.Error(), "no longer available")

	f.inventory.On("AttemptReReservation", mock.Anything, "order-1").Return(true, nil).Once()
	require.NoError(t, f.handler.HandleReactivateOrder(ctx, ReactivateOrderCommand{
		SessionID: "session-1", OrderID: "order-1",
	}))

	session, err := f.repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, "order-1", session.ActiveOrderID())
}

func TestCompleteOrderRequiresFullPayment(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.ordering.On("CreateDraftOrder", mock.Anything, "order-1", mock.Anything).Return(nil).Once()
	f.inventory.On("ConfirmReservation", mock.Anything, "order-1").Return(nil).Once()

	require.NoError(t, f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID: "session-1", ShiftID: "shift-1", TerminalID: "term-1",
	}))
	require.NoError(t, f.handler.HandleStartNewOrder(ctx, StartNewOrderCommand{
		SessionID: "session-1", OrderID: "order-1", BranchID: "branch-1",
	}))
	require.NoError(t, f.handler.HandleInitiateCheckout(ctx, InitiateCheckoutCommand{SessionID: "session-1"}))

	f.ordering.On("IsOrderFullyPaid", mock.Anything, "order-1").Return(false, nil).Once()
	err := f.handler.HandleCompleteOrder(ctx, CompleteOrderCommand{SessionID: "session-1"})
	require.True(t, domain.IsInvariantViolation(err))
	require.Contains(t, err.Error(), "not fully paid")
}

func TestDeclinedPaymentAuthorizationRejectsRequest(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.ordering.On("CreateDraftOrder", mock.Anything, "order-1", mock.Anything).Return(nil).Once()
	f.inventory.On("ConfirmReservation", mock.Anything, "order-1").Return(nil).Once()
	f.payment.On("RequestPaymentAuthorization", mock.Anything, "order-1", mock.Anything, "card").Return(false, nil).Once()

	require.NoError(t, f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID: "session-1", ShiftID: "shift-1", TerminalID: "term-1",
	}))
	require.NoError(t, f.handler.HandleStartNewOrder(ctx, StartNewOrderCommand{
		SessionID: "session-1", OrderID: "order-1", BranchID: "branch-1",
	}))
	require.NoError(t, f.handler.HandleInitiateCheckout(ctx, InitiateCheckoutCommand{SessionID: "session-1"}))

	err := f.handler.HandleRequestPayment(ctx, RequestPaymentCommand{
		SessionID: "session-1", Amount: domain.NewMoney(1000, "KES"), PaymentMethod: "card",
	})
	require.True(t, domain.IsInvariantViolation(err))

	// No payment event was recorded
	session, err := f.repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, 3, session.GetVersion())
}

func TestCancelOrderPropagatesToOrderingAndInventory(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.ordering.On("CreateDraftOrder", mock.Anything, "order-1", mock.Anything).Return(nil).Once()
	f.ordering.On("CancelOrder", mock.Anything, "order-1", "customer left").Return(nil).Once()
	f.inventory.On("ReleaseReservation", mock.Anything, "order-1").Return(nil).Once()

	require.NoError(t, f.handler.HandleStartSession(ctx, StartSessionCommand{
		SessionID: "session-1", ShiftID: "shift-1", TerminalID: "term-1",
	}))
	require.NoError(t, f.handler.HandleStartNewOrder(ctx, StartNewOrderCommand{
		SessionID: "session-1", OrderID: "order-1", BranchID: "branch-1",
	}))
	require.NoError(t, f.handler.HandleCancelOrder(ctx, CancelOrderCommand{
		SessionID: "session-1", Reason: "customer left",
	}))

	f.ordering.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
}
