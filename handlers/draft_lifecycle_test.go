package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/eventstore"
	"example.com/storebunk/services/pos/repository"
)

func newLifecycleFixture(t *testing.T) (*DraftLifecycleService, *repository.PosSessionRepository, *stubSessionReadModel, *MockOrderingService, *MockInventoryService) {
	t.Helper()

	store := eventstore.NewMemoryEventStore()
	repo := repository.NewPosSessionRepository(store)
	shiftRepo := repository.NewShiftRepository(store)
	readModel := &stubSessionReadModel{}
	ordering := new(MockOrderingService)
	inventory := new(MockInventoryService)
	payment := new(MockPaymentService)

	sessionHandler := NewSessionHandler(repo, shiftRepo, domain.NewMultiTerminalEnforcementService(), readModel, ordering, inventory, payment)
	service := NewDraftLifecycleService(sessionHandler, readModel, 15*time.Minute, time.Hour)

	return service, repo, readModel, ordering, inventory
}

func storeSessionWithActiveOrder(t *testing.T, repo *repository.PosSessionRepository, sessionID, orderID string) {
	t.Helper()

	session, err := domain.StartSession(sessionID, "shift-1", "term-1")
	require.NoError(t, err)
	require.NoError(t, session.StartNewOrder(orderID))
	require.NoError(t, repo.Store(context.Background(), session))
}

func TestSweepDeactivationsOnlyTouchesStaleSessions(t *testing.T) {
	service, repo, readModel, _, inventory := newLifecycleFixture(t)
	ctx := context.Background()

	storeSessionWithActiveOrder(t, repo, "session-stale", "order-stale")
	storeSessionWithActiveOrder(t, repo, "session-fresh", "order-fresh")

	readModel.activities = []SessionActivity{
		{SessionID: "session-stale", LastActivityAt: time.Now().Add(-30 * time.Minute)},
		{SessionID: "session-fresh", LastActivityAt: time.Now().Add(-time.Minute)},
	}

	inventory.On("ReleaseReservation", mock.Anything, "order-stale").Return(nil).Once()

	require.NoError(t, service.SweepDeactivations(ctx))

	stale, err := repo.Load(ctx, "session-stale")
	require.NoError(t, err)
	require.False(t, stale.HasActiveOrder())

	fresh, err := repo.Load(ctx, "session-fresh")
	require.NoError(t, err)
	require.Equal(t, "order-fresh", fresh.ActiveOrderID())

	inventory.AssertExpectations(t)
}

func TestSweepCancellationsCancelsLongIdleOrders(t *testing.T) {
	service, repo, readModel, ordering, inventory := newLifecycleFixture(t)
	ctx := context.Background()

	storeSessionWithActiveOrder(t, repo, "session-1", "order-1")

	readModel.activities = []SessionActivity{
		{SessionID: "session-1", LastActivityAt: time.Now().Add(-2 * time.Hour)},
	}

	ordering.On("CancelOrder", mock.Anything, "order-1", "idle past cancellation threshold").Return(nil).Once()
	inventory.On("ReleaseReservation", mock.Anything, "order-1").Return(nil).Once()

	require.NoError(t, service.SweepCancellations(ctx))

	session, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.False(t, session.HasActiveOrder())

	ordering.AssertExpectations(t)
	inventory.AssertExpectations(t)
}

func TestSweepContinuesPastFailures(t *testing.T) {
	service, repo, readModel, _, inventory := newLifecycleFixture(t)
	ctx := context.Background()

	// First session does not exist in the store; the sweep logs and moves on
	storeSessionWithActiveOrder(t, repo, "session-2", "order-2")

	readModel.activities = []SessionActivity{
		{SessionID: "session-missing", LastActivityAt: time.Now().Add(-30 * time.Minute)},
		{SessionID: "session-2", LastActivityAt: time.Now().Add(-30 * time.Minute)},
	}

	inventory.On("ReleaseReservation", mock.Anything, "order-2").Return(nil).Once()

	require.NoError(t, service.SweepDeactivations(ctx))

	session, err := repo.Load(ctx, "session-2")
	require.NoError(t, err)
	require.False(t, session.HasActiveOrder())
}
