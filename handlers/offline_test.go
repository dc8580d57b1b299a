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

func newOfflineFixture(t *testing.T) (*OfflineHandler, *repository.PosSessionRepository, *domain.PendingSyncQueue, *MockOrderingService) {
	t.Helper()

	store := eventstore.NewMemoryEventStore()
	repo := repository.NewPosSessionRepository(store)
	queue := domain.NewPendingSyncQueue()
	ordering := new(MockOrderingService)
	handler := NewOfflineHandler(repo, NewMemoryIdempotencyRegistry(), queue, ordering)

	session, err := domain.StartSession("session-1", "shift-1", "term-1")
	require.NoError(t, err)
	require.NoError(t, repo.Store(context.Background(), session))

	return handler, repo, queue, ordering
}

func TestStartNewOrderOfflineCreatesAndQueues(t *testing.T) {
	handler, repo, queue, _ := newOfflineFixture(t)
	ctx := context.Background()

	err := handler.HandleStartNewOrderOffline(ctx, StartNewOrderOfflineCommand{
		CommandID: "cmd-1",
		SessionID: "session-1",
		OrderID:   "order-1",
		BranchID:  "branch-1",
	})
	require.NoError(t, err)

	session, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, "order-1", session.ActiveOrderID())
	require.Contains(t, session.State.PendingSyncOrderIDs, "order-1")

	require.True(t, queue.HasByOrderID("order-1"))
	require.Equal(t, 1, queue.Count())
}

func TestStartNewOrderOfflineRedeliveryIsNoOp(t *testing.T) {
	handler, repo, queue, _ := newOfflineFixture(t)
	ctx := context.Background()

	cmd := StartNewOrderOfflineCommand{
		CommandID: "cmd-1",
		SessionID: "session-1",
		OrderID:   "order-1",
		BranchID:  "branch-1",
	}

	require.NoError(t, handler.HandleStartNewOrderOffline(ctx, cmd))
	require.NoError(t, handler.HandleStartNewOrderOffline(ctx, cmd))
	require.NoError(t, handler.HandleStartNewOrderOffline(ctx, cmd))

	session, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)

	// Exactly one creation: session started + one offline order event
	require.Equal(t, 2, session.GetVersion())
	require.Equal(t, 1, queue.Count())
}

func TestSyncOrderOnlineCreatesCounterpartAndClearsQueue(t *testing.T) {
	handler, repo, queue, ordering := newOfflineFixture(t)
	ctx := context.Background()

	require.NoError(t, handler.HandleStartNewOrderOffline(ctx, StartNewOrderOfflineCommand{
		CommandID: "cmd-1",
		SessionID: "session-1",
		OrderID:   "order-1",
		BranchID:  "branch-1",
	}))

	ordering.On("CreateDraftOrder", mock.Anything, "order-1", mock.Anything).Return(nil).Once()

	syncCmd := SyncOrderOnlineCommand{
		CommandID: "cmd-2",
		SessionID: "session-1",
		OrderID:   "order-1",
	}
	require.NoError(t, handler.HandleSyncOrderOnline(ctx, syncCmd))

	// Redelivery does not create a second online order
	require.NoError(t, handler.HandleSyncOrderOnline(ctx, syncCmd))

	session, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.NotContains(t, session.State.PendingSyncOrderIDs, "order-1")
	require.Equal(t, "order-1", session.ActiveOrderID())

	require.False(t, queue.HasByOrderID("order-1"))
	ordering.AssertExpectations(t)
	ordering.AssertNumberOfCalls(t, "CreateDraftOrder", 1)
}

func TestSyncOrderOnlineRejectsOrderNotPendingSync(t *testing.T) {
	handler, _, _, _ := newOfflineFixture(t)

	err := handler.HandleSyncOrderOnline(context.Background(), SyncOrderOnlineCommand{
		CommandID: "cmd-9",
		SessionID: "session-1",
		OrderID:   "order-x",
	})
	require.True(t, domain.IsInvariantViolation(err))
}

func TestMarkOrderPendingSyncKeepsOrderActive(t *testing.T) {
	handler, repo, queue, _ := newOfflineFixture(t)
	ctx := context.Background()

	session, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.NoError(t, session.StartNewOrder("order-1"))
	require.NoError(t, repo.Store(ctx, session))

	require.NoError(t, handler.HandleMarkOrderPendingSync(ctx, MarkOrderPendingSyncCommand{
		SessionID: "session-1",
		OrderID:   "order-1",
	}))

	reloaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, "order-1", reloaded.ActiveOrderID())
	require.Contains(t, reloaded.State.PendingSyncOrderIDs, "order-1")
	require.True(t, queue.HasByOrderID("order-1"))
}
