package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *PosSessionAggregate {
	t.Helper()
	session, err := StartSession("session-1", "shift-1", "term-1")
	require.NoError(t, err)
	return session
}

func TestStartSessionBeginsIdle(t *testing.T) {
	session := newTestSession(t)

	require.Equal(t, SessionStateIdle, session.State.State)
	require.False(t, session.HasActiveOrder())
	require.Equal(t, "shift-1", session.State.ShiftID)
}

func TestStartNewOrderRejectsSecondActiveOrder(t *testing.T) {
	session := newTestSession(t)

	require.NoError(t, session.StartNewOrder("order-1"))
	require.Equal(t, SessionStateBuilding, session.State.State)
	require.Equal(t, "order-1", session.ActiveOrderID())

	err := session.StartNewOrder("order-2")
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "already active")
}

func TestParkAndResumeOrder(t *testing.T) {
	session := newTestSession(t)

	require.True(t, IsInvariantViolation(session.ParkOrder()))

	require.NoError(t, session.StartNewOrder("order-1"))
	require.NoError(t, session.ParkOrder())
	require.Equal(t, SessionStateIdle, session.State.State)
	require.False(t, session.HasActiveOrder())
	require.Contains(t, session.State.ParkedOrderIDs, "order-1")

	// A second order can be served while the first is parked
	require.NoError(t, session.StartNewOrder("order-2"))
	require.NoError(t, session.ParkOrder())

	require.NoError(t, session.ResumeOrder("order-1"))
	require.Equal(t, "order-1", session.ActiveOrderID())
	require.NotContains(t, session.State.ParkedOrderIDs, "order-1")
	require.Contains(t, session.State.ParkedOrderIDs, "order-2")
}

func TestResumeRejectsUnknownOrActiveConflicts(t *testing.T) {
	session := newTestSession(t)

	err := session.ResumeOrder("order-x")
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "not in parked list")

	require.NoError(t, session.StartNewOrder("order-1"))
	require.True(t, IsInvariantViolation(session.ResumeOrder("order-x")))
}

func TestDeactivateAndReactivateOrder(t *testing.T) {
	session := newTestSession(t)

	require.NoError(t, session.StartNewOrder("order-1"))
	require.NoError(t, session.DeactivateOrder("idle too long"))
	require.False(t, session.HasActiveOrder())
	require.Contains(t, session.State.InactiveOrderIDs, "order-1")

	err := session.ReactivateOrder("order-x")
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "not in inactive list")

	require.NoError(t, session.ReactivateOrder("order-1"))
	require.Equal(t, "order-1", session.ActiveOrderID())
	require.NotContains(t, session.State.InactiveOrderIDs, "order-1")
}

func TestCheckoutFlow(t *testing.T) {
	session := newTestSession(t)

	require.True(t, IsInvariantViolation(session.InitiateCheckout()))

	require.NoError(t, session.StartNewOrder("order-1"))
	require.True(t, IsInvariantViolation(session.RequestPayment(NewMoney(1000, "KES"), "card")))
	require.True(t, IsInvariantViolation(session.CompleteOrder()))

	require.NoError(t, session.InitiateCheckout())
	require.Equal(t, SessionStateCheckout, session.State.State)
	require.True(t, IsInvariantViolation(session.InitiateCheckout()))

	require.NoError(t, session.RequestPayment(NewMoney(1000, "KES"), "card"))
	require.NoError(t, session.CompleteOrder())
	require.Equal(t, SessionStateIdle, session.State.State)
	require.False(t, session.HasActiveOrder())
}

func TestCancelOrderFromAnyActiveState(t *testing.T) {
	session := newTestSession(t)

	require.True(t, IsInvariantViolation(session.CancelOrder("no order")))

	require.NoError(t, session.StartNewOrder("order-1"))
	require.NoError(t, session.InitiateCheckout())
	require.NoError(t, session.CancelOrder("customer left"))
	require.Equal(t, SessionStateIdle, session.State.State)
	require.False(t, session.HasActiveOrder())
}

func TestOfflineOrderTracksPendingSync(t *testing.T) {
	session := newTestSession(t)

	require.NoError(t, session.StartNewOrderOffline("order-1", "cmd-1"))
	require.Equal(t, "order-1", session.ActiveOrderID())
	require.Equal(t, SessionStateBuilding, session.State.State)
	require.Contains(t, session.State.PendingSyncOrderIDs, "order-1")

	// Pending sync coexists with the active designation
	require.NoError(t, session.InitiateCheckout())
	require.Contains(t, session.State.PendingSyncOrderIDs, "order-1")

	require.NoError(t, session.SyncOrderOnline("order-1"))
	require.NotContains(t, session.State.PendingSyncOrderIDs, "order-1")
	require.Equal(t, "order-1", session.ActiveOrderID())
}

func TestMarkOrderPendingSyncRequiresActiveOrder(t *testing.T) {
	session := newTestSession(t)

	require.NoError(t, session.StartNewOrder("order-1"))

	require.True(t, IsInvariantViolation(session.MarkOrderPendingSync("order-2")))

	require.NoError(t, session.MarkOrderPendingSync("order-1"))
	require.Contains(t, session.State.PendingSyncOrderIDs, "order-1")
	require.Equal(t, "order-1", session.ActiveOrderID())
}

func TestSyncRejectsOrderNotPendingSync(t *testing.T) {
	session := newTestSession(t)

	err := session.SyncOrderOnline("order-1")
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "not pending sync")
}

func TestEndSessionRejectsActiveOrder(t *testing.T) {
	session := newTestSession(t)

	require.NoError(t, session.StartNewOrder("order-1"))
	err := session.End()
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "Cannot end session with an active order")

	require.NoError(t, session.ParkOrder())
	require.NoError(t, session.End())
	require.True(t, session.State.Ended)
}
