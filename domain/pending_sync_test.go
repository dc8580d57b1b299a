package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnqueueIsIdempotentPerOrder(t *testing.T) {
	queue := NewPendingSyncQueue()

	queue.Enqueue("session-1", "order-1", "cmd-1")
	queue.Enqueue("session-1", "order-1", "cmd-1")
	queue.Enqueue("session-1", "order-1", "cmd-2")

	require.Equal(t, 1, queue.Count())
	require.True(t, queue.HasByOrderID("order-1"))
	require.True(t, queue.HasCommandID("cmd-2"))
	require.False(t, queue.HasCommandID("cmd-1"))
}

func TestDequeueByOrderID(t *testing.T) {
	queue := NewPendingSyncQueue()

	queue.Enqueue("session-1", "order-1", "cmd-1")
	queue.Enqueue("session-1", "order-2", "cmd-2")

	queue.DequeueByOrderID("order-1")
	require.False(t, queue.HasByOrderID("order-1"))
	require.True(t, queue.HasByOrderID("order-2"))
	require.Equal(t, 1, queue.Count())

	// Absent order is a no-op
	queue.DequeueByOrderID("order-x")
	require.Equal(t, 1, queue.Count())

	queue.DequeueByOrderID("order-2")
	require.True(t, queue.IsEmpty())
}

func TestAllReturnsSnapshot(t *testing.T) {
	queue := NewPendingSyncQueue()

	queue.Enqueue("session-1", "order-1", "cmd-1")
	queue.Enqueue("session-2", "order-2", "cmd-2")

	entries := queue.All()
	require.Len(t, entries, 2)

	orderIDs := map[string]bool{}
	for _, entry := range entries {
		orderIDs[entry.OrderID] = true
		require.False(t, entry.QueuedAt.IsZero())
	}
	require.True(t, orderIDs["order-1"])
	require.True(t, orderIDs["order-2"])
}
