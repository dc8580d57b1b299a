package domain

import (
	"sync"
	"time"
)

// PendingSyncEntry tracks one offline-created order awaiting online creation
type PendingSyncEntry struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	CommandID string    `json:"command_id"`
	QueuedAt  time.Time `json:"queued_at"`
}

// PendingSyncQueue indexes offline orders that still need an online
// counterpart, keyed by order identity. Handlers update it and the
// session's own pending-sync set within the same logical operation.
// All methods are safe for concurrent use.
type PendingSyncQueue struct {
	mu    sync.Mutex
	queue map[string]PendingSyncEntry
}

// NewPendingSyncQueue creates an empty queue
func NewPendingSyncQueue() *PendingSyncQueue {
	return &PendingSyncQueue{
		queue: make(map[string]PendingSyncEntry),
	}
}

// Enqueue records an order as pending sync. Idempotent per order identity:
// re-enqueuing overwrites, it never duplicates.
func (q *PendingSyncQueue) Enqueue(sessionID, orderID, commandID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queue[orderID] = PendingSyncEntry{
		SessionID: sessionID,
		OrderID:   orderID,
		CommandID: commandID,
		QueuedAt:  time.Now(),
	}
}

// DequeueByOrderID removes an order from the queue; no-op if absent
func (q *PendingSyncQueue) DequeueByOrderID(orderID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.queue, orderID)
}

// HasByOrderID reports whether an order is pending sync
func (q *PendingSyncQueue) HasByOrderID(orderID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.queue[orderID]
	return ok
}

// HasCommandID reports whether any queued entry came from the given command
func (q *PendingSyncQueue) HasCommandID(commandID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, entry := range q.queue {
		if entry.CommandID == commandID {
			return true
		}
	}
	return false
}

// All returns a snapshot of the queue contents
func (q *PendingSyncQueue) All() []PendingSyncEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := make([]PendingSyncEntry, 0, len(q.queue))
	for _, entry := range q.queue {
		entries = append(entries, entry)
	}
	return entries
}

// Count returns the number of queued orders
func (q *PendingSyncQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.queue)
}

// IsEmpty reports whether the queue is empty
func (q *PendingSyncQueue) IsEmpty() bool {
	return q.Count() == 0
}
