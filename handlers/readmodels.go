package handlers

import (
	"context"
	"time"
)

// SessionActivity is one session with an active order, and when that order
// was last touched. The lifecycle sweeps decide on it.
type SessionActivity struct {
	SessionID      string
	LastActivityAt time.Time
}

// SessionReadModel is the projection-backed view of POS sessions the
// handlers and policies consult for cross-aggregate snapshots
type SessionReadModel interface {
	GetSessionsWithActiveOrder(ctx context.Context) ([]SessionActivity, error)
	FindActiveByShiftID(ctx context.Context, shiftID string) ([]string, error)
	OrderTerminalBinding(ctx context.Context) (map[string]string, error)
}

// ShiftReadModel is the projection-backed view of shifts used by the
// multi-terminal enforcement checks
type ShiftReadModel interface {
	OpenShiftsByTerminal(ctx context.Context) (map[string]string, error)
	ActiveTerminalByCashier(ctx context.Context) (map[string]string, error)
}
