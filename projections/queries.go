package projections

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/handlers"
	"example.com/storebunk/services/pos/models"
)

// SessionQueries answers the handlers' session read-model queries from the
// projected tables
type SessionQueries struct {
	db *gorm.DB
}

// NewSessionQueries creates session queries over the read-model database
func NewSessionQueries(db *gorm.DB) *SessionQueries {
	return &SessionQueries{db: db}
}

// GetSessionsWithActiveOrder returns every non-ended session holding an
// active order, with its last activity time
func (q *SessionQueries) GetSessionsWithActiveOrder(ctx context.Context) ([]handlers.SessionActivity, error) {
	var sessions []models.PosSession
	if err := q.db.WithContext(ctx).
		Where("active_order_id IS NOT NULL AND ended = ?", false).
		Find(&sessions).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query sessions with active orders")
	}

	activities := make([]handlers.SessionActivity, 0, len(sessions))
	for _, session := range sessions {
		activities = append(activities, handlers.SessionActivity{
			SessionID:      session.SessionID,
			LastActivityAt: session.LastActivityAt,
		})
	}
	return activities, nil
}

// FindActiveByShiftID returns the IDs of the shift's sessions that still
// hold an active order
func (q *SessionQueries) FindActiveByShiftID(ctx context.Context, shiftID string) ([]string, error) {
	var sessionIDs []string
	if err := q.db.WithContext(ctx).Model(&models.PosSession{}).
		Where("shift_id = ? AND active_order_id IS NOT NULL AND ended = ?", shiftID, false).
		Pluck("session_id", &sessionIDs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query active sessions for shift")
	}
	return sessionIDs, nil
}

// OrderTerminalBinding returns the order-to-terminal binding for every
// order still live in some session
func (q *SessionQueries) OrderTerminalBinding(ctx context.Context) (map[string]string, error) {
	var orders []models.SessionOrder
	if err := q.db.WithContext(ctx).
		Where("residency IN ?", []string{
			models.ResidencyActive,
			models.ResidencyParked,
			models.ResidencyInactive,
		}).
		Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query order terminal bindings")
	}

	binding := make(map[string]string, len(orders))
	for _, order := range orders {
		binding[order.OrderID] = order.TerminalID
	}
	return binding, nil
}

// ShiftQueries answers the handlers' shift read-model queries from the
// projected tables
type ShiftQueries struct {
	db *gorm.DB
}

// NewShiftQueries creates shift queries over the read-model database
func NewShiftQueries(db *gorm.DB) *ShiftQueries {
	return &ShiftQueries{db: db}
}

// OpenShiftsByTerminal maps each terminal to its open shift
func (q *ShiftQueries) OpenShiftsByTerminal(ctx context.Context) (map[string]string, error) {
	var shifts []models.Shift
	if err := q.db.WithContext(ctx).
		Where("status = ?", domain.ShiftStatusOpen).
		Find(&shifts).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query open shifts")
	}

	byTerminal := make(map[string]string, len(shifts))
	for _, shift := range shifts {
		byTerminal[shift.TerminalID] = shift.ShiftID
	}
	return byTerminal, nil
}

// ActiveTerminalByCashier maps each cashier with an open shift to the
// terminal holding it
func (q *ShiftQueries) ActiveTerminalByCashier(ctx context.Context) (map[string]string, error) {
	var shifts []models.Shift
	if err := q.db.WithContext(ctx).
		Where("status = ?", domain.ShiftStatusOpen).
		Find(&shifts).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query open shifts")
	}

	byCashier := make(map[string]string, len(shifts))
	for _, shift := range shifts {
		byCashier[shift.CashierID] = shift.TerminalID
	}
	return byCashier, nil
}
