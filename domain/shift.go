package domain

import "time"

// Shift statuses
const (
	ShiftStatusOpen        = "Open"
	ShiftStatusClosed      = "Closed"
	ShiftStatusForceClosed = "ForceClosed"
)

// CashDrop is a cash amount removed from the drawer during a shift
type CashDrop struct {
	Amount     Money     `json:"amount"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ShiftState represents the state of a cashier shift
type ShiftState struct {
	ShiftID                   string
	TerminalID                string
	BranchID                  string
	CashierID                 string
	Status                    string
	OpeningCashAmount         Money
	DeclaredClosingCashAmount *Money
	CashDrops                 []CashDrop
	OpenedAt                  time.Time
	ClosedAt                  *time.Time
}

// ShiftAggregate is the aggregate for a cashier shift
type ShiftAggregate struct {
	*AggregateBase
	State ShiftState
}

// NewShiftAggregate creates an empty shift aggregate bound to an identity
func NewShiftAggregate(id string) *ShiftAggregate {
	aggregate := &ShiftAggregate{
		State: ShiftState{ShiftID: id},
	}
	aggregate.AggregateBase = NewAggregateBase(id, "shift", aggregate.applyEvent)
	return aggregate
}

// OpenShift creates a new shift in Open status
func OpenShift(id, terminalID, branchID, cashierID string, openingCash Money) (*ShiftAggregate, error) {
	aggregate := NewShiftAggregate(id)
	err := aggregate.Apply(ShiftOpenedEvent{
		ShiftID:           id,
		TerminalID:        terminalID,
		BranchID:          branchID,
		CashierID:         cashierID,
		OpeningCashAmount: openingCash,
		OpenedAt:          time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// RecordCashDrop records a cash removal on an open shift
func (a *ShiftAggregate) RecordCashDrop(amount Money) error {
	if a.State.Status != ShiftStatusOpen {
		return NewInvariantViolation("Cannot record cash drop on a closed shift")
	}

	if !amount.SameCurrency(a.State.OpeningCashAmount) {
		return NewInvariantViolation("Cash drop currency %s does not match shift currency %s",
			amount.Currency, a.State.OpeningCashAmount.Currency)
	}

	return a.Apply(CashDropRecordedEvent{
		ShiftID:    a.State.ShiftID,
		Amount:     amount,
		RecordedAt: time.Now(),
	})
}

// Close reconciles the drawer and closes the shift. Expected cash is the
// opening amount minus all recorded drops; variance is declared minus
// expected. Both are recorded for audit.
func (a *ShiftAggregate) Close(declaredClosingCash Money) error {
	if a.State.Status != ShiftStatusOpen {
		return NewInvariantViolation("Cannot close a shift that is not open")
	}

	expectedCash, err := a.expectedCash()
	if err != nil {
		return err
	}

	variance, err := declaredClosingCash.Sub(expectedCash)
	if err != nil {
		return err
	}

	return a.Apply(ShiftClosedEvent{
		ShiftID:                   a.State.ShiftID,
		DeclaredClosingCashAmount: declaredClosingCash,
		ExpectedCashAmount:        expectedCash,
		Variance:                  variance,
		ClosedAt:                  time.Now(),
	})
}

// ForceClose closes the shift without cash reconciliation, on supervisor authority
func (a *ShiftAggregate) ForceClose(supervisorID, reason string) error {
	if a.State.Status != ShiftStatusOpen {
		return NewInvariantViolation("Cannot force close a shift that is not open")
	}

	return a.Apply(ShiftForceClosedEvent{
		ShiftID:       a.State.ShiftID,
		SupervisorID:  supervisorID,
		Reason:        reason,
		ForceClosedAt: time.Now(),
	})
}

// ExpectedCash returns the opening amount minus all recorded cash drops
func (a *ShiftAggregate) ExpectedCash() (Money, error) {
	return a.expectedCash()
}

func (a *ShiftAggregate) expectedCash() (Money, error) {
	expected := a.State.OpeningCashAmount
	for _, drop := range a.State.CashDrops {
		var err error
		expected, err = expected.Sub(drop.Amount)
		if err != nil {
			return Money{}, err
		}
	}
	return expected, nil
}

// applyEvent applies an event to the shift aggregate
func (a *ShiftAggregate) applyEvent(event interface{}) {
	switch e := event.(type) {
	case ShiftOpenedEvent:
		a.State.ShiftID = e.ShiftID
		a.State.TerminalID = e.TerminalID
		a.State.BranchID = e.BranchID
		a.State.CashierID = e.CashierID
		a.State.OpeningCashAmount = e.OpeningCashAmount
		a.State.Status = ShiftStatusOpen
		a.State.OpenedAt = e.OpenedAt

	case CashDropRecordedEvent:
		a.State.CashDrops = append(a.State.CashDrops, CashDrop{
			Amount:     e.Amount,
			RecordedAt: e.RecordedAt,
		})

	case ShiftClosedEvent:
		a.State.Status = ShiftStatusClosed
		declared := e.DeclaredClosingCashAmount
		a.State.DeclaredClosingCashAmount = &declared
		closedAt := e.ClosedAt
		a.State.ClosedAt = &closedAt

	case ShiftForceClosedEvent:
		a.State.Status = ShiftStatusForceClosed
		closedAt := e.ForceClosedAt
		a.State.ClosedAt = &closedAt
	}
}
