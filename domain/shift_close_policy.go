package domain

// ShiftClosePolicy guards shift closure against sessions the Shift
// aggregate cannot see. It must be evaluated with a current read-model
// snapshot before the aggregate's Close is invoked.
type ShiftClosePolicy struct{}

// NewShiftClosePolicy creates the policy
func NewShiftClosePolicy() *ShiftClosePolicy {
	return &ShiftClosePolicy{}
}

// AssertCanClose rejects closing a shift that still has active POS sessions
func (p *ShiftClosePolicy) AssertCanClose(shiftID string, activeSessionIDs []string) error {
	if len(activeSessionIDs) > 0 {
		return NewInvariantViolation("Cannot close shift %q: %d active POS session(s) still exist",
			shiftID, len(activeSessionIDs))
	}
	return nil
}
