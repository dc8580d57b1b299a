package domain

// MultiTerminalEnforcementService holds the cross-aggregate guards that a
// single Shift or PosSession instance cannot check on its own: one open
// shift per terminal and per cashier, and orders only touched from the
// terminal that created them. The snapshots are supplied by the caller
// from the read models at dispatch time.
type MultiTerminalEnforcementService struct{}

// NewMultiTerminalEnforcementService creates the enforcement service
func NewMultiTerminalEnforcementService() *MultiTerminalEnforcementService {
	return &MultiTerminalEnforcementService{}
}

// AssertTerminalHasNoOpenShift rejects opening a second shift on a terminal.
// openShiftsByTerminal maps terminal ID to the open shift ID.
func (s *MultiTerminalEnforcementService) AssertTerminalHasNoOpenShift(terminalID string, openShiftsByTerminal map[string]string) error {
	if shiftID, ok := openShiftsByTerminal[terminalID]; ok {
		return NewInvariantViolation("Terminal %q already has an open shift (%s)", terminalID, shiftID)
	}
	return nil
}

// AssertCashierHasNoOpenShift rejects a cashier opening shifts on two terminals.
// activeTerminalByCashier maps cashier ID to the terminal holding their open shift.
func (s *MultiTerminalEnforcementService) AssertCashierHasNoOpenShift(cashierID string, activeTerminalByCashier map[string]string) error {
	if terminalID, ok := activeTerminalByCashier[cashierID]; ok {
		return NewInvariantViolation("Cashier %q already has an open shift on terminal %q", cashierID, terminalID)
	}
	return nil
}

// AssertOrderBelongsToTerminal rejects touching an order from a terminal
// other than the one it is bound to. Unbound orders pass.
// orderTerminalBinding maps order ID to its owning terminal ID.
func (s *MultiTerminalEnforcementService) AssertOrderBelongsToTerminal(orderID, terminalID string, orderTerminalBinding map[string]string) error {
	boundTerminal, ok := orderTerminalBinding[orderID]
	if !ok {
		return nil
	}

	if boundTerminal != terminalID {
		return NewInvariantViolation("Order %q is bound to terminal %q and cannot be accessed from terminal %q",
			orderID, boundTerminal, terminalID)
	}

	return nil
}
