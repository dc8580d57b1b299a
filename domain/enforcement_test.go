package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssertTerminalHasNoOpenShift(t *testing.T) {
	svc := NewMultiTerminalEnforcementService()

	openShifts := map[string]string{"term-1": "shift-1"}

	require.NoError(t, svc.AssertTerminalHasNoOpenShift("term-2", openShifts))

	err := svc.AssertTerminalHasNoOpenShift("term-1", openShifts)
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "already has an open shift")
}

func TestAssertCashierHasNoOpenShift(t *testing.T) {
	svc := NewMultiTerminalEnforcementService()

	activeTerminals := map[string]string{"cashier-1": "term-1"}

	require.NoError(t, svc.AssertCashierHasNoOpenShift("cashier-2", activeTerminals))

	err := svc.AssertCashierHasNoOpenShift("cashier-1", activeTerminals)
	require.True(t, IsInvariantViolation(err))
}

func TestAssertOrderBelongsToTerminal(t *testing.T) {
	svc := NewMultiTerminalEnforcementService()

	binding := map[string]string{"order-1": "term-1"}

	// Unbound orders pass
	require.NoError(t, svc.AssertOrderBelongsToTerminal("order-2", "term-9", binding))

	require.NoError(t, svc.AssertOrderBelongsToTerminal("order-1", "term-1", binding))

	err := svc.AssertOrderBelongsToTerminal("order-1", "term-2", binding)
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "cannot be accessed from terminal")
}

func TestShiftClosePolicy(t *testing.T) {
	policy := NewShiftClosePolicy()

	require.NoError(t, policy.AssertCanClose("shift-1", nil))
	require.NoError(t, policy.AssertCanClose("shift-1", []string{}))

	err := policy.AssertCanClose("shift-1", []string{"session-1", "session-2"})
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "2 active POS session(s)")
}
