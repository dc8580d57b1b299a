package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterTerminalStartsActive(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Till 1")
	require.NoError(t, err)

	require.Equal(t, TerminalStatusActive, aggregate.State.Status)
	require.Equal(t, "branch-1", aggregate.State.BranchID)
	require.Equal(t, "Till 1", aggregate.State.Name)
}

func TestTerminalStatusTransitions(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Till 1")
	require.NoError(t, err)

	require.NoError(t, aggregate.SetMaintenance())
	require.Equal(t, TerminalStatusMaintenance, aggregate.State.Status)

	require.NoError(t, aggregate.Disable())
	require.Equal(t, TerminalStatusDisabled, aggregate.State.Status)

	require.NoError(t, aggregate.Activate())
	require.Equal(t, TerminalStatusActive, aggregate.State.Status)
}

func TestCannotDecommissionActiveTerminal(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Till 1")
	require.NoError(t, err)

	err = aggregate.Decommission("end of life")
	require.Error(t, err)
	require.True(t, IsInvariantViolation(err))
	require.Contains(t, err.Error(), "disable or set to maintenance first")
}

func TestDecommissionAndRecommission(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Till 1")
	require.NoError(t, err)

	require.NoError(t, aggregate.Disable())
	require.NoError(t, aggregate.Decommission("end of life"))
	require.Equal(t, TerminalStatusDecommissioned, aggregate.State.Status)

	// Decommissioned terminals reject normal transitions
	require.True(t, IsInvariantViolation(aggregate.Activate()))
	require.True(t, IsInvariantViolation(aggregate.Disable()))
	require.True(t, IsInvariantViolation(aggregate.SetMaintenance()))
	require.True(t, IsInvariantViolation(aggregate.Rename("New name")))
	require.True(t, IsInvariantViolation(aggregate.Reassign("branch-2")))

	require.NoError(t, aggregate.Recommission("audit passed"))
	require.Equal(t, TerminalStatusDisabled, aggregate.State.Status)
}

func TestRenameRejectsSameName(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Till 1")
	require.NoError(t, err)

	require.True(t, IsInvariantViolation(aggregate.Rename("Till 1")))

	require.NoError(t, aggregate.Rename("Till 2"))
	require.Equal(t, "Till 2", aggregate.State.Name)
}

func TestReassignRequiresNonActiveTerminal(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Till 1")
	require.NoError(t, err)

	require.True(t, IsInvariantViolation(aggregate.Reassign("branch-2")))

	require.NoError(t, aggregate.Disable())
	require.True(t, IsInvariantViolation(aggregate.Reassign("branch-1")))

	require.NoError(t, aggregate.Reassign("branch-2"))
	require.Equal(t, "branch-2", aggregate.State.BranchID)
}
