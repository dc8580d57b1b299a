package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyRecordsEventAndIncrementsVersion(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Front Desk")
	require.NoError(t, err)

	require.Equal(t, 1, aggregate.GetVersion())
	require.Len(t, aggregate.GetEvents(), 1)
	require.Equal(t, TerminalRegistered, aggregate.GetEvents()[0].Type)
	require.Equal(t, 1, aggregate.GetEvents()[0].Version)

	require.NoError(t, aggregate.Disable())
	require.Equal(t, 2, aggregate.GetVersion())
	require.Len(t, aggregate.GetEvents(), 2)
	require.Equal(t, 2, aggregate.GetEvents()[1].Version)
}

func TestPopEventsDrainsPending(t *testing.T) {
	aggregate, err := RegisterTerminal("term-1", "branch-1", "Front Desk")
	require.NoError(t, err)

	events := aggregate.PopEvents()
	require.Len(t, events, 1)
	require.Empty(t, aggregate.GetEvents())
	require.Equal(t, 1, aggregate.GetVersion())
}

func TestLoadFromHistoryRebuildsStateWithoutPendingEvents(t *testing.T) {
	history := []Event{
		{
			ID:            "ev-1",
			AggregateID:   "term-1",
			AggregateType: "terminal",
			Type:          TerminalRegistered,
			Version:       1,
			Timestamp:     time.Now(),
			Data: TerminalRegisteredEvent{
				TerminalID:   "term-1",
				BranchID:     "branch-1",
				Name:         "Front Desk",
				RegisteredAt: time.Now(),
			},
		},
		{
			ID:            "ev-2",
			AggregateID:   "term-1",
			AggregateType: "terminal",
			Type:          TerminalDisabled,
			Version:       2,
			Timestamp:     time.Now(),
			Data: TerminalDisabledEvent{
				TerminalID: "term-1",
				DisabledAt: time.Now(),
			},
		},
	}

	aggregate := NewTerminalAggregate("term-1")
	require.NoError(t, aggregate.LoadFromHistory(history))

	require.Equal(t, 2, aggregate.GetVersion())
	require.Empty(t, aggregate.GetEvents())
	require.Equal(t, TerminalStatusDisabled, aggregate.State.Status)
	require.Equal(t, "Front Desk", aggregate.State.Name)
}

func TestLoadFromHistoryRejectsUnknownEventType(t *testing.T) {
	history := []Event{
		{
			ID:          "ev-1",
			AggregateID: "term-1",
			Type:        "V1_SOMETHING_ELSE",
			Version:     1,
			Data:        struct{}{},
		},
	}

	aggregate := NewTerminalAggregate("term-1")
	require.Error(t, aggregate.LoadFromHistory(history))
}

func TestReplayedAggregateMatchesRecordedOne(t *testing.T) {
	original, err := OpenShift("shift-1", "term-1", "branch-1", "cashier-1", NewMoney(10000, "KES"))
	require.NoError(t, err)
	require.NoError(t, original.RecordCashDrop(NewMoney(2000, "KES")))
	require.NoError(t, original.Close(NewMoney(8000, "KES")))

	replayed := NewShiftAggregate("shift-1")
	require.NoError(t, replayed.LoadFromHistory(original.GetEvents()))

	require.Equal(t, original.GetVersion(), replayed.GetVersion())
	require.Equal(t, original.State.Status, replayed.State.Status)
	require.Equal(t, original.State.CashDrops, replayed.State.CashDrops)
	require.Empty(t, replayed.GetEvents())
}
