package eventstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/storebunk/services/pos/domain"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	shift, err := domain.OpenShift("shift-1", "term-1", "branch-1", "cashier-1", domain.NewMoney(10000, "KES"))
	require.NoError(t, err)
	require.NoError(t, shift.RecordCashDrop(domain.NewMoney(2000, "KES")))
	require.NoError(t, store.Save(ctx, shift))

	loaded := domain.NewShiftAggregate("shift-1")
	require.NoError(t, store.Load(ctx, loaded))

	require.Equal(t, 2, loaded.GetVersion())
	require.Equal(t, domain.ShiftStatusOpen, loaded.State.Status)
	require.Len(t, loaded.State.CashDrops, 1)
	require.Empty(t, loaded.GetEvents())
}

func TestLoadUnknownAggregateReturnsNotFound(t *testing.T) {
	store := NewMemoryEventStore()

	loaded := domain.NewShiftAggregate("missing")
	err := store.Load(context.Background(), loaded)
	require.True(t, domain.IsNotFound(err))
}

func TestSaveWithVersionDetectsConflict(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	shift, err := domain.OpenShift("shift-1", "term-1", "branch-1", "cashier-1", domain.NewMoney(10000, "KES"))
	require.NoError(t, err)
	require.NoError(t, store.SaveWithVersion(ctx, shift, 0))

	// Two concurrent loads observe version 1
	first := domain.NewShiftAggregate("shift-1")
	require.NoError(t, store.Load(ctx, first))
	second := domain.NewShiftAggregate("shift-1")
	require.NoError(t, store.Load(ctx, second))

	require.NoError(t, first.RecordCashDrop(domain.NewMoney(500, "KES")))
	require.NoError(t, store.SaveWithVersion(ctx, first, 1))

	require.NoError(t, second.RecordCashDrop(domain.NewMoney(700, "KES")))
	err = store.SaveWithVersion(ctx, second, 1)
	require.True(t, domain.IsConcurrency(err))

	var conflict *domain.ConcurrencyError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, 1, conflict.ExpectedVersion)
	require.Equal(t, 2, conflict.ActualVersion)
}

func TestSaveWithoutVersionIsLastWriterWins(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	shift, err := domain.OpenShift("shift-1", "term-1", "branch-1", "cashier-1", domain.NewMoney(10000, "KES"))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, shift))

	stale := domain.NewShiftAggregate("shift-1")
	require.NoError(t, store.Load(ctx, stale))
	require.NoError(t, stale.RecordCashDrop(domain.NewMoney(500, "KES")))
	require.NoError(t, store.Save(ctx, stale))

	events, err := store.GetEvents(ctx, "shift-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestUnprocessedEventTracking(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	shift, err := domain.OpenShift("shift-1", "term-1", "branch-1", "cashier-1", domain.NewMoney(10000, "KES"))
	require.NoError(t, err)
	require.NoError(t, shift.RecordCashDrop(domain.NewMoney(500, "KES")))
	require.NoError(t, store.Save(ctx, shift))

	unprocessed, err := store.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unprocessed, 2)

	require.NoError(t, store.MarkEventAsProcessed(ctx, unprocessed[0].ID))

	unprocessed, err = store.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unprocessed, 1)
	require.Equal(t, domain.CashDropRecorded, unprocessed[0].Type)
}
