package holding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/models"
	"github.com/bobmcallan/investsync/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, interfaces.StorageManager) {
	t.Helper()
	logger := common.NewSilentLogger()
	storage := memory.NewManager(logger)
	return NewService(storage, logger), storage
}

func TestAdd(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	holding, err := svc.Add(ctx, "alice", models.HoldingDraft{
		Symbol:   "AAPL",
		Name:     "Apple Inc",
		Quantity: 10,
		Profit:   520.5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, holding.ID)
	assert.Equal(t, "alice", holding.UserID)
	assert.Equal(t, "AAPL", holding.Symbol)
	assert.False(t, holding.UpdatedAt.IsZero())
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", models.HoldingDraft{Name: "Apple Inc"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Add(ctx, "alice", models.HoldingDraft{Symbol: "AAPL"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestList_Mine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", models.HoldingDraft{Symbol: "AAPL", Name: "Apple Inc"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "bob", models.HoldingDraft{Symbol: "TSLA", Name: "Tesla"})
	require.NoError(t, err)

	holdings, err := svc.List(ctx, "alice", models.HoldingScope{Kind: models.ScopeMine})
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "AAPL", holdings[0].Symbol)
}

func TestList_Room(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()

	room := &models.Room{Code: "1234", HostID: "alice", Members: []string{"alice", "bob"}, CreatedAt: time.Now()}
	require.NoError(t, storage.Rooms().Save(ctx, room))

	_, err := svc.Add(ctx, "alice", models.HoldingDraft{Symbol: "AAPL", Name: "Apple Inc"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "bob", models.HoldingDraft{Symbol: "TSLA", Name: "Tesla"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "outsider", models.HoldingDraft{Symbol: "NVDA", Name: "Nvidia"})
	require.NoError(t, err)

	t.Run("member sees pooled holdings", func(t *testing.T) {
		holdings, err := svc.List(ctx, "bob", models.HoldingScope{Kind: models.ScopeRoom, RoomCode: "1234"})
		require.NoError(t, err)
		assert.Len(t, holdings, 2)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		_, err := svc.List(ctx, "outsider", models.HoldingScope{Kind: models.ScopeRoom, RoomCode: "1234"})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := svc.List(ctx, "alice", models.HoldingScope{Kind: models.ScopeRoom, RoomCode: "0000"})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestBatchImport_AppliesDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	imported, err := svc.BatchImport(ctx, "alice", []models.HoldingDraft{
		{Name: "Apple Inc", Symbol: "AAPL", Profit: 100, Notes: "from broker"},
		{Profit: -50},
	})
	require.NoError(t, err)
	require.Len(t, imported, 2)

	assert.Equal(t, "from broker", imported[0].Notes)

	assert.Equal(t, models.DefaultHoldingSymbol, imported[1].Symbol)
	assert.Equal(t, models.DefaultHoldingName, imported[1].Name)
	assert.Equal(t, models.ImportedHoldingNotes, imported[1].Notes)
	assert.Equal(t, "alice", imported[1].UserID)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	holding, err := svc.Add(ctx, "alice", models.HoldingDraft{Symbol: "AAPL", Name: "Apple Inc", Quantity: 10})
	require.NoError(t, err)

	qty := 15.0
	updated, err := svc.Update(ctx, "alice", holding.ID, models.HoldingPatch{Quantity: &qty})
	require.NoError(t, err)

	assert.Equal(t, 15.0, updated.Quantity)
	assert.Equal(t, "AAPL", updated.Symbol)
}

func TestUpdate_OwnershipScoped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	holding, err := svc.Add(ctx, "alice", models.HoldingDraft{Symbol: "AAPL", Name: "Apple Inc"})
	require.NoError(t, err)

	qty := 1.0

	// A non-owner gets the same 404 as a missing id.
	_, err = svc.Update(ctx, "bob", holding.ID, models.HoldingPatch{Quantity: &qty})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Update(ctx, "alice", "no-such-id", models.HoldingPatch{Quantity: &qty})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	holding, err := svc.Add(ctx, "alice", models.HoldingDraft{Symbol: "AAPL", Name: "Apple Inc"})
	require.NoError(t, err)

	t.Run("non-owner cannot remove", func(t *testing.T) {
		err := svc.Remove(ctx, "bob", holding.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("owner removes", func(t *testing.T) {
		require.NoError(t, svc.Remove(ctx, "alice", holding.ID))

		holdings, err := svc.List(ctx, "alice", models.HoldingScope{Kind: models.ScopeMine})
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})
}
