package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finedge/internal/domain"
	"finedge/internal/marketdata"
	"finedge/internal/repository/memory"
)

func newWatchlistFixture() (*WatchlistService, *memory.WatchlistRepo, uuid.UUID) {
	store := memory.NewStore()
	repo := memory.NewWatchlistRepo(store)
	return NewWatchlistService(repo, marketdata.NewProvider()), repo, uuid.New()
}

func TestWatchlistService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a known symbol with its name", func(t *testing.T) {
		svc, repo, userID := newWatchlistFixture()

		result, err := svc.Add(ctx, userID, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Added to watchlist", result.Message)
		require.NotNil(t, result.Item)
		assert.Equal(t, "AAPL", result.Item.Symbol)
		assert.Equal(t, "Apple Inc", result.Item.Name)

		items, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("duplicate add is a no-op", func(t *testing.T) {
		svc, repo, userID := newWatchlistFixture()

		_, err := svc.Add(ctx, userID, "AAPL")
		require.NoError(t, err)

		result, err := svc.Add(ctx, userID, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Already in watchlist", result.Message)
		assert.Nil(t, result.Item)

		items, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("lower-case input resolves to the canonical symbol", func(t *testing.T) {
		svc, _, userID := newWatchlistFixture()

		first, err := svc.Add(ctx, userID, "tsla")
		require.NoError(t, err)
		assert.Equal(t, "TSLA", first.Item.Symbol)

		second, err := svc.Add(ctx, userID, "TSLA")
		require.NoError(t, err)
		assert.Equal(t, "Already in watchlist", second.Message)
	})

	t.Run("unknown symbol is rejected", func(t *testing.T) {
		svc, _, userID := newWatchlistFixture()

		_, err := svc.Add(ctx, userID, "ZZZZ")
		assert.ErrorIs(t, err, domain.ErrStockNotFound)
	})
}

func TestWatchlistService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an existing symbol", func(t *testing.T) {
		svc, repo, userID := newWatchlistFixture()

		_, err := svc.Add(ctx, userID, "AAPL")
		require.NoError(t, err)

		msg, err := svc.Remove(ctx, userID, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Removed from watchlist", msg)

		items, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("removing an absent symbol succeeds", func(t *testing.T) {
		svc, _, userID := newWatchlistFixture()

		msg, err := svc.Remove(ctx, userID, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Removed from watchlist", msg)
	})
}

func TestWatchlistService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("entries carry live quote data", func(t *testing.T) {
		svc, _, userID := newWatchlistFixture()

		_, err := svc.Add(ctx, userID, "AAPL")
		require.NoError(t, err)

		entries, err := svc.List(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "AAPL", entries[0].Symbol)
		assert.False(t, entries[0].Price.IsZero())
		assert.Equal(t, 2.40, entries[0].ChangePercent)
	})

	t.Run("a symbol with no quote keeps zero-valued price fields", func(t *testing.T) {
		svc, repo, userID := newWatchlistFixture()

		err := repo.Add(ctx, &domain.WatchlistItem{
			ID:      uuid.New(),
			UserID:  userID,
			Symbol:  "GONE",
			Name:    "Delisted Corp",
			AddedAt: time.Now(),
		})
		require.NoError(t, err)

		entries, err := svc.List(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Delisted Corp", entries[0].Name)
		assert.True(t, entries[0].Price.IsZero())
		assert.Equal(t, 0.0, entries[0].ChangePercent)
	})

	t.Run("empty watchlist", func(t *testing.T) {
		svc, _, userID := newWatchlistFixture()

		entries, err := svc.List(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
