package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finedge/internal/domain"
	"finedge/internal/marketdata"
	"finedge/internal/repository/memory"
)

type tradingFixture struct {
	store   *memory.Store
	userID  uuid.UUID
	repo    *memory.PortfolioRepo
	ledger  *memory.LedgerRepo
	trading *TradingService
}

func newTradingFixture(t *testing.T) *tradingFixture {
	t.Helper()

	store := memory.NewStore()
	portfolioRepo := memory.NewPortfolioRepo(store)
	ledgerRepo := memory.NewLedgerRepo(store)

	userID := uuid.New()
	now := time.Now()
	err := portfolioRepo.Create(context.Background(), &domain.Portfolio{
		ID:          uuid.New(),
		UserID:      userID,
		CashBalance: decimal.NewFromInt(10000),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	return &tradingFixture{
		store:   store,
		userID:  userID,
		repo:    portfolioRepo,
		ledger:  ledgerRepo,
		trading: NewTradingService(portfolioRepo, ledgerRepo, memory.NewTradeRepo(store), marketdata.NewProvider()),
	}
}

func (f *tradingFixture) cashBalance(t *testing.T) decimal.Decimal {
	t.Helper()
	p, err := f.repo.GetByUserID(context.Background(), f.userID)
	require.NoError(t, err)
	return p.CashBalance
}

func TestTradingService_Buy(t *testing.T) {
	ctx := context.Background()

	t.Run("buy debits cash and appends a ledger entry", func(t *testing.T) {
		f := newTradingFixture(t)

		txn, err := f.trading.Buy(ctx, f.userID, "AAPL", decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.Equal(t, domain.TransactionBuy, txn.Type)
		assert.Equal(t, "AAPL", txn.Symbol)
		assert.Equal(t, "Apple Inc", txn.Name)
		assert.True(t, txn.Price.Equal(decimal.RequireFromString("145.86")), "price %s", txn.Price)
		assert.True(t, txn.Total.Equal(decimal.RequireFromString("1458.60")), "total %s", txn.Total)

		assert.True(t, f.cashBalance(t).Equal(decimal.RequireFromString("8541.40")), "cash %s", f.cashBalance(t))

		entries, err := f.ledger.ListByUser(ctx, f.userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, txn.ID, entries[0].ID)
	})

	t.Run("symbol is case-insensitive and stored upper-case", func(t *testing.T) {
		f := newTradingFixture(t)

		txn, err := f.trading.Buy(ctx, f.userID, "aapl", decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.Equal(t, "AAPL", txn.Symbol)
	})

	t.Run("insufficient funds leaves state unchanged", func(t *testing.T) {
		f := newTradingFixture(t)

		// 100 AMZN at 3340.45 is far beyond the 10000 cash balance.
		_, err := f.trading.Buy(ctx, f.userID, "AMZN", decimal.NewFromInt(100))
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		assert.True(t, f.cashBalance(t).Equal(decimal.NewFromInt(10000)))
		entries, err := f.ledger.ListByUser(ctx, f.userID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("buy spending the exact balance succeeds", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Buy(ctx, f.userID, "AAPL", decimal.NewFromInt(10))
		require.NoError(t, err)

		// Remaining cash is 8541.40; 8541.40 / 145.86 is fractional, so
		// place a fractional order that consumes it exactly.
		shares := decimal.RequireFromString("8541.40").Div(decimal.RequireFromString("145.86"))
		_, err = f.trading.Buy(ctx, f.userID, "AAPL", shares)
		require.NoError(t, err)

		assert.True(t, f.cashBalance(t).IsZero(), "cash %s", f.cashBalance(t))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Buy(ctx, f.userID, "ZZZZ", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, domain.ErrStockNotFound)
	})

	t.Run("non-positive shares", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Buy(ctx, f.userID, "AAPL", decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrInvalidShares)

		_, err = f.trading.Buy(ctx, f.userID, "AAPL", decimal.NewFromInt(-5))
		assert.ErrorIs(t, err, domain.ErrInvalidShares)
	})

	t.Run("missing portfolio", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Buy(ctx, uuid.New(), "AAPL", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)
	})
}

func TestTradingService_ConcurrentBuys(t *testing.T) {
	ctx := context.Background()
	f := newTradingFixture(t)

	// Two orders of 8 TSLA cost 6122.72 each; the 10000 balance covers
	// one. Settlement holds the portfolio lock while it re-checks funds,
	// so a stale balance read cannot let both through.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.trading.Buy(ctx, f.userID, "TSLA", decimal.NewFromInt(8))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var settled, rejected int
	for err := range errs {
		if err == nil {
			settled++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		rejected++
	}
	assert.Equal(t, 1, settled)
	assert.Equal(t, 1, rejected)

	assert.True(t, f.cashBalance(t).Equal(decimal.RequireFromString("3877.28")), "cash %s", f.cashBalance(t))
	entries, err := f.ledger.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTradingService_Sell(t *testing.T) {
	ctx := context.Background()

	t.Run("sell credits cash and keeps the buy entry intact", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Buy(ctx, f.userID, "AAPL", decimal.NewFromInt(10))
		require.NoError(t, err)

		txn, err := f.trading.Sell(ctx, f.userID, "AAPL", decimal.NewFromInt(4))
		require.NoError(t, err)

		assert.Equal(t, domain.TransactionSell, txn.Type)
		assert.True(t, txn.Total.Equal(decimal.RequireFromString("583.44")), "total %s", txn.Total)

		// 10000 - 1458.60 + 583.44
		assert.True(t, f.cashBalance(t).Equal(decimal.RequireFromString("9125.84")), "cash %s", f.cashBalance(t))

		entries, err := f.ledger.ListByUser(ctx, f.userID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, domain.NetShares(entries).Equal(decimal.NewFromInt(6)))
	})

	t.Run("selling more than owned leaves state unchanged", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Buy(ctx, f.userID, "AAPL", decimal.NewFromInt(10))
		require.NoError(t, err)
		cashAfterBuy := f.cashBalance(t)

		_, err = f.trading.Sell(ctx, f.userID, "AAPL", decimal.NewFromInt(11))
		assert.ErrorIs(t, err, domain.ErrInsufficientShares)

		assert.True(t, f.cashBalance(t).Equal(cashAfterBuy))
		entries, err := f.ledger.ListByUser(ctx, f.userID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("selling a symbol never bought", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Sell(ctx, f.userID, "MSFT", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, domain.ErrInsufficientShares)
	})

	t.Run("selling an unquoted symbol reports insufficient shares first", func(t *testing.T) {
		f := newTradingFixture(t)

		// Ownership is checked before the quote lookup, so a symbol the
		// user never held fails the same way whether or not it trades.
		_, err := f.trading.Sell(ctx, f.userID, "ZZZZ", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, domain.ErrInsufficientShares)
	})

	t.Run("selling the whole position flattens it", func(t *testing.T) {
		f := newTradingFixture(t)

		_, err := f.trading.Buy(ctx, f.userID, "TSLA", decimal.NewFromInt(2))
		require.NoError(t, err)
		_, err = f.trading.Sell(ctx, f.userID, "TSLA", decimal.NewFromInt(2))
		require.NoError(t, err)

		owned, err := f.ledger.ListByUserAndSymbol(ctx, f.userID, "TSLA")
		require.NoError(t, err)
		assert.True(t, domain.NetShares(owned).IsZero())
	})
}

func TestTradingService_History(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *tradingFixture, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			_, err := f.trading.Buy(ctx, f.userID, "INTC", decimal.NewFromInt(1))
			require.NoError(t, err)
		}
	}

	t.Run("pages are sized and counted correctly", func(t *testing.T) {
		f := newTradingFixture(t)
		seed(t, f, 25)

		page, err := f.trading.History(ctx, f.userID, 1, 10, domain.FilterAll)
		require.NoError(t, err)
		assert.Len(t, page.Transactions, 10)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 25, page.TotalCount)

		last, err := f.trading.History(ctx, f.userID, 3, 10, domain.FilterAll)
		require.NoError(t, err)
		assert.Len(t, last.Transactions, 5)
	})

	t.Run("out-of-range page returns an empty slice with counts", func(t *testing.T) {
		f := newTradingFixture(t)
		seed(t, f, 3)

		page, err := f.trading.History(ctx, f.userID, 5, 10, domain.FilterAll)
		require.NoError(t, err)
		assert.Empty(t, page.Transactions)
		assert.Equal(t, 5, page.CurrentPage)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, 3, page.TotalCount)
	})

	t.Run("filter by side", func(t *testing.T) {
		f := newTradingFixture(t)
		seed(t, f, 4)
		_, err := f.trading.Sell(ctx, f.userID, "INTC", decimal.NewFromInt(2))
		require.NoError(t, err)

		buys, err := f.trading.History(ctx, f.userID, 1, 10, domain.FilterBuy)
		require.NoError(t, err)
		assert.Equal(t, 4, buys.TotalCount)

		sells, err := f.trading.History(ctx, f.userID, 1, 10, domain.FilterSell)
		require.NoError(t, err)
		assert.Equal(t, 1, sells.TotalCount)
	})

	t.Run("empty history", func(t *testing.T) {
		f := newTradingFixture(t)

		page, err := f.trading.History(ctx, f.userID, 1, 10, domain.FilterAll)
		require.NoError(t, err)
		assert.Empty(t, page.Transactions)
		assert.Equal(t, 0, page.TotalPages)
		assert.Equal(t, 0, page.TotalCount)
	})
}
