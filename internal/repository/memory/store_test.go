package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finedge/internal/domain"
)

func seedPortfolio(t *testing.T, s *Store, cash string) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	now := time.Now()
	err := NewPortfolioRepo(s).Create(context.Background(), &domain.Portfolio{
		ID:          uuid.New(),
		UserID:      userID,
		CashBalance: decimal.RequireFromString(cash),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return userID
}

func txn(userID uuid.UUID, txnType, symbol string, shares, price string, date time.Time) *domain.Transaction {
	sh := decimal.RequireFromString(shares)
	pr := decimal.RequireFromString(price)
	return &domain.Transaction{
		ID:     uuid.New(),
		UserID: userID,
		Type:   txnType,
		Symbol: symbol,
		Name:   symbol,
		Shares: sh,
		Price:  pr,
		Total:  pr.Mul(sh).Round(2),
		Date:   date,
	}
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewUserRepo(s)

	user := &domain.User{ID: uuid.New(), Username: "alice", PasswordHash: "x", Role: domain.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, user))

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, &domain.User{ID: uuid.New(), Username: "alice"})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("lookup by id and username", func(t *testing.T) {
		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		byName, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = repo.GetByUsername(ctx, "bob")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestLedgerRepo_Page(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewLedgerRepo(s)
	userID := uuid.New()

	base := time.Now()
	for i := 0; i < 12; i++ {
		txnType := domain.TransactionBuy
		if i%3 == 0 {
			txnType = domain.TransactionSell
		}
		require.NoError(t, repo.Append(ctx, txn(userID, txnType, "AAPL", "1", "145.86", base.Add(time.Duration(i)*time.Minute))))
	}

	t.Run("newest first", func(t *testing.T) {
		page, total, err := repo.Page(ctx, userID, 1, 5, domain.FilterAll)
		require.NoError(t, err)
		assert.Equal(t, 12, total)
		require.Len(t, page, 5)
		for i := 1; i < len(page); i++ {
			assert.True(t, page[i-1].Date.After(page[i].Date))
		}
	})

	t.Run("last page is partial", func(t *testing.T) {
		page, total, err := repo.Page(ctx, userID, 3, 5, domain.FilterAll)
		require.NoError(t, err)
		assert.Equal(t, 12, total)
		assert.Len(t, page, 2)
	})

	t.Run("out-of-range page", func(t *testing.T) {
		page, total, err := repo.Page(ctx, userID, 9, 5, domain.FilterAll)
		require.NoError(t, err)
		assert.Equal(t, 12, total)
		assert.Empty(t, page)
	})

	t.Run("filter by type", func(t *testing.T) {
		sells, total, err := repo.Page(ctx, userID, 1, 20, domain.FilterSell)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		for _, entry := range sells {
			assert.Equal(t, domain.TransactionSell, entry.Type)
		}

		_, total, err = repo.Page(ctx, userID, 1, 20, domain.FilterBuy)
		require.NoError(t, err)
		assert.Equal(t, 8, total)
	})

	t.Run("unknown user has an empty ledger", func(t *testing.T) {
		page, total, err := repo.Page(ctx, uuid.New(), 1, 5, domain.FilterAll)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, page)
	})
}

func TestTradeRepo_SettleBuy(t *testing.T) {
	ctx := context.Background()

	t.Run("debits cash and appends atomically", func(t *testing.T) {
		s := NewStore()
		userID := seedPortfolio(t, s, "10000")
		repo := NewTradeRepo(s)

		require.NoError(t, repo.SettleBuy(ctx, txn(userID, domain.TransactionBuy, "AAPL", "10", "145.86", time.Now())))

		p, err := NewPortfolioRepo(s).GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, p.CashBalance.Equal(decimal.RequireFromString("8541.40")), "cash %s", p.CashBalance)
	})

	t.Run("rejects a buy beyond the balance with no side effects", func(t *testing.T) {
		s := NewStore()
		userID := seedPortfolio(t, s, "100")
		repo := NewTradeRepo(s)

		err := repo.SettleBuy(ctx, txn(userID, domain.TransactionBuy, "AAPL", "10", "145.86", time.Now()))
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		entries, err := NewLedgerRepo(s).ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing portfolio", func(t *testing.T) {
		s := NewStore()
		err := NewTradeRepo(s).SettleBuy(ctx, txn(uuid.New(), domain.TransactionBuy, "AAPL", "1", "145.86", time.Now()))
		assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)
	})
}

func TestTradeRepo_SettleSell(t *testing.T) {
	ctx := context.Background()

	t.Run("credits cash against owned shares", func(t *testing.T) {
		s := NewStore()
		userID := seedPortfolio(t, s, "8541.40")
		repo := NewTradeRepo(s)
		require.NoError(t, NewLedgerRepo(s).Append(ctx, txn(userID, domain.TransactionBuy, "AAPL", "10", "145.86", time.Now())))

		require.NoError(t, repo.SettleSell(ctx, txn(userID, domain.TransactionSell, "AAPL", "4", "145.86", time.Now())))

		p, err := NewPortfolioRepo(s).GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, p.CashBalance.Equal(decimal.RequireFromString("9125.84")), "cash %s", p.CashBalance)
	})

	t.Run("ownership is checked per symbol", func(t *testing.T) {
		s := NewStore()
		userID := seedPortfolio(t, s, "10000")
		repo := NewTradeRepo(s)
		require.NoError(t, NewLedgerRepo(s).Append(ctx, txn(userID, domain.TransactionBuy, "AAPL", "10", "145.86", time.Now())))

		err := repo.SettleSell(ctx, txn(userID, domain.TransactionSell, "MSFT", "1", "286.22", time.Now()))
		assert.ErrorIs(t, err, domain.ErrInsufficientShares)
	})
}

func TestSnapshotRepo(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewSnapshotRepo(s)
	userID := uuid.New()

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &domain.PortfolioSnapshot{
			ID:         uuid.New(),
			UserID:     userID,
			TotalValue: decimal.NewFromInt(int64(10000 + i)),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	snapshots, err := repo.ListByUser(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	// Most recent first.
	assert.True(t, snapshots[0].TotalValue.Equal(decimal.NewFromInt(10004)))
}
