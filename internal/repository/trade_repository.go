package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"finedge/internal/domain"
)

// TradeRepositoryImpl settles trades inside a single database transaction.
// The portfolio row is locked first, so the funds/ownership check, the
// ledger append and the balance update execute as one serializable unit.
type TradeRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *pgxpool.Pool) domain.TradeRepository {
	return &TradeRepositoryImpl{db: db}
}

// SettleBuy appends the buy entry and debits the cash balance
func (r *TradeRepositoryImpl) SettleBuy(ctx context.Context, txn *domain.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin trade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cash, err := lockCashBalance(ctx, tx, txn)
	if err != nil {
		return err
	}

	if txn.Total.GreaterThan(cash) {
		return domain.ErrInsufficientFunds
	}

	if err := appendEntry(ctx, tx, txn); err != nil {
		return err
	}

	if err := adjustCashBalance(ctx, tx, txn, txn.Total.Neg()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit buy: %w", err)
	}

	return nil
}

// SettleSell verifies ownership, appends the sell entry and credits the
// cash balance
func (r *TradeRepositoryImpl) SettleSell(ctx context.Context, txn *domain.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin trade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := lockCashBalance(ctx, tx, txn); err != nil {
		return err
	}

	// Ownership is re-folded under the portfolio lock so a concurrent sell
	// cannot pass the check against shares this one is about to release.
	ownedQuery := `
		SELECT COALESCE(SUM(CASE WHEN type = 'buy' THEN shares ELSE -shares END), 0)
		FROM transactions
		WHERE user_id = $1 AND symbol = $2
	`

	var owned decimal.Decimal
	if err := tx.QueryRow(ctx, ownedQuery, txn.UserID, txn.Symbol).Scan(&owned); err != nil {
		return fmt.Errorf("failed to fold owned shares: %w", err)
	}

	if owned.LessThan(txn.Shares) {
		return domain.ErrInsufficientShares
	}

	if err := appendEntry(ctx, tx, txn); err != nil {
		return err
	}

	if err := adjustCashBalance(ctx, tx, txn, txn.Total); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sell: %w", err)
	}

	return nil
}

func lockCashBalance(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) (decimal.Decimal, error) {
	query := `
		SELECT cash_balance
		FROM portfolios
		WHERE user_id = $1
		FOR UPDATE
	`

	var cash decimal.Decimal
	err := tx.QueryRow(ctx, query, txn.UserID).Scan(&cash)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, domain.ErrPortfolioNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock portfolio: %w", err)
	}

	return cash, nil
}

func appendEntry(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, type, symbol, name, shares, price, total, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Type,
		txn.Symbol,
		txn.Name,
		txn.Shares,
		txn.Price,
		txn.Total,
		txn.Date,
	)

	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

func adjustCashBalance(ctx context.Context, tx pgx.Tx, txn *domain.Transaction, delta decimal.Decimal) error {
	query := `
		UPDATE portfolios
		SET cash_balance = cash_balance + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	if _, err := tx.Exec(ctx, query, delta, txn.UserID); err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}

	return nil
}
