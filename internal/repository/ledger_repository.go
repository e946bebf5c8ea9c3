package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finedge/internal/domain"
)

// LedgerRepositoryImpl implements the LedgerRepository interface over the
// append-only transactions table.
type LedgerRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// Append durably stores one transaction record
func (r *LedgerRepositoryImpl) Append(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, type, symbol, name, shares, price, total, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
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
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// ListByUser retrieves all transactions for a user
func (r *LedgerRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, symbol, name, shares, price, total, date
		FROM transactions
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByUserAndSymbol retrieves a user's transactions for one symbol
func (r *LedgerRepositoryImpl) ListByUserAndSymbol(ctx context.Context, userID uuid.UUID, symbol string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, symbol, name, shares, price, total, date
		FROM transactions
		WHERE user_id = $1 AND symbol = $2
	`

	rows, err := r.db.Query(ctx, query, userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by symbol: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Page returns one page ordered by date descending plus the total count
func (r *LedgerRepositoryImpl) Page(ctx context.Context, userID uuid.UUID, page, perPage int, filter string) ([]*domain.Transaction, int, error) {
	query := `
		SELECT id, user_id, type, symbol, name, shares, price, total, date
		FROM transactions
		WHERE user_id = $1 AND ($2 = 'all' OR type = $2)
		ORDER BY date DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transaction page: %w", err)
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND ($2 = 'all' OR type = $2)
	`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID, filter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return txns, total, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		txn := &domain.Transaction{}
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Type,
			&txn.Symbol,
			&txn.Name,
			&txn.Shares,
			&txn.Price,
			&txn.Total,
			&txn.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}
