package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finedge/internal/domain"
)

// WatchlistRepositoryImpl implements the WatchlistRepository interface
type WatchlistRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewWatchlistRepository creates a new WatchlistRepository
func NewWatchlistRepository(db *pgxpool.Pool) domain.WatchlistRepository {
	return &WatchlistRepositoryImpl{db: db}
}

// Get retrieves one item
func (r *WatchlistRepositoryImpl) Get(ctx context.Context, userID uuid.UUID, symbol string) (*domain.WatchlistItem, error) {
	query := `
		SELECT id, user_id, symbol, name, added_at
		FROM watchlist_items
		WHERE user_id = $1 AND symbol = $2
	`

	item := &domain.WatchlistItem{}
	err := r.db.QueryRow(ctx, query, userID, symbol).Scan(
		&item.ID,
		&item.UserID,
		&item.Symbol,
		&item.Name,
		&item.AddedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist item: %w", err)
	}

	return item, nil
}

// Add inserts a new item
func (r *WatchlistRepositoryImpl) Add(ctx context.Context, item *domain.WatchlistItem) error {
	query := `
		INSERT INTO watchlist_items (id, user_id, symbol, name, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, symbol) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Symbol,
		item.Name,
		item.AddedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add watchlist item: %w", err)
	}

	return nil
}

// Remove deletes an item; removing an absent item is not an error
func (r *WatchlistRepositoryImpl) Remove(ctx context.Context, userID uuid.UUID, symbol string) error {
	query := `
		DELETE FROM watchlist_items
		WHERE user_id = $1 AND symbol = $2
	`

	if _, err := r.db.Exec(ctx, query, userID, symbol); err != nil {
		return fmt.Errorf("failed to remove watchlist item: %w", err)
	}

	return nil
}

// ListByUser retrieves all items for a user
func (r *WatchlistRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WatchlistItem, error) {
	query := `
		SELECT id, user_id, symbol, name, added_at
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY added_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var items []*domain.WatchlistItem
	for rows.Next() {
		item := &domain.WatchlistItem{}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Symbol,
			&item.Name,
			&item.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist items: %w", err)
	}

	return items, nil
}
