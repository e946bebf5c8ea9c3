package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username; ErrUserNotFound if absent
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// PortfolioRepository defines the interface for portfolio operations
type PortfolioRepository interface {
	// Create creates a new portfolio
	Create(ctx context.Context, portfolio *Portfolio) error

	// GetByUserID retrieves a user's portfolio; ErrPortfolioNotFound if absent
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Portfolio, error)

	// List retrieves all portfolios
	List(ctx context.Context) ([]*Portfolio, error)
}

// LedgerRepository is the append-only transaction log. Entries are the
// sole source of truth for positions and are never updated or deleted.
type LedgerRepository interface {
	// Append durably stores one transaction record
	Append(ctx context.Context, txn *Transaction) error

	// ListByUser retrieves all transactions for a user. Callers that need
	// chronology must sort by Date themselves.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// ListByUserAndSymbol is the filtered variant used for ownership checks
	ListByUserAndSymbol(ctx context.Context, userID uuid.UUID, symbol string) ([]*Transaction, error)

	// Page returns one page ordered by date descending plus the total
	// count for the filter. filter is one of FilterAll, FilterBuy,
	// FilterSell.
	Page(ctx context.Context, userID uuid.UUID, page, perPage int, filter string) ([]*Transaction, int, error)
}

// TradeRepository settles trades. Each settlement performs the balance
// check, the ledger append and the balance update as one atomic unit, so
// concurrent trades for the same user cannot both pass a check against a
// stale balance.
type TradeRepository interface {
	// SettleBuy appends the buy entry and debits its total from the cash
	// balance. ErrInsufficientFunds when total exceeds the balance,
	// ErrPortfolioNotFound when the user has no portfolio; no state
	// changes on either.
	SettleBuy(ctx context.Context, txn *Transaction) error

	// SettleSell verifies ownership of at least txn.Shares, appends the
	// sell entry and credits its total to the cash balance.
	// ErrInsufficientShares when ownership is short; no state changes.
	SettleSell(ctx context.Context, txn *Transaction) error
}

// WatchlistRepository defines the interface for watchlist operations
type WatchlistRepository interface {
	// Get retrieves one item; ErrNotFound if absent
	Get(ctx context.Context, userID uuid.UUID, symbol string) (*WatchlistItem, error)

	// Add inserts a new item
	Add(ctx context.Context, item *WatchlistItem) error

	// Remove deletes an item; removing an absent item is not an error
	Remove(ctx context.Context, userID uuid.UUID, symbol string) error

	// ListByUser retrieves all items for a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*WatchlistItem, error)
}

// SnapshotRepository stores daily portfolio valuation snapshots
type SnapshotRepository interface {
	// Insert stores one snapshot
	Insert(ctx context.Context, snapshot *PortfolioSnapshot) error

	// ListByUser retrieves the most recent snapshots for a user
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*PortfolioSnapshot, error)
}
