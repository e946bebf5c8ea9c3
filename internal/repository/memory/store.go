// Package memory provides in-memory implementations of every repository.
// It backs the service when no DATABASE_URL is configured and doubles as
// the storage fake in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"finedge/internal/domain"
)

// Store holds all in-memory state. One mutex guards everything, which is
// what gives the trade settlement path the same serializability the SQL
// transaction gives: the funds/ownership check, the ledger append and the
// balance update happen under a single critical section.
type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]domain.User
	usernames map[string]uuid.UUID
	// portfolios and watchlists are keyed by user ID
	portfolios map[uuid.UUID]domain.Portfolio
	ledger     map[uuid.UUID][]domain.Transaction
	watchlists map[uuid.UUID][]domain.WatchlistItem
	snapshots  map[uuid.UUID][]domain.PortfolioSnapshot
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]domain.User),
		usernames:  make(map[string]uuid.UUID),
		portfolios: make(map[uuid.UUID]domain.Portfolio),
		ledger:     make(map[uuid.UUID][]domain.Transaction),
		watchlists: make(map[uuid.UUID][]domain.WatchlistItem),
		snapshots:  make(map[uuid.UUID][]domain.PortfolioSnapshot),
	}
}

/* ---- User repo ---- */

// UserRepo is the in-memory UserRepository.
type UserRepo struct{ s *Store }

// NewUserRepo creates a UserRepo over the store.
func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usernames[user.Username]; ok {
		return domain.ErrUserExists
	}
	r.s.users[user.ID] = *user
	r.s.usernames[user.Username] = user.ID
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.usernames[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

/* ---- Portfolio repo ---- */

// PortfolioRepo is the in-memory PortfolioRepository.
type PortfolioRepo struct{ s *Store }

// NewPortfolioRepo creates a PortfolioRepo over the store.
func NewPortfolioRepo(s *Store) *PortfolioRepo { return &PortfolioRepo{s: s} }

func (r *PortfolioRepo) Create(ctx context.Context, p *domain.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.portfolios[p.UserID] = *p
	return nil
}

func (r *PortfolioRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.portfolios[userID]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	return &p, nil
}

func (r *PortfolioRepo) List(ctx context.Context) ([]*domain.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Portfolio, 0, len(r.s.portfolios))
	for _, p := range r.s.portfolios {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

/* ---- Ledger repo ---- */

// LedgerRepo is the in-memory LedgerRepository.
type LedgerRepo struct{ s *Store }

// NewLedgerRepo creates a LedgerRepo over the store.
func NewLedgerRepo(s *Store) *LedgerRepo { return &LedgerRepo{s: s} }

func (r *LedgerRepo) Append(ctx context.Context, txn *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ledger[txn.UserID] = append(r.s.ledger[txn.UserID], *txn)
	return nil
}

func (r *LedgerRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyTxns(r.s.ledger[userID], func(domain.Transaction) bool { return true }), nil
}

func (r *LedgerRepo) ListByUserAndSymbol(ctx context.Context, userID uuid.UUID, symbol string) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyTxns(r.s.ledger[userID], func(t domain.Transaction) bool { return t.Symbol == symbol }), nil
}

func (r *LedgerRepo) Page(ctx context.Context, userID uuid.UUID, page, perPage int, filter string) ([]*domain.Transaction, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := copyTxns(r.s.ledger[userID], func(t domain.Transaction) bool {
		return filter == domain.FilterAll || t.Type == filter
	})
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

	total := len(matched)
	start := (page - 1) * perPage
	if start >= total {
		return []*domain.Transaction{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func copyTxns(txns []domain.Transaction, keep func(domain.Transaction) bool) []*domain.Transaction {
	out := make([]*domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if keep(t) {
			t := t
			out = append(out, &t)
		}
	}
	return out
}

/* ---- Trade repo ---- */

// TradeRepo is the in-memory TradeRepository.
type TradeRepo struct{ s *Store }

// NewTradeRepo creates a TradeRepo over the store.
func NewTradeRepo(s *Store) *TradeRepo { return &TradeRepo{s: s} }

func (r *TradeRepo) SettleBuy(ctx context.Context, txn *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.portfolios[txn.UserID]
	if !ok {
		return domain.ErrPortfolioNotFound
	}
	if txn.Total.GreaterThan(p.CashBalance) {
		return domain.ErrInsufficientFunds
	}

	r.s.ledger[txn.UserID] = append(r.s.ledger[txn.UserID], *txn)
	p.CashBalance = p.CashBalance.Sub(txn.Total)
	p.UpdatedAt = time.Now()
	r.s.portfolios[txn.UserID] = p
	return nil
}

func (r *TradeRepo) SettleSell(ctx context.Context, txn *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.portfolios[txn.UserID]
	if !ok {
		return domain.ErrPortfolioNotFound
	}

	owned := domain.NetShares(copyTxns(r.s.ledger[txn.UserID], func(t domain.Transaction) bool {
		return t.Symbol == txn.Symbol
	}))
	if owned.LessThan(txn.Shares) {
		return domain.ErrInsufficientShares
	}

	r.s.ledger[txn.UserID] = append(r.s.ledger[txn.UserID], *txn)
	p.CashBalance = p.CashBalance.Add(txn.Total)
	p.UpdatedAt = time.Now()
	r.s.portfolios[txn.UserID] = p
	return nil
}

/* ---- Watchlist repo ---- */

// WatchlistRepo is the in-memory WatchlistRepository.
type WatchlistRepo struct{ s *Store }

// NewWatchlistRepo creates a WatchlistRepo over the store.
func NewWatchlistRepo(s *Store) *WatchlistRepo { return &WatchlistRepo{s: s} }

func (r *WatchlistRepo) Get(ctx context.Context, userID uuid.UUID, symbol string) (*domain.WatchlistItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, item := range r.s.watchlists[userID] {
		if item.Symbol == symbol {
			item := item
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *WatchlistRepo) Add(ctx context.Context, item *domain.WatchlistItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.watchlists[item.UserID] {
		if existing.Symbol == item.Symbol {
			return nil
		}
	}
	r.s.watchlists[item.UserID] = append(r.s.watchlists[item.UserID], *item)
	return nil
}

func (r *WatchlistRepo) Remove(ctx context.Context, userID uuid.UUID, symbol string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.watchlists[userID]
	for i, item := range items {
		if item.Symbol == symbol {
			r.s.watchlists[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *WatchlistRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WatchlistItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := r.s.watchlists[userID]
	out := make([]*domain.WatchlistItem, 0, len(items))
	for _, item := range items {
		item := item
		out = append(out, &item)
	}
	return out, nil
}

/* ---- Snapshot repo ---- */

// SnapshotRepo is the in-memory SnapshotRepository.
type SnapshotRepo struct{ s *Store }

// NewSnapshotRepo creates a SnapshotRepo over the store.
func NewSnapshotRepo(s *Store) *SnapshotRepo { return &SnapshotRepo{s: s} }

func (r *SnapshotRepo) Insert(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.snapshots[snapshot.UserID] = append(r.s.snapshots[snapshot.UserID], *snapshot)
	return nil
}

func (r *SnapshotRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.PortfolioSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	snapshots := r.s.snapshots[userID]
	out := make([]*domain.PortfolioSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		snap := snap
		out = append(out, &snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
