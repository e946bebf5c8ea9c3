package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finedge/internal/domain"
)

// Watchlist add/remove result messages
const (
	msgAlreadyInWatchlist   = "Already in watchlist"
	msgAddedToWatchlist     = "Added to watchlist"
	msgRemovedFromWatchlist = "Removed from watchlist"
)

// WatchlistService manages the per-user watchlist. Symbols are stored with
// the name cached at add time; prices are always resolved live on read.
type WatchlistService struct {
	watchlistRepo domain.WatchlistRepository
	quotes        domain.QuoteProvider
}

// NewWatchlistService creates a new WatchlistService
func NewWatchlistService(watchlistRepo domain.WatchlistRepository, quotes domain.QuoteProvider) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
		quotes:        quotes,
	}
}

// AddResult is the outcome of an Add call.
type AddResult struct {
	Message string                `json:"message"`
	Item    *domain.WatchlistItem `json:"item,omitempty"`
}

// Add puts a symbol on the user's watchlist. Adding a symbol that is
// already present is a no-op success; an unknown symbol is rejected.
func (s *WatchlistService) Add(ctx context.Context, userID uuid.UUID, symbol string) (*AddResult, error) {
	quote, ok := s.quotes.Lookup(symbol)
	if !ok {
		return nil, domain.ErrStockNotFound
	}

	if _, err := s.watchlistRepo.Get(ctx, userID, quote.Symbol); err == nil {
		return &AddResult{Message: msgAlreadyInWatchlist}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check watchlist: %w", err)
	}

	item := &domain.WatchlistItem{
		ID:      uuid.New(),
		UserID:  userID,
		Symbol:  quote.Symbol,
		Name:    quote.Name,
		AddedAt: time.Now(),
	}

	if err := s.watchlistRepo.Add(ctx, item); err != nil {
		return nil, err
	}

	return &AddResult{Message: msgAddedToWatchlist, Item: item}, nil
}

// Remove takes a symbol off the user's watchlist. Removing an absent
// symbol succeeds.
func (s *WatchlistService) Remove(ctx context.Context, userID uuid.UUID, symbol string) (string, error) {
	if err := s.watchlistRepo.Remove(ctx, userID, symbol); err != nil {
		return "", err
	}
	return msgRemovedFromWatchlist, nil
}

// List returns the user's watchlist joined with live quotes. A symbol
// whose quote has gone missing is kept with zero-valued price fields
// rather than failing the whole read.
func (s *WatchlistService) List(ctx context.Context, userID uuid.UUID) ([]domain.WatchlistEntry, error) {
	items, err := s.watchlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.WatchlistEntry, 0, len(items))
	for _, item := range items {
		entry := domain.WatchlistEntry{
			Symbol: item.Symbol,
			Name:   item.Name,
			Price:  decimal.Zero,
		}
		if quote, ok := s.quotes.Lookup(item.Symbol); ok {
			entry.Price = quote.Price
			entry.Change = quote.Change
			entry.ChangePercent = quote.ChangePercent
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
