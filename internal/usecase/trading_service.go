package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finedge/internal/domain"
)

// TradingService validates and executes buy and sell orders. Every order
// fills instantly and completely at the current quote price; a declared
// order type (market/limit) and limit price are accepted by the API for
// forward compatibility but do not affect execution.
type TradingService struct {
	portfolioRepo domain.PortfolioRepository
	ledgerRepo    domain.LedgerRepository
	tradeRepo     domain.TradeRepository
	quotes        domain.QuoteProvider
}

// NewTradingService creates a new TradingService
func NewTradingService(
	portfolioRepo domain.PortfolioRepository,
	ledgerRepo domain.LedgerRepository,
	tradeRepo domain.TradeRepository,
	quotes domain.QuoteProvider,
) *TradingService {
	return &TradingService{
		portfolioRepo: portfolioRepo,
		ledgerRepo:    ledgerRepo,
		tradeRepo:     tradeRepo,
		quotes:        quotes,
	}
}

// Buy purchases shares at the current quote price. The purchase is
// rejected without any state change when the portfolio or symbol is
// unknown or the cost exceeds the cash balance.
func (s *TradingService) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares decimal.Decimal) (*domain.Transaction, error) {
	if !shares.IsPositive() {
		return nil, domain.ErrInvalidShares
	}

	if _, err := s.portfolioRepo.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}

	quote, ok := s.quotes.Lookup(symbol)
	if !ok {
		return nil, domain.ErrStockNotFound
	}

	txn := &domain.Transaction{
		ID:     uuid.New(),
		UserID: userID,
		Type:   domain.TransactionBuy,
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Shares: shares,
		Price:  quote.Price,
		Total:  quote.Price.Mul(shares).Round(2),
		Date:   time.Now(),
	}

	// The settlement re-checks funds under the portfolio lock; the append
	// and the debit are atomic, so a failed check leaves no trace.
	if err := s.tradeRepo.SettleBuy(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// Sell liquidates shares at the current quote price. The sale is rejected
// without any state change when the user owns fewer shares than requested.
func (s *TradingService) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares decimal.Decimal) (*domain.Transaction, error) {
	if !shares.IsPositive() {
		return nil, domain.ErrInvalidShares
	}

	if _, err := s.portfolioRepo.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}

	// Fast-path ownership check; the settlement repeats it atomically.
	// Ledger entries carry canonical uppercase symbols.
	owned, err := s.ledgerRepo.ListByUserAndSymbol(ctx, userID, strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}
	if domain.NetShares(owned).LessThan(shares) {
		return nil, domain.ErrInsufficientShares
	}

	quote, ok := s.quotes.Lookup(symbol)
	if !ok {
		return nil, domain.ErrStockNotFound
	}

	txn := &domain.Transaction{
		ID:     uuid.New(),
		UserID: userID,
		Type:   domain.TransactionSell,
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Shares: shares,
		Price:  quote.Price,
		Total:  quote.Price.Mul(shares).Round(2),
		Date:   time.Now(),
	}

	if err := s.tradeRepo.SettleSell(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// History returns one page of the user's transaction history, most recent
// first. Out-of-range pages return an empty slice with correct counts.
func (s *TradingService) History(ctx context.Context, userID uuid.UUID, page, perPage int, filter string) (*domain.TransactionPage, error) {
	txns, total, err := s.ledgerRepo.Page(ctx, userID, page, perPage, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + perPage - 1) / perPage

	return &domain.TransactionPage{
		Transactions: txns,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalCount:   total,
	}, nil
}
