package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finedge/internal/domain"
)

// ValuationService derives portfolio state from the transaction ledger and
// the quote source. It is read-only and recomputes holdings on every call;
// no derived state is cached anywhere.
type ValuationService struct {
	portfolioRepo  domain.PortfolioRepository
	ledgerRepo     domain.LedgerRepository
	quotes         domain.QuoteProvider
	synthetic      *SyntheticGenerator
	initialDeposit decimal.Decimal
}

// NewValuationService creates a new ValuationService. initialDeposit is
// the seed cash amount granted at account creation; total return is
// measured against it.
func NewValuationService(
	portfolioRepo domain.PortfolioRepository,
	ledgerRepo domain.LedgerRepository,
	quotes domain.QuoteProvider,
	synthetic *SyntheticGenerator,
	initialDeposit decimal.Decimal,
) *ValuationService {
	return &ValuationService{
		portfolioRepo:  portfolioRepo,
		ledgerRepo:     ledgerRepo,
		quotes:         quotes,
		synthetic:      synthetic,
		initialDeposit: initialDeposit,
	}
}

// position is the fold accumulator for one symbol.
type position struct {
	name      string
	shares    decimal.Decimal
	costBasis decimal.Decimal
}

// PortfolioView computes the full valuation of a user's portfolio.
// An empty ledger is not an error: the view carries zero holdings and
// totalValue equals the cash balance.
func (s *ValuationService) PortfolioView(ctx context.Context, userID uuid.UUID) (*domain.PortfolioView, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns, err := s.ledgerRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	holdings := s.holdings(txns)

	totalValue := portfolio.CashBalance
	for _, h := range holdings {
		totalValue = totalValue.Add(h.MarketValue)
	}

	totalReturn := totalValue.Sub(s.initialDeposit)
	totalReturnPercent := 0.0
	if s.initialDeposit.IsPositive() {
		totalReturnPercent, _ = totalReturn.Div(s.initialDeposit).Mul(decimal.NewFromInt(100)).Float64()
	}

	todayChange, todayChangePercent := s.synthetic.TodayChange(userID, totalValue)

	return &domain.PortfolioView{
		Portfolio:          *portfolio,
		Holdings:           holdings,
		TotalValue:         totalValue,
		TodayChange:        todayChange,
		TodayChangePercent: todayChangePercent,
		TotalReturn:        totalReturn,
		TotalReturnPercent: totalReturnPercent,
		PerformanceData:    s.synthetic.PerformanceData(userID, totalValue),
		Allocation:         s.synthetic.Allocation(userID),
	}, nil
}

// TotalValue computes cash plus market value of all holdings. Used by the
// snapshot job, which wants the deterministic number without the display
// data around it.
func (s *ValuationService) TotalValue(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	txns, err := s.ledgerRepo.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load ledger: %w", err)
	}

	total := portfolio.CashBalance
	for _, h := range s.holdings(txns) {
		total = total.Add(h.MarketValue)
	}
	return total, nil
}

// Performance returns the one-year illustrative chart series for the
// performance endpoint.
func (s *ValuationService) Performance(ctx context.Context, userID uuid.UUID) ([]domain.PerformancePoint, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.synthetic.Series(userID, portfolio.CashBalance, 365), nil
}

// holdings folds the ledger into the current holdings:
//
//   - a buy adds to both shares and cost basis
//   - a sell subtracts from shares only (cost basis retained on sell)
//   - symbols whose net shares are <= 0 are dropped
//   - a missing quote prices the holding at 0 rather than failing the fold
func (s *ValuationService) holdings(txns []*domain.Transaction) []domain.Holding {
	positions := make(map[string]*position)
	order := make([]string, 0)

	for _, txn := range txns {
		pos, ok := positions[txn.Symbol]
		if !ok {
			pos = &position{name: txn.Name, shares: decimal.Zero, costBasis: decimal.Zero}
			positions[txn.Symbol] = pos
			order = append(order, txn.Symbol)
		}

		if txn.Type == domain.TransactionBuy {
			pos.shares = pos.shares.Add(txn.Shares)
			pos.costBasis = pos.costBasis.Add(txn.Price.Mul(txn.Shares))
		} else {
			pos.shares = pos.shares.Sub(txn.Shares)
		}
	}

	sort.Strings(order)

	holdings := make([]domain.Holding, 0, len(positions))
	for _, symbol := range order {
		pos := positions[symbol]
		if !pos.shares.IsPositive() {
			continue
		}

		currentPrice := decimal.Zero
		if quote, ok := s.quotes.Lookup(symbol); ok {
			currentPrice = quote.Price
		}

		marketValue := pos.shares.Mul(currentPrice)
		gainLoss := marketValue.Sub(pos.costBasis)
		gainLossPercent := 0.0
		if pos.costBasis.IsPositive() {
			gainLossPercent, _ = gainLoss.Div(pos.costBasis).Mul(decimal.NewFromInt(100)).Float64()
		}

		holdings = append(holdings, domain.Holding{
			Symbol:          symbol,
			Name:            pos.name,
			Shares:          pos.shares,
			CostBasis:       pos.costBasis,
			CurrentPrice:    currentPrice,
			MarketValue:     marketValue,
			AvgCost:         pos.costBasis.Div(pos.shares),
			GainLoss:        gainLoss,
			GainLossPercent: gainLossPercent,
		})
	}

	return holdings
}
