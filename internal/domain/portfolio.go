package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portfolio holds a user's cash balance. Positions are not stored here;
// they are derived from the transaction ledger.
type Portfolio struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Holding is the derived net position in one symbol. It is never persisted.
//
// Cost basis retained on sell: sells reduce Shares only, the cost basis
// accumulated by buys stays. That rule is part of the product behavior and
// is pinned down by tests.
type Holding struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Shares          decimal.Decimal `json:"shares"`
	CostBasis       decimal.Decimal `json:"costBasis"`
	CurrentPrice    decimal.Decimal `json:"currentPrice"`
	MarketValue     decimal.Decimal `json:"marketValue"`
	AvgCost         decimal.Decimal `json:"avgCost"`
	GainLoss        decimal.Decimal `json:"gainLoss"`
	GainLossPercent float64         `json:"gainLossPercent"`
}

// PerformancePoint is one entry of a chart series.
type PerformancePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SectorAllocation is one slice of the illustrative allocation chart.
type SectorAllocation struct {
	Sector     string `json:"sector"`
	Percentage int    `json:"percentage"`
}

// PortfolioView is the full valuation of a portfolio at read time.
// TotalValue, TotalReturn and the holdings are derived deterministically
// from the ledger and the quote source. TodayChange, PerformanceData and
// Allocation are illustrative display data only.
type PortfolioView struct {
	Portfolio
	Holdings           []Holding                     `json:"holdings"`
	TotalValue         decimal.Decimal               `json:"totalValue"`
	TodayChange        float64                       `json:"todayChange"`
	TodayChangePercent float64                       `json:"todayChangePercent"`
	TotalReturn        decimal.Decimal               `json:"totalReturn"`
	TotalReturnPercent float64                       `json:"totalReturnPercent"`
	PerformanceData    map[string][]PerformancePoint `json:"performanceData"`
	Allocation         []SectorAllocation            `json:"allocation"`
}

// PortfolioSnapshot is a point-in-time record of a portfolio's total value,
// written by the daily snapshot job.
type PortfolioSnapshot struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	TotalValue decimal.Decimal `json:"totalValue"`
	CreatedAt  time.Time       `json:"createdAt"`
}
