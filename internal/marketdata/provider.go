// Package marketdata serves the built-in market data set: a fixed table of
// stock quotes and index levels. It implements domain.QuoteProvider; the
// rest of the system never touches the table directly.
package marketdata

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"finedge/internal/domain"
)

// Provider is a read-only quote source backed by an in-memory table.
// All methods are safe for concurrent use; the table never changes.
type Provider struct {
	stocks  []domain.Quote
	indices []domain.Quote
}

// NewProvider creates a Provider with the reference data set.
func NewProvider() *Provider {
	return &Provider{
		stocks:  referenceStocks(),
		indices: referenceIndices(),
	}
}

// Lookup resolves a symbol to its quote, matching case-insensitively.
func (p *Provider) Lookup(symbol string) (domain.Quote, bool) {
	for _, q := range p.stocks {
		if strings.EqualFold(q.Symbol, symbol) {
			return q, true
		}
	}
	return domain.Quote{}, false
}

// All returns every stock quote in the table.
func (p *Provider) All() []domain.Quote {
	out := make([]domain.Quote, len(p.stocks))
	copy(out, p.stocks)
	return out
}

// Indices returns the market index levels.
func (p *Provider) Indices() []domain.Quote {
	out := make([]domain.Quote, len(p.indices))
	copy(out, p.indices)
	return out
}

// Search returns stocks whose symbol or name contains the query,
// case-insensitively.
func (p *Provider) Search(query string) []domain.Quote {
	q := strings.ToLower(query)
	results := make([]domain.Quote, 0)
	for _, s := range p.stocks {
		if strings.Contains(strings.ToLower(s.Symbol), q) ||
			strings.Contains(strings.ToLower(s.Name), q) {
			results = append(results, s)
		}
	}
	return results
}

// Movers returns the top n stocks by absolute percentage change,
// largest first.
func (p *Provider) Movers(n int) []domain.Quote {
	movers := p.All()
	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(movers[i].ChangePercent) > math.Abs(movers[j].ChangePercent)
	})
	if n < len(movers) {
		movers = movers[:n]
	}
	return movers
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func referenceStocks() []domain.Quote {
	return []domain.Quote{
		{Symbol: "AAPL", Name: "Apple Inc", Price: price("145.86"), Change: 3.42, ChangePercent: 2.40},
		{Symbol: "MSFT", Name: "Microsoft Corp", Price: price("286.22"), Change: 3.56, ChangePercent: 1.26},
		{Symbol: "AMZN", Name: "Amazon.com Inc", Price: price("3340.45"), Change: 17.71, ChangePercent: 0.53},
		{Symbol: "GOOGL", Name: "Alphabet Inc", Price: price("2704.42"), Change: -23.71, ChangePercent: -0.87},
		{Symbol: "META", Name: "Meta Platforms Inc", Price: price("312.46"), Change: 4.83, ChangePercent: 1.57},
		{Symbol: "TSLA", Name: "Tesla Inc", Price: price("765.34"), Change: 53.12, ChangePercent: 7.45},
		{Symbol: "NFLX", Name: "Netflix Inc", Price: price("532.11"), Change: -18.05, ChangePercent: -3.28},
		{Symbol: "JPM", Name: "JPMorgan Chase & Co", Price: price("141.32"), Change: 0.87, ChangePercent: 0.62},
		{Symbol: "V", Name: "Visa Inc", Price: price("232.65"), Change: 1.15, ChangePercent: 0.5},
		{Symbol: "DIS", Name: "Walt Disney Co", Price: price("178.23"), Change: -4.59, ChangePercent: -2.51},
		{Symbol: "NVDA", Name: "NVIDIA Corp", Price: price("194.59"), Change: 8.34, ChangePercent: 4.48},
		{Symbol: "PG", Name: "Procter & Gamble Co", Price: price("142.37"), Change: -0.18, ChangePercent: -0.13},
		{Symbol: "HD", Name: "Home Depot Inc", Price: price("321.54"), Change: 3.18, ChangePercent: 1.00},
		{Symbol: "PYPL", Name: "PayPal Holdings Inc", Price: price("278.11"), Change: -12.43, ChangePercent: -4.28},
		{Symbol: "INTC", Name: "Intel Corp", Price: price("54.83"), Change: -1.25, ChangePercent: -2.23},
		{Symbol: "ADBE", Name: "Adobe Inc", Price: price("613.82"), Change: 6.92, ChangePercent: 1.14},
	}
}

func referenceIndices() []domain.Quote {
	return []domain.Quote{
		{Symbol: "SPX", Name: "S&P 500", Price: price("4587.64"), Change: 56.23, ChangePercent: 1.23},
		{Symbol: "COMP", Name: "NASDAQ", Price: price("14346.21"), Change: 124.81, ChangePercent: 0.87},
		{Symbol: "DJI", Name: "DOW JONES", Price: price("35084.53"), Change: -147.35, ChangePercent: -0.42},
		{Symbol: "RUT", Name: "RUSSELL 2000", Price: price("2287.55"), Change: 14.41, ChangePercent: 0.63},
	}
}
