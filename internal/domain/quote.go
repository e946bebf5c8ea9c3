package domain

import "github.com/shopspring/decimal"

// Quote is a point-in-time market quote for one symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        float64         `json:"change"`
	ChangePercent float64         `json:"changePercent"`
}

// QuoteProvider resolves symbols to quotes. Lookups are case-insensitive
// exact matches and have no side effects; a missing symbol is a normal
// outcome, not an error. Trade execution and portfolio valuation depend
// only on this capability, so a live market-data feed can replace the
// built-in table without touching either.
type QuoteProvider interface {
	Lookup(symbol string) (Quote, bool)
}
