package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WatchlistItem is one (user, symbol) pair. The pair is unique per user;
// the name is cached at add time, prices are resolved live on read.
type WatchlistItem struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"userId"`
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"addedAt"`
}

// WatchlistEntry is a watchlist item joined with live quote data.
// A symbol whose quote is missing carries zero-valued price fields.
type WatchlistEntry struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        float64         `json:"change"`
	ChangePercent float64         `json:"changePercent"`
}
