package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one immutable ledger entry. Entries are append-only and
// never updated or deleted; the holdings of a user are a pure function of
// the ordered set of their transactions.
type Transaction struct {
	ID     uuid.UUID       `json:"id"`
	UserID uuid.UUID       `json:"userId"`
	Type   string          `json:"type"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares decimal.Decimal `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Total  decimal.Decimal `json:"total"`
	Date   time.Time       `json:"date"`
}

// Transaction type constants
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction history filter constants
const (
	FilterAll  = "all"
	FilterBuy  = "buy"
	FilterSell = "sell"
)

// TransactionPage is one page of a user's transaction history,
// ordered by date descending.
type TransactionPage struct {
	Transactions []*Transaction `json:"transactions"`
	CurrentPage  int            `json:"currentPage"`
	TotalPages   int            `json:"totalPages"`
	TotalCount   int            `json:"totalCount"`
}

// NetShares folds a slice of ledger entries into the net share count:
// buys add, sells subtract.
func NetShares(txns []*Transaction) decimal.Decimal {
	owned := decimal.Zero
	for _, t := range txns {
		if t.Type == TransactionBuy {
			owned = owned.Add(t.Shares)
		} else {
			owned = owned.Sub(t.Shares)
		}
	}
	return owned
}
