package dto

// TradeRequest represents a buy or sell order payload. OrderType and
// Price are accepted for limit orders but every order fills at the
// current market price.
type TradeRequest struct {
	Symbol    string  `json:"symbol" validate:"required"`
	Shares    float64 `json:"shares" validate:"required,gt=0"`
	OrderType string  `json:"orderType"`
	Price     float64 `json:"price"`
}

// AddWatchlistRequest represents the watchlist add payload
type AddWatchlistRequest struct {
	Symbol string `json:"symbol" validate:"required"`
}
