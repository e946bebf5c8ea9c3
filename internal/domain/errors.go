package domain

import "errors"

// Domain errors. The delivery layer maps these to HTTP status codes;
// everything else surfaces as a generic 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already exists")
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrStockNotFound      = errors.New("stock not found")
	ErrInvalidShares      = errors.New("shares must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNotFound           = errors.New("not found")
)
