package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"finedge/internal/delivery/http/dto"
	"finedge/internal/domain"
	"finedge/internal/middleware"
	"finedge/internal/usecase"
)

// TradeHandler serves buy and sell order requests
type TradeHandler struct {
	trading *usecase.TradingService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(trading *usecase.TradingService) *TradeHandler {
	return &TradeHandler{trading: trading}
}

// TradeResponse wraps an executed trade with a confirmation message
type TradeResponse struct {
	Message     string              `json:"message"`
	Transaction *domain.Transaction `json:"transaction"`
}

// Buy executes a market buy order
// POST /api/trade/buy
func (h *TradeHandler) Buy(c echo.Context) error {
	return h.execute(c, h.trading.Buy, "Purchase successful")
}

// Sell executes a market sell order
// POST /api/trade/sell
func (h *TradeHandler) Sell(c echo.Context) error {
	return h.execute(c, h.trading.Sell, "Sale successful")
}

func (h *TradeHandler) execute(c echo.Context, settle func(context.Context, uuid.UUID, string, decimal.Decimal) (*domain.Transaction, error), message string) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Symbol == "" || req.Shares <= 0 {
		return BadRequestResponse(c, "Symbol and shares are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	txn, err := settle(ctx, userID, req.Symbol, decimal.NewFromFloat(req.Shares))
	if err != nil {
		return BadRequestResponse(c, tradeErrorMessage(err))
	}

	return c.JSON(http.StatusOK, TradeResponse{Message: message, Transaction: txn})
}

func tradeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		return "Stock not found"
	case errors.Is(err, domain.ErrInvalidShares):
		return "Invalid shares"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Insufficient funds"
	case errors.Is(err, domain.ErrInsufficientShares):
		return "Insufficient shares"
	case errors.Is(err, domain.ErrPortfolioNotFound):
		return "Portfolio not found"
	default:
		return "Trade failed"
	}
}
