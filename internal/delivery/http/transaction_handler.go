package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"finedge/internal/domain"
	"finedge/internal/middleware"
	"finedge/internal/usecase"
)

// TransactionHandler serves paginated transaction history requests
type TransactionHandler struct {
	trading *usecase.TradingService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(trading *usecase.TradingService) *TransactionHandler {
	return &TransactionHandler{trading: trading}
}

// List returns a page of the user's transaction history, newest first
// GET /api/transactions?page=&perPage=&filter=
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.QueryParam("perPage"))
	if err != nil || perPage < 1 {
		perPage = 10
	}

	filter := c.QueryParam("filter")
	switch filter {
	case domain.FilterBuy, domain.FilterSell:
	default:
		filter = domain.FilterAll
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.trading.History(ctx, userID, page, perPage, filter)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch transactions")
	}

	return c.JSON(http.StatusOK, result)
}
