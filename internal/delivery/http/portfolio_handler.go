package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"finedge/internal/domain"
	"finedge/internal/middleware"
	"finedge/internal/service"
)

// PortfolioHandler serves portfolio valuation requests
type PortfolioHandler struct {
	valuation *service.ValuationService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(valuation *service.ValuationService) *PortfolioHandler {
	return &PortfolioHandler{valuation: valuation}
}

// Get returns the authenticated user's portfolio with holdings and
// valuation derived from the transaction ledger.
// GET /api/portfolio
func (h *PortfolioHandler) Get(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.valuation.PortfolioView(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch portfolio")
	}

	return c.JSON(http.StatusOK, view)
}

// Performance returns the daily valuation series for the past year
// GET /api/portfolio/performance
func (h *PortfolioHandler) Performance(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	series, err := h.valuation.Performance(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch performance data")
	}

	return c.JSON(http.StatusOK, map[string][]domain.PerformancePoint{"data": series})
}
