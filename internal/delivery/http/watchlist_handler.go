package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"finedge/internal/delivery/http/dto"
	"finedge/internal/domain"
	"finedge/internal/middleware"
	"finedge/internal/service"
)

// WatchlistHandler serves watchlist requests
type WatchlistHandler struct {
	watchlist *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(watchlist *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist}
}

// List returns the user's watchlist entries with live quote data
// GET /api/watchlist
func (h *WatchlistHandler) List(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.watchlist.List(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch watchlist")
	}

	return c.JSON(http.StatusOK, entries)
}

// Add adds a symbol to the user's watchlist. Adding a symbol that is
// already tracked is a no-op.
// POST /api/watchlist/add
func (h *WatchlistHandler) Add(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	var req dto.AddWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.watchlist.Add(ctx, userID, req.Symbol)
	if err != nil {
		if errors.Is(err, domain.ErrStockNotFound) {
			return InternalServerErrorResponse(c, "Stock not found")
		}
		return InternalServerErrorResponse(c, "Failed to add to watchlist")
	}

	return c.JSON(http.StatusOK, result)
}

// Remove removes a symbol from the user's watchlist
// DELETE /api/watchlist/remove/:symbol
func (h *WatchlistHandler) Remove(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	if symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.watchlist.Remove(ctx, userID, symbol)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to remove from watchlist")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}
