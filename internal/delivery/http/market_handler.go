package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"finedge/internal/domain"
	"finedge/internal/marketdata"
)

// MarketHandler serves reference market data requests
type MarketHandler struct {
	market *marketdata.Provider
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(market *marketdata.Provider) *MarketHandler {
	return &MarketHandler{market: market}
}

// Overview returns the major market indices
// GET /api/market/overview
func (h *MarketHandler) Overview(c echo.Context) error {
	return c.JSON(http.StatusOK, h.market.Indices())
}

// Movers returns the stocks with the largest absolute percent moves
// GET /api/market/movers
func (h *MarketHandler) Movers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.market.Movers(10))
}

// Search finds stocks whose symbol or name contains the query
// GET /api/stock/search?q=
func (h *MarketHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return BadRequestResponse(c, "Search query is required")
	}
	return c.JSON(http.StatusOK, map[string][]domain.Quote{"results": h.market.Search(query)})
}

// Quote returns the current quote for a symbol
// GET /api/stock/quote/:symbol
func (h *MarketHandler) Quote(c echo.Context) error {
	symbol := c.Param("symbol")
	quote, ok := h.market.Lookup(symbol)
	if !ok {
		return NotFoundResponse(c, "Stock not found")
	}
	return c.JSON(http.StatusOK, quote)
}

// QuoteByQuery returns the current quote for a ?symbol= query param
// GET /api/stock/quote?symbol=
func (h *MarketHandler) QuoteByQuery(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}
	quote, ok := h.market.Lookup(symbol)
	if !ok {
		return NotFoundResponse(c, "Stock not found")
	}
	return c.JSON(http.StatusOK, quote)
}

// History returns a synthetic price series for charting
// GET /api/stock/history/:symbol?period=
func (h *MarketHandler) History(c echo.Context) error {
	symbol := c.Param("symbol")
	period := c.QueryParam("period")

	series, ok := h.market.History(symbol, period)
	if !ok {
		return NotFoundResponse(c, "Stock not found")
	}
	return c.JSON(http.StatusOK, series)
}
