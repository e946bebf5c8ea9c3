package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "finedge/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	JWTSecret string
	// DB is nil when running on the in-memory store.
	DB                 interface{ Ping(context.Context) error }
	AuthHandler        *AuthHandler
	PortfolioHandler   *PortfolioHandler
	TradeHandler       *TradeHandler
	WatchlistHandler   *WatchlistHandler
	MarketHandler      *MarketHandler
	TransactionHandler *TransactionHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for the health probe to reduce noise
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		database := "memory"
		if config.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()

			database = "healthy"
			if err := config.DB.Ping(ctx); err != nil {
				database = "unhealthy"
			}
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"service":   "finedge-api",
			"database":  database,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	api.POST("/register", config.AuthHandler.Register)
	api.POST("/login", config.AuthHandler.Login)
	api.POST("/admin/login", config.AuthHandler.AdminLogin)
	api.POST("/logout", config.AuthHandler.Logout)
	api.POST("/forgot-password", config.AuthHandler.ForgotPassword)

	// Market data routes (public)
	api.GET("/market/overview", config.MarketHandler.Overview)
	api.GET("/market/movers", config.MarketHandler.Movers)
	api.GET("/stock/search", config.MarketHandler.Search)
	api.GET("/stock/quote", config.MarketHandler.QuoteByQuery)
	api.GET("/stock/quote/:symbol", config.MarketHandler.Quote)
	api.GET("/stock/history/:symbol", config.MarketHandler.History)

	// Protected routes
	auth := custommiddleware.Auth(config.JWTSecret)
	protected := api.Group("", auth)
	{
		protected.GET("/user", config.AuthHandler.Me)
		protected.GET("/portfolio", config.PortfolioHandler.Get)
		protected.GET("/portfolio/performance", config.PortfolioHandler.Performance)
		protected.POST("/trade/buy", config.TradeHandler.Buy)
		protected.POST("/trade/sell", config.TradeHandler.Sell)
		protected.GET("/watchlist", config.WatchlistHandler.List)
		protected.POST("/watchlist/add", config.WatchlistHandler.Add)
		protected.DELETE("/watchlist/remove/:symbol", config.WatchlistHandler.Remove)
		protected.GET("/transactions", config.TransactionHandler.List)
	}
}
