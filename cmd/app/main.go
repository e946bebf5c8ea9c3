package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"finedge/configs"
	"finedge/internal/database"
	delivery "finedge/internal/delivery/http"
	"finedge/internal/domain"
	"finedge/internal/infra"
	"finedge/internal/logger"
	"finedge/internal/marketdata"
	"finedge/internal/repository"
	"finedge/internal/repository/memory"
	"finedge/internal/service"
	"finedge/internal/usecase"
)

type repositories struct {
	users      domain.UserRepository
	portfolios domain.PortfolioRepository
	ledger     domain.LedgerRepository
	trades     domain.TradeRepository
	watchlist  domain.WatchlistRepository
	snapshots  domain.SnapshotRepository
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Money amounts serialize as JSON numbers, matching the client
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// Initialize storage. Without a DATABASE_URL the app runs on the
	// in-memory store and loses all state on restart.
	var repos repositories
	var pinger interface{ Ping(context.Context) error }
	if cfg.Database.URL != "" {
		db, err := infra.NewDatabase(ctx, cfg.Database.URL)
		if err != nil {
			zlog.Fatalw("failed to connect to database", "error", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db, zlog); err != nil {
			zlog.Fatalw("failed to run migrations", "error", err)
		}

		repos = repositories{
			users:      repository.NewUserRepository(db),
			portfolios: repository.NewPortfolioRepository(db),
			ledger:     repository.NewLedgerRepository(db),
			trades:     repository.NewTradeRepository(db),
			watchlist:  repository.NewWatchlistRepository(db),
			snapshots:  repository.NewSnapshotRepository(db),
		}
		pinger = db
		zlog.Info("database connected")
	} else {
		store := memory.NewStore()
		repos = repositories{
			users:      memory.NewUserRepo(store),
			portfolios: memory.NewPortfolioRepo(store),
			ledger:     memory.NewLedgerRepo(store),
			trades:     memory.NewTradeRepo(store),
			watchlist:  memory.NewWatchlistRepo(store),
			snapshots:  memory.NewSnapshotRepo(store),
		}
		zlog.Warn("DATABASE_URL not set, using in-memory store")
	}

	// Initialize market data and services
	market := marketdata.NewProvider()
	valuation := service.NewValuationService(repos.portfolios, repos.ledger, market, service.NewSyntheticGenerator(), cfg.InitialDeposit)
	watchlist := service.NewWatchlistService(repos.watchlist, market)
	trading := usecase.NewTradingService(repos.portfolios, repos.ledger, repos.trades, market)

	// Daily portfolio valuation snapshots
	snapshots := infra.NewSnapshotScheduler(valuation, repos.portfolios, repos.snapshots, zlog)
	if err := snapshots.Start(); err != nil {
		zlog.Fatalw("failed to start snapshot scheduler", "error", err)
	}
	defer snapshots.Stop()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		JWTSecret:          cfg.Auth.JWTSecret,
		DB:                 pinger,
		AuthHandler:        delivery.NewAuthHandler(repos.users, repos.portfolios, cfg.Auth.JWTSecret, cfg.InitialDeposit),
		PortfolioHandler:   delivery.NewPortfolioHandler(valuation),
		TradeHandler:       delivery.NewTradeHandler(trading),
		WatchlistHandler:   delivery.NewWatchlistHandler(watchlist),
		MarketHandler:      delivery.NewMarketHandler(market),
		TransactionHandler: delivery.NewTransactionHandler(trading),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run server in goroutine
	go func() {
		zlog.Infow("server starting", "addr", addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatalw("server forced to shutdown", "error", err)
	}

	zlog.Info("server exited gracefully")
}
