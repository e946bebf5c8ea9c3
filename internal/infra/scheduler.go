package infra

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"finedge/internal/domain"
	"finedge/internal/service"
)

// SnapshotScheduler records a daily valuation snapshot for every portfolio
type SnapshotScheduler struct {
	cron          *cron.Cron
	valuation     *service.ValuationService
	portfolioRepo domain.PortfolioRepository
	snapshotRepo  domain.SnapshotRepository
	log           *zap.SugaredLogger
}

// NewSnapshotScheduler creates a new SnapshotScheduler
func NewSnapshotScheduler(valuation *service.ValuationService, portfolioRepo domain.PortfolioRepository, snapshotRepo domain.SnapshotRepository, log *zap.SugaredLogger) *SnapshotScheduler {
	return &SnapshotScheduler{
		cron:          cron.New(),
		valuation:     valuation,
		portfolioRepo: portfolioRepo,
		snapshotRepo:  snapshotRepo,
		log:           log,
	}
}

// Start schedules the snapshot run at midnight every day
func (s *SnapshotScheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.RunNow(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("snapshot scheduler started")
	return nil
}

// RunNow snapshots every portfolio immediately. A failure on one
// portfolio is logged and does not stop the rest.
func (s *SnapshotScheduler) RunNow(ctx context.Context) {
	portfolios, err := s.portfolioRepo.List(ctx)
	if err != nil {
		s.log.Errorw("failed to list portfolios for snapshot", "error", err)
		return
	}

	for _, p := range portfolios {
		totalValue, err := s.valuation.TotalValue(ctx, p.UserID)
		if err != nil {
			s.log.Errorw("failed to value portfolio", "user_id", p.UserID, "error", err)
			continue
		}

		snapshot := &domain.PortfolioSnapshot{
			ID:         uuid.New(),
			UserID:     p.UserID,
			TotalValue: totalValue,
			CreatedAt:  time.Now(),
		}
		if err := s.snapshotRepo.Insert(ctx, snapshot); err != nil {
			s.log.Errorw("failed to store snapshot", "user_id", p.UserID, "error", err)
		}
	}

	s.log.Infow("portfolio snapshots recorded", "count", len(portfolios))
}

// Stop stops the scheduler gracefully
func (s *SnapshotScheduler) Stop() {
	s.cron.Stop()
	s.log.Info("snapshot scheduler stopped")
}
