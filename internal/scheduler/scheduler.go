package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/config"
	"github.com/mamour/pharmastock/internal/service/catalog"
	"github.com/mamour/pharmastock/internal/service/ledger"
	"github.com/mamour/pharmastock/internal/service/report"
)

// Scheduler manages the periodic refresh sweep and the daily report job.
type Scheduler struct {
	cron      *cron.Cron
	catalog   *catalog.Store
	ledger    *ledger.Store
	reportSvc *report.Service
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, catalogStore *catalog.Store, ledgerStore *ledger.Store, reportSvc *report.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		catalog:   catalogStore,
		ledger:    ledgerStore,
		reportSvc: reportSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("refresh_cron", s.cfg.Refresh.CronSchedule),
		zap.String("report_cron", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Refresh.CronSchedule, s.refreshSweep); err != nil {
		s.logger.Error("failed to schedule refresh sweep", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.dailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// refreshSweep keeps a long-lived session converging with the remote state
// even when no local mutation triggers a refresh.
func (s *Scheduler) refreshSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled catalog refresh failed", zap.Error(err))
	}
	s.ledger.Refresh(ctx)
}

func (s *Scheduler) dailyReport() {
	s.logger.Info("generating daily stock report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Sweep over fresh data; a stale snapshot would alert on yesterday's stock.
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Error("failed to refresh catalog before report", zap.Error(err))
		return
	}

	if err := s.reportSvc.RunDailySweep(ctx); err != nil {
		s.logger.Error("daily report sweep finished with errors", zap.Error(err))
	} else {
		s.logger.Info("daily stock report completed")
	}
}
