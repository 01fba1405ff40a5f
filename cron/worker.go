package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/services/events"
	"github.com/sj7trunks/datestack/utils"
)

// refreshBudget caps one whole refresh sweep across all subscriptions.
const refreshBudget = 10 * time.Minute

// Worker owns the scheduled jobs: the periodic ICS refresh and the nightly
// retention sweep.
type Worker struct {
	cron   *cron.Cron
	events events.EventService
	repo   repository.EventRepository
}

// NewWorker creates a worker whose schedules are evaluated in the configured
// server timezone.
func NewWorker(es events.EventService, er repository.EventRepository) *Worker {
	return &Worker{
		cron:   cron.New(cron.WithLocation(config.Location())),
		events: es,
		repo:   er,
	}
}

// Start registers the schedules and launches the background runner.
func (w *Worker) Start() error {
	minutes := config.AppConfig.ICSRefreshMinutes
	if minutes <= 0 {
		minutes = 60
	}
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %dm", minutes), w.refreshICS); err != nil {
		return fmt.Errorf("failed to schedule ics refresh: %w", err)
	}
	if _, err := w.cron.AddFunc("30 3 * * *", w.sweepRetention); err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	w.cron.Start()
	utils.GetLogger().Info("Background jobs started",
		zap.Int("ics_refresh_minutes", minutes),
		zap.Int("retention_days", config.AppConfig.SyncRetentionDays))
	return nil
}

// Stop halts the scheduler and returns a context that is done once running
// jobs have finished.
func (w *Worker) Stop() context.Context {
	return w.cron.Stop()
}

func (w *Worker) refreshICS() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshBudget)
	defer cancel()
	w.events.RefreshAllICS(ctx)
}

func (w *Worker) sweepRetention() {
	days := config.AppConfig.SyncRetentionDays
	if days <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	deleted, err := w.repo.DeleteOlderThan(cutoff)
	if err != nil {
		utils.GetLogger().Error("Retention sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		utils.GetLogger().Info("Retention sweep removed old events",
			zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
}
