package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
)

const retentionInterval = 6 * time.Hour

// RetentionJobs prunes reconciliation runs past the retention window.
type RetentionJobs struct {
	reconcileService reconcile.ReconcileService
	retention        time.Duration
}

func NewRetentionJobs(reconcileService reconcile.ReconcileService, retention time.Duration) *RetentionJobs {
	return &RetentionJobs{
		reconcileService: reconcileService,
		retention:        retention,
	}
}

// RegisterJobs adds the prune job; a zero retention keeps runs forever.
func (j *RetentionJobs) RegisterJobs(scheduler *Scheduler) {
	if j.retention <= 0 {
		slog.Info("Run retention disabled")
		return
	}
	scheduler.AddJob(Job{
		Name:     "prune_reconciliation_runs",
		Interval: retentionInterval,
		Timeout:  time.Minute,
		Fn:       j.PruneRuns,
	})
}

func (j *RetentionJobs) PruneRuns(ctx context.Context) error {
	deleted, err := j.reconcileService.PruneRuns(ctx, j.retention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Cron: pruned reconciliation runs", "deleted", deleted, "retention", j.retention)
	}
	return nil
}
