// Package maintenance runs the worker's periodic housekeeping.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// OutcomePruner deletes outcome telemetry older than a cutoff.
type OutcomePruner interface {
	PruneOutcomes(ctx context.Context, before time.Time) (int64, error)
}

// Runner schedules housekeeping jobs on a cron.
type Runner struct {
	cron      *cron.Cron
	store     OutcomePruner
	retention time.Duration
	logger    *slog.Logger
}

// NewRunner creates a Runner that prunes command outcomes older than
// retention once a day.
func NewRunner(store OutcomePruner, retention time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		cron:      cron.New(),
		store:     store,
		retention: retention,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc("@daily", r.pruneOutcomes); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for any running job to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Runner) pruneOutcomes() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-r.retention)
	n, err := r.store.PruneOutcomes(ctx, cutoff)
	if err != nil {
		r.logger.Warn("pruning outcomes failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("pruned old outcomes", "rows", n, "cutoff", cutoff)
	}
}
