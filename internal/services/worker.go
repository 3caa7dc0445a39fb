package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/logger"
)

// Release worker defaults
const (
	// DefaultSweepSchedule is the default cron schedule for the release sweep
	DefaultSweepSchedule = "@every 1m"
	// DefaultSweepConcurrency bounds how many escrows are evaluated at once
	DefaultSweepConcurrency = 8
)

// ReleaseWorker periodically sweeps all escrows still awaiting release and
// releases the ones whose gates have all cleared, e.g. because a cooling-off
// window or auto-approval date has elapsed since the last write.
type ReleaseWorker struct {
	escrowService *Escrow
	cron          *cron.Cron
	schedule      string
	concurrency   int
}

// NewReleaseWorker creates a release worker with the given cron schedule.
// An empty schedule selects DefaultSweepSchedule.
func NewReleaseWorker(escrowService *Escrow, schedule string) *ReleaseWorker {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &ReleaseWorker{
		escrowService: escrowService,
		cron:          cron.New(),
		schedule:      schedule,
		concurrency:   DefaultSweepConcurrency,
	}
}

// Start registers the sweep with the cron scheduler and starts it
func (w *ReleaseWorker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		released, err := w.Sweep(context.Background())
		if err != nil {
			logger.Errorf("Release sweep failed: %v", err)
			return
		}
		if released > 0 {
			logger.Infof("Release sweep released %d escrow(s)", released)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule release sweep: %w", err)
	}

	w.cron.Start()
	logger.Infof("Release worker started (schedule: %s)", w.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (w *ReleaseWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Info("Release worker stopped")
}

// Sweep evaluates every releasable escrow once and releases those whose
// gates have all cleared. Escrows are evaluated concurrently; the
// compare-and-swap in the store makes a concurrent sweep safe.
func (w *ReleaseWorker) Sweep(ctx context.Context) (int, error) {
	escrows, err := w.escrowService.ListReleasable(ctx)
	if err != nil {
		return 0, err
	}

	var released atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, escrow := range escrows {
		escrow := escrow
		g.Go(func() error {
			if !escrow.EvaluateRelease(time.Now()).CanRelease {
				return nil
			}

			_, err := w.escrowService.Release(gctx, models.AdminID, escrow.ID)
			switch {
			case err == nil:
				released.Add(1)
				logger.InfoWithFields("Escrow auto-released", map[string]interface{}{
					"escrow_id": escrow.ID,
					"job_id":    escrow.JobID,
				})
			case errors.Is(err, ErrReleaseBlocked), errors.Is(err, repos.ErrStaleStatus):
				// Lost a race with another releaser or a gate closed between
				// the evaluation and the write. Nothing to do.
			default:
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(released.Load()), err
	}
	return int(released.Load()), nil
}
