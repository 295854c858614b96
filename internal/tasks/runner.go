// Package tasks runs the periodic sweeps: leaderboard refresh and payment
// settlement.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/config"
	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/workflow"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

// Job is a unit of periodic work. A failed run is logged and the job keeps
// its schedule.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Sweeper is the work the scheduled jobs perform. *workflow.Service
// implements it.
type Sweeper interface {
	RefreshLeaderboard(ctx context.Context) ([]db.LeaderboardEntry, error)
	SettlePendingPayments(ctx context.Context) (workflow.SettlementReport, error)
}

type Runner struct {
	jobs []Job
	wg   sync.WaitGroup
}

func NewRunner(jobs ...Job) *Runner {
	return &Runner{jobs: jobs}
}

// Scheduled returns the standard jobs at the configured intervals.
func Scheduled(s Sweeper, cfg config.TasksConfig) []Job {
	return []Job{
		{
			Name:     "leaderboard refresh",
			Interval: cfg.LeaderboardInterval,
			Run: func(ctx context.Context) error {
				_, err := s.RefreshLeaderboard(ctx)
				return err
			},
		},
		{
			Name:     "payment settlement",
			Interval: cfg.PaymentInterval,
			Run: func(ctx context.Context) error {
				report, err := s.SettlePendingPayments(ctx)
				if err != nil {
					return err
				}
				if unsettled := len(report.Results) - report.Completed; unsettled > 0 {
					logger.Warn("%d of %d payments were not settled", unsettled, len(report.Results))
				}
				return nil
			},
		},
	}
}

// Start launches every job on its own ticker. Jobs stop when ctx is
// cancelled; a run in progress is allowed to finish.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		if job.Interval <= 0 {
			logger.Warn("Task %q has no interval, not scheduling it", job.Name)
			continue
		}
		r.wg.Add(1)
		go r.loop(ctx, job)
	}
}

// Wait blocks until every job loop has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	logger.Info("Task %q scheduled every %s", job.Name, job.Interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Task %q stopped", job.Name)
			return
		case <-ticker.C:
			r.runOnce(ctx, job)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error("Task %q failed: %v", job.Name, err)
		return
	}
	logger.Debug("Task %q finished in %s", job.Name, time.Since(start))
}
