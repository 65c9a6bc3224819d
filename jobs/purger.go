package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper is the purge operation the scheduler drives.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// PurgeSchedule matches the deployed trigger contract: the sweep runs once
// every 24 hours. Nothing consumes the sweep's result; failures are logged
// only.
const PurgeSchedule = "@every 24h"

// Purger owns the cron scheduler for the archived-product sweep.
type Purger struct {
	sched   *cron.Cron
	sweeper Sweeper
}

func NewPurger(sweeper Sweeper) *Purger {
	return &Purger{sched: cron.New(), sweeper: sweeper}
}

// Start schedules the sweep and launches the scheduler.
func (p *Purger) Start() error {
	if _, err := p.sched.AddFunc(PurgeSchedule, p.runSweep); err != nil {
		return err
	}
	p.sched.Start()
	zap.L().Info("Scheduled purger started", zap.String("schedule", PurgeSchedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (p *Purger) Stop() {
	ctx := p.sched.Stop()
	<-ctx.Done()
	zap.L().Info("Scheduled purger stopped")
}

func (p *Purger) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	purged, err := p.sweeper.SweepExpired(ctx)
	if err != nil {
		zap.L().Error("Purge sweep failed", zap.Error(err))
		return
	}
	zap.L().Info("Purge sweep finished", zap.Int("purged", purged))
}
