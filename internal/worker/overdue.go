// Package worker runs scheduled ledger maintenance.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"mifi-backend/pkg/civil"
)

// Sweeper moves active loans past their end date to overdue.
type Sweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type OverdueWorker struct {
	sweeper  Sweeper
	schedule string
	timeout  time.Duration
	log      *logrus.Logger
	today    func() time.Time

	cron *cron.Cron
}

func NewOverdueWorker(s Sweeper, schedule string, log *logrus.Logger) *OverdueWorker {
	return &OverdueWorker{
		sweeper:  s,
		schedule: schedule,
		timeout:  5 * time.Minute,
		log:      log,
		today:    civil.Today,
	}
}

// RunOnce sweeps as of today (UTC).
func (w *OverdueWorker) RunOnce(ctx context.Context) (int64, error) {
	asOf := w.today()
	n, err := w.sweeper.SweepOverdue(ctx, asOf)
	fields := logrus.Fields{"as_of": civil.Format(asOf), "moved": n}
	if err != nil {
		w.log.WithFields(fields).WithError(err).Error("overdue sweep failed")
		return n, err
	}
	w.log.WithFields(fields).Info("overdue sweep done")
	return n, nil
}

// Start schedules the sweep. A run still in progress makes the next tick a no-op.
func (w *OverdueWorker) Start() error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(w.log))))
	if _, err := c.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		_, _ = w.RunOnce(ctx)
	}); err != nil {
		return err
	}
	w.cron = c
	c.Start()
	w.log.WithField("schedule", w.schedule).Info("overdue sweep scheduled")
	return nil
}

// Stop waits for a running sweep to finish or ctx to end.
func (w *OverdueWorker) Stop(ctx context.Context) {
	if w.cron == nil {
		return
	}
	select {
	case <-w.cron.Stop().Done():
	case <-ctx.Done():
	}
}
