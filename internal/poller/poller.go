package poller

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one scheduled unit of work. Poll runs ingest (when enabled)
// followed by analysis.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc func(ctx context.Context) error

// Run calls f.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Poller triggers a batch job on a cron schedule. Overlapping triggers
// are skipped so at most one run is in flight.
type Poller struct {
	schedule string
	job      Job
	logger   *logrus.Logger
	cron     *cron.Cron
	running  atomic.Bool
}

// New creates a poller. schedule is a standard five-field cron spec.
func New(schedule string, job Job, logger *logrus.Logger) *Poller {
	return &Poller{
		schedule: schedule,
		job:      job,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start validates the schedule and begins triggering runs. It returns
// immediately; runs happen on the cron goroutine.
func (p *Poller) Start(ctx context.Context) error {
	_, err := p.cron.AddFunc(p.schedule, func() { p.trigger(ctx) })
	if err != nil {
		return fmt.Errorf("invalid poll schedule %q: %w", p.schedule, err)
	}
	p.cron.Start()
	p.logger.WithField("schedule", p.schedule).Info("poller started")
	return nil
}

// trigger runs the job unless a previous run is still in flight.
func (p *Poller) trigger(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Warn("previous run still in progress, skipping trigger")
		return
	}
	defer p.running.Store(false)

	if err := p.job.Run(ctx); err != nil {
		p.logger.WithError(err).Error("scheduled run failed")
		return
	}
	p.logger.Info("scheduled run complete")
}

// RunOnce triggers the job immediately, observing the same overlap
// guard as scheduled runs.
func (p *Poller) RunOnce(ctx context.Context) {
	p.trigger(ctx)
}

// Stop halts the schedule and waits for an in-flight run to hand back
// its cron slot.
func (p *Poller) Stop() {
	stopCtx := p.cron.Stop()
	<-stopCtx.Done()
	p.logger.Info("poller stopped")
}
