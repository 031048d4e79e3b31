// Package sweeper resolves expired reservations on a cron schedule, on top of
// the sweep every listing runs first.
package sweeper

import (
	"context"
	"time"

	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"

	"github.com/robfig/cron/v3"
)

type Sweeper interface {
	Sweep(ctx context.Context) (map[model.ReservationStatus]int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	log     *logger.Logger
}

// New schedules sweeps on a standard five field cron expression evaluated in
// loc. Runs never overlap.
func New(sweeper Sweeper, schedule string, loc *time.Location, timeout time.Duration, log *logger.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	log = log.Component("sweeper")
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	s := &Scheduler{cron: c, sweeper: sweeper, timeout: timeout, log: log}
	if _, err := c.AddFunc(schedule, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Reservation sweeper started", "entries", len(s.cron.Entries()))
}

// Stop halts scheduling and waits for a running sweep, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Sweeper stopped before the running sweep finished")
	}
}

func (s *Scheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.log.Error("Scheduled sweep failed", "error", err)
	}
}
