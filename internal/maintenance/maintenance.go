// Package maintenance runs periodic housekeeping against the credit store.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Disabled turns the scheduler off when used as the schedule
const Disabled = "off"

// Store is the part of the credit store the job needs
type Store interface {
	Count(ctx context.Context) (int64, error)
	Optimize(ctx context.Context) error
}

// Scheduler runs the housekeeping job on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	store   Store
	log     *logrus.Logger
	timeout time.Duration
}

// NewScheduler parses schedule and registers the job. A schedule of
// Disabled yields a scheduler that never runs.
func NewScheduler(schedule string, store Store, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		store:   store,
		log:     log,
		timeout: time.Minute,
	}
	if schedule == Disabled {
		return s, nil
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the schedule in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Entries reports how many jobs are registered
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Run executes one housekeeping pass. Failures are logged and never retried.
func (s *Scheduler) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	count, err := s.store.Count(ctx)
	if err != nil {
		s.log.WithError(err).Error("maintenance: failed to count credit info")
		return
	}
	if err := s.store.Optimize(ctx); err != nil {
		s.log.WithError(err).Error("maintenance: failed to optimize store")
		return
	}
	s.log.WithFields(logrus.Fields{
		"records":  count,
		"duration": time.Since(start).String(),
	}).Info("maintenance completed")
}
