// Package scheduler triggers recurring scans on a fixed interval.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"TickerScout/internal/logger"
)

// Runner is the slice of the scan controller the scheduler drives.
type Runner interface {
	Start()
	Restart()
}

// Scheduler fires the scan controller on a cron interval. A tick restarts
// any run still in flight, so a slow universe never stacks runs.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	log    logger.Logger
}

// New creates a scheduler over the given runner.
func New(runner Runner, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		runner: runner,
		log:    log,
	}
}

// Register schedules a scan every interval.
func (s *Scheduler) Register(interval time.Duration) error {
	if interval < time.Minute {
		return fmt.Errorf("scan interval must be at least 1m, got %s", interval)
	}
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Infof("scheduler stopped")
}

// RunNow triggers a scan immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runner.Start()
}

func (s *Scheduler) tick() {
	s.log.Infof("scheduled scan tick")
	s.runner.Restart()
}
