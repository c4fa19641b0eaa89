package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Pruner evicts idle sessions and reports how many were removed.
type Pruner interface {
	PruneSessions() int
}

// Scheduler periodically prunes idle dashboard sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    Pruner
	interval  time.Duration
	log       *zap.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, pruner Pruner, logger *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pruner:    pruner,
		interval:  interval,
		log:       logger,
	}
}

// Start schedules the cleanup job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("scheduler: cleanup disabled; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler: started", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) run() {
	n := s.pruner.PruneSessions()
	s.log.Debug("scheduler: completed session cleanup", zap.Int("pruned", n))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
