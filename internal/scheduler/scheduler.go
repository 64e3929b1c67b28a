package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/jobs"
)

// Config holds the cron expressions for the scheduled jobs
type Config struct {
	PendingReminders string
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.Runner
	logger *zap.Logger
}

// New creates a scheduler and registers the jobs
func New(runner *jobs.Runner, cfg Config, logger *zap.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:   c,
		runner: runner,
		logger: logger,
	}

	if _, err := c.AddFunc(cfg.PendingReminders, runner.PendingApprovalsReminder); err != nil {
		logger.Error("Failed to register pending reminders job", zap.Error(err))
	}

	return s
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}
