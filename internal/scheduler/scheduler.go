package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nextsystem/dropgate/internal/jobs"
	"github.com/nextsystem/dropgate/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.Runner
}

// New creates a scheduler and registers the daily digest at the given
// cron spec (seconds precision, UTC).
func New(runner *jobs.Runner, digestSpec string) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:   c,
		runner: runner,
	}

	if _, err := c.AddFunc(digestSpec, runner.DailyDigest); err != nil {
		logger.Error("Failed to register DailyDigest job", "error", err, "spec", digestSpec)
	} else {
		logger.Info("Registered DailyDigest job", "spec", digestSpec)
	}
	return s
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}
