// Package jobs provides scheduled background tasks for the fulfillment
// system, implemented with github.com/robfig/cron/v3.
package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleTaskJob *StaleTaskJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	cancelStaleTasksHandler commands.CancelStaleTasksCommandHandler,
	staleThreshold time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleTaskJob: NewStaleTaskJob(cancelStaleTasksHandler, staleThreshold, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleTaskJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale task job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleTaskJob.Stop()
}
