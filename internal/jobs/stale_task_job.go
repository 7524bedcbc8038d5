package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleTaskJob cancels pick and pack tasks that were started but never
// finished, releasing their orders back to the floor. Runs every minute.
type StaleTaskJob struct {
	handler   commands.CancelStaleTasksCommandHandler
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStaleTaskJob creates a job that cancels tasks older than the threshold.
func NewStaleTaskJob(
	handler commands.CancelStaleTasksCommandHandler,
	threshold time.Duration,
	logger *slog.Logger,
) *StaleTaskJob {
	return &StaleTaskJob{
		handler:   handler,
		threshold: threshold,
		cron:      cron.New(),
		logger:    logger.With("component", "stale_task_job"),
	}
}

// Start begins the stale task sweep on a one-minute schedule.
func (j *StaleTaskJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewCancelStaleTasksCommand(j.threshold)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale task sweep misconfigured", "error", cmdErr)
			return
		}

		cancelled, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Stale task sweep failed", "error", handleErr)
			return
		}

		if cancelled > 0 {
			j.logger.InfoContext(ctx, "Cancelled stale tasks", "count", cancelled, "threshold", j.threshold)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale task job started (running every minute)")
	return nil
}

// Stop stops the stale task job.
func (j *StaleTaskJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale task job stopped")
}
