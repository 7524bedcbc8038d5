package commands

import (
	"context"
	"time"
)

// CancelStaleTasksCommandHandler cancels abandoned tasks in one transaction.
type CancelStaleTasksCommandHandler struct {
	uowFactory TaskUoWFactory
}

// NewCancelStaleTasksCommandHandler creates a handler for the cleanup job.
func NewCancelStaleTasksCommandHandler(uowFactory TaskUoWFactory) CancelStaleTasksCommandHandler {
	return CancelStaleTasksCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle cancels every non-terminal task created before the threshold and
// returns how many were cancelled.
func (h CancelStaleTasksCommandHandler) Handle(ctx context.Context, command CancelStaleTasksCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	taskRepo := uow.TaskRepository()
	stale, err := taskRepo.GetStaleActive(ctx, now.Add(-command.OlderThan()))
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, staleTask := range stale {
		if err = staleTask.Cancel(now); err != nil {
			return 0, err
		}
		if err = taskRepo.Update(ctx, staleTask); err != nil {
			return 0, err
		}
		cancelled++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return cancelled, nil
}
