package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelStaleTasksCommandIsNotConstructed = errors.New(
	"CancelStaleTasksCommand must be created via NewCancelStaleTasksCommand constructor",
)

// CancelStaleTasksCommand cancels pick and pack tasks that have sat
// non-terminal longer than the threshold. Run periodically to reclaim
// abandoned work.
type CancelStaleTasksCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration

	guard guard.ConstructorGuard
}

// NewCancelStaleTasksCommand creates a command to cancel stale tasks.
func NewCancelStaleTasksCommand(olderThan time.Duration) (CancelStaleTasksCommand, error) {
	command := CancelStaleTasksCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOlderThan(olderThan); err != nil {
		return CancelStaleTasksCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelStaleTasksCommand) Validate() error {
	return c.guard.Validate(ErrCancelStaleTasksCommandIsNotConstructed)
}

// OlderThan returns the staleness threshold.
func (c CancelStaleTasksCommand) OlderThan() time.Duration {
	return c.olderThan
}

func (c *CancelStaleTasksCommand) setOlderThan(olderThan time.Duration) error {
	if olderThan <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("olderThan is invalid",
			fmt.Errorf("%s is not greater than 0", olderThan))
	}

	c.olderThan = olderThan
	return nil
}
