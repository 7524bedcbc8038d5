package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyPackItemCommandIsNotConstructed = errors.New(
	"VerifyPackItemCommand must be created via NewVerifyPackItemCommand constructor",
)

// VerifyPackItemCommand verifies one line of a pack task at its full
// quantity. Packing has no partial confirmations.
type VerifyPackItemCommand struct { //nolint:recvcheck //using for validation
	taskItemID kernel.UUID
	userID     string

	guard guard.ConstructorGuard
}

// NewVerifyPackItemCommand creates a command to verify a pack line.
func NewVerifyPackItemCommand(taskItemID kernel.UUID, userID string) (VerifyPackItemCommand, error) {
	command := VerifyPackItemCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := command.setTaskItemID(taskItemID); err != nil {
		return VerifyPackItemCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyPackItemCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPackItemCommandIsNotConstructed)
}

// TaskItemID returns the pack line being verified.
func (c VerifyPackItemCommand) TaskItemID() kernel.UUID {
	return c.taskItemID
}

// UserID returns who verified the line.
func (c VerifyPackItemCommand) UserID() string {
	return c.userID
}

func (c *VerifyPackItemCommand) setTaskItemID(taskItemID kernel.UUID) error {
	if err := taskItemID.Validate(); err != nil {
		return err
	}

	c.taskItemID = taskItemID
	return nil
}
