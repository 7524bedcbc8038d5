package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompleteBinCommandIsNotConstructed = errors.New(
	"CompleteBinCommand must be created via NewCompleteBinCommand constructor",
)

// CompleteBinCommand marks a fully verified bin as packed out.
type CompleteBinCommand struct { //nolint:recvcheck //using for validation
	binID  kernel.UUID
	userID string

	guard guard.ConstructorGuard
}

// NewCompleteBinCommand creates a command to complete a bin.
func NewCompleteBinCommand(binID kernel.UUID, userID string) (CompleteBinCommand, error) {
	command := CompleteBinCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := command.setBinID(binID); err != nil {
		return CompleteBinCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteBinCommand) Validate() error {
	return c.guard.Validate(ErrCompleteBinCommandIsNotConstructed)
}

// BinID returns the bin being completed.
func (c CompleteBinCommand) BinID() kernel.UUID {
	return c.binID
}

// UserID returns who completed the bin.
func (c CompleteBinCommand) UserID() string {
	return c.userID
}

func (c *CompleteBinCommand) setBinID(binID kernel.UUID) error {
	if err := binID.Validate(); err != nil {
		return err
	}

	c.binID = binID
	return nil
}
