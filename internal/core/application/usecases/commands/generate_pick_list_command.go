package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGeneratePickListCommandIsNotConstructed = errors.New(
	"GeneratePickListCommand must be created via NewGeneratePickListCommand constructor",
)

// GeneratePickListCommand requests a pick list for one order. The list is
// built from the order's ALLOCATED inventory, ordered along the optimized
// pick path.
//
// Example:
//
//	cmd, err := NewGeneratePickListCommand(orderID, "worker-42")
//	if err != nil {
//	    return err
//	}
//	pickTask, err := handler.Handle(ctx, cmd)
type GeneratePickListCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  string

	guard guard.ConstructorGuard
}

// NewGeneratePickListCommand creates a command to generate a pick list.
// userID identifies who requested the list and may be empty for system calls.
func NewGeneratePickListCommand(orderID kernel.UUID, userID string) (GeneratePickListCommand, error) {
	command := GeneratePickListCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return GeneratePickListCommand{}, err
	}
	command.userID = userID

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c GeneratePickListCommand) Validate() error {
	return c.guard.Validate(ErrGeneratePickListCommandIsNotConstructed)
}

// OrderID returns the order to generate the pick list for.
func (c GeneratePickListCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns who requested the pick list.
func (c GeneratePickListCommand) UserID() string {
	return c.userID
}

func (c *GeneratePickListCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
