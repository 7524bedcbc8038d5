package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGeneratePackListCommandIsNotConstructed = errors.New(
	"GeneratePackListCommand must be created via NewGeneratePackListCommand constructor",
)

// GeneratePackListCommand requests a pack list for a picked order.
// The list mirrors the lines of the completed pick task, carrying only the
// quantities actually picked.
type GeneratePackListCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  string

	guard guard.ConstructorGuard
}

// NewGeneratePackListCommand creates a command to generate a pack list.
func NewGeneratePackListCommand(orderID kernel.UUID, userID string) (GeneratePackListCommand, error) {
	command := GeneratePackListCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return GeneratePackListCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c GeneratePackListCommand) Validate() error {
	return c.guard.Validate(ErrGeneratePackListCommandIsNotConstructed)
}

// OrderID returns the order to generate the pack list for.
func (c GeneratePackListCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns who requested the pack list.
func (c GeneratePackListCommand) UserID() string {
	return c.userID
}

func (c *GeneratePackListCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
