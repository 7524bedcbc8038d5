package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmAllPickItemsCommandIsNotConstructed = errors.New(
	"ConfirmAllPickItemsCommand must be created via NewConfirmAllPickItemsCommand constructor",
)

// ConfirmAllPickItemsCommand confirms every pending line of an order's active
// pick task in full, in sequence order. Used by supervisors to close out a
// list without walking it line by line.
type ConfirmAllPickItemsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  string

	guard guard.ConstructorGuard
}

// NewConfirmAllPickItemsCommand creates a command to confirm an order's whole
// pick task.
func NewConfirmAllPickItemsCommand(orderID kernel.UUID, userID string) (ConfirmAllPickItemsCommand, error) {
	command := ConfirmAllPickItemsCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return ConfirmAllPickItemsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmAllPickItemsCommand) Validate() error {
	return c.guard.Validate(ErrConfirmAllPickItemsCommandIsNotConstructed)
}

// OrderID returns the order whose active pick task is confirmed.
func (c ConfirmAllPickItemsCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns who confirmed the task.
func (c ConfirmAllPickItemsCommand) UserID() string {
	return c.userID
}

func (c *ConfirmAllPickItemsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
