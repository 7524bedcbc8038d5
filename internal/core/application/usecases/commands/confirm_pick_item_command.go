package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmPickItemCommandIsNotConstructed = errors.New(
	"ConfirmPickItemCommand must be created via NewConfirmPickItemCommand constructor",
)

// ConfirmPickItemCommand confirms one line of a pick task.
// A nil quantity means "picked in full"; a quantity below the requirement
// records a short pick. Scanned distinguishes barcode confirmations from
// manual taps on the handheld.
type ConfirmPickItemCommand struct { //nolint:recvcheck //using for validation
	taskItemID kernel.UUID
	quantity   *int
	scanned    bool
	userID     string

	guard guard.ConstructorGuard
}

// NewConfirmPickItemCommand creates a command to confirm a pick line.
// quantity, when given, must not be negative.
func NewConfirmPickItemCommand(
	taskItemID kernel.UUID,
	quantity *int,
	scanned bool,
	userID string,
) (ConfirmPickItemCommand, error) {
	command := ConfirmPickItemCommand{
		scanned: scanned,
		userID:  userID,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTaskItemID(taskItemID),
		command.setQuantity(quantity),
	); err != nil {
		return ConfirmPickItemCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPickItemCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickItemCommandIsNotConstructed)
}

// TaskItemID returns the pick line being confirmed.
func (c ConfirmPickItemCommand) TaskItemID() kernel.UUID {
	return c.taskItemID
}

// Quantity returns the confirmed quantity, or nil for "in full".
func (c ConfirmPickItemCommand) Quantity() *int {
	return c.quantity
}

// Scanned reports whether the confirmation came from a barcode scan.
func (c ConfirmPickItemCommand) Scanned() bool {
	return c.scanned
}

// UserID returns who confirmed the line.
func (c ConfirmPickItemCommand) UserID() string {
	return c.userID
}

func (c *ConfirmPickItemCommand) setTaskItemID(taskItemID kernel.UUID) error {
	if err := taskItemID.Validate(); err != nil {
		return err
	}

	c.taskItemID = taskItemID
	return nil
}

func (c *ConfirmPickItemCommand) setQuantity(quantity *int) error {
	if quantity != nil && *quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is negative", *quantity))
	}

	c.quantity = quantity
	return nil
}
