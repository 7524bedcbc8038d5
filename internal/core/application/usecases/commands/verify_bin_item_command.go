package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyBinItemCommandIsNotConstructed = errors.New(
	"VerifyBinItemCommand must be created via NewVerifyBinItemCommand constructor",
)

// VerifyBinItemCommand counts a pack-station scan against one line of a bin.
// The code may be a UPC, an internal barcode or a SKU. A nil quantity counts
// a single unit.
type VerifyBinItemCommand struct { //nolint:recvcheck //using for validation
	binID    kernel.UUID
	code     string
	quantity *int
	userID   string

	guard guard.ConstructorGuard
}

// NewVerifyBinItemCommand creates a command to verify a bin line.
func NewVerifyBinItemCommand(
	binID kernel.UUID,
	code string,
	quantity *int,
	userID string,
) (VerifyBinItemCommand, error) {
	command := VerifyBinItemCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setBinID(binID),
		command.setCode(code),
		command.setQuantity(quantity),
	); err != nil {
		return VerifyBinItemCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyBinItemCommand) Validate() error {
	return c.guard.Validate(ErrVerifyBinItemCommandIsNotConstructed)
}

// BinID returns the bin being verified.
func (c VerifyBinItemCommand) BinID() kernel.UUID {
	return c.binID
}

// Code returns the scanned product code.
func (c VerifyBinItemCommand) Code() string {
	return c.code
}

// Quantity returns the scanned quantity, or nil for a single unit.
func (c VerifyBinItemCommand) Quantity() *int {
	return c.quantity
}

// UserID returns who scanned the unit.
func (c VerifyBinItemCommand) UserID() string {
	return c.userID
}

func (c *VerifyBinItemCommand) setBinID(binID kernel.UUID) error {
	if err := binID.Validate(); err != nil {
		return err
	}

	c.binID = binID
	return nil
}

func (c *VerifyBinItemCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	c.code = code
	return nil
}

func (c *VerifyBinItemCommand) setQuantity(quantity *int) error {
	if quantity != nil && *quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", *quantity))
	}

	c.quantity = quantity
	return nil
}
