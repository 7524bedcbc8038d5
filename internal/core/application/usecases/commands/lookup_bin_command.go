package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrLookupBinCommandIsNotConstructed = errors.New(
	"LookupBinCommand must be created via NewLookupBinCommand constructor",
)

// LookupBinCommand resolves a scanned tote barcode at a pack station.
// The first successful lookup claims the bin for packing; later lookups are
// pure reads.
type LookupBinCommand struct { //nolint:recvcheck //using for validation
	barcode string
	userID  string

	guard guard.ConstructorGuard
}

// NewLookupBinCommand creates a command to resolve a bin barcode.
func NewLookupBinCommand(barcode, userID string) (LookupBinCommand, error) {
	command := LookupBinCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := command.setBarcode(barcode); err != nil {
		return LookupBinCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c LookupBinCommand) Validate() error {
	return c.guard.Validate(ErrLookupBinCommandIsNotConstructed)
}

// Barcode returns the scanned tote barcode.
func (c LookupBinCommand) Barcode() string {
	return c.barcode
}

// UserID returns who scanned the tote.
func (c LookupBinCommand) UserID() string {
	return c.userID
}

func (c *LookupBinCommand) setBarcode(barcode string) error {
	if barcode == "" {
		return errs.NewValueIsRequiredError("barcode")
	}

	c.barcode = barcode
	return nil
}
