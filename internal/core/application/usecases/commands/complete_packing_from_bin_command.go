package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCompletePackingFromBinCommandIsNotConstructed = errors.New(
	"CompletePackingFromBinCommand must be created via NewCompletePackingFromBinCommand constructor",
)

// DimensionsInput carries raw package measurements from the pack station.
type DimensionsInput struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
	Unit   string
}

// CompletePackingFromBinCommand finishes packing an order straight from a
// verified bin, skipping the standalone pack-task flow. Captures the packed
// weight and optional outer dimensions.
type CompletePackingFromBinCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	binID      kernel.UUID
	weight     task.Weight
	dimensions *task.Dimensions
	userID     string

	guard guard.ConstructorGuard
}

// NewCompletePackingFromBinCommand creates a command to pack out from a bin.
// The weight must be positive; dimensions are optional.
func NewCompletePackingFromBinCommand(
	orderID, binID kernel.UUID,
	weight decimal.Decimal,
	weightUnit string,
	dimensions *DimensionsInput,
	userID string,
) (CompletePackingFromBinCommand, error) {
	command := CompletePackingFromBinCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setBinID(binID),
		command.setWeight(weight, weightUnit),
		command.setDimensions(dimensions),
	); err != nil {
		return CompletePackingFromBinCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePackingFromBinCommand) Validate() error {
	return c.guard.Validate(ErrCompletePackingFromBinCommandIsNotConstructed)
}

// OrderID returns the order being packed.
func (c CompletePackingFromBinCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BinID returns the bin the order is packed from.
func (c CompletePackingFromBinCommand) BinID() kernel.UUID {
	return c.binID
}

// Weight returns the validated packed weight.
func (c CompletePackingFromBinCommand) Weight() task.Weight {
	return c.weight
}

// Dimensions returns the validated outer dimensions, or nil.
func (c CompletePackingFromBinCommand) Dimensions() *task.Dimensions {
	return c.dimensions
}

// UserID returns who packed the order.
func (c CompletePackingFromBinCommand) UserID() string {
	return c.userID
}

func (c *CompletePackingFromBinCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CompletePackingFromBinCommand) setBinID(binID kernel.UUID) error {
	if err := binID.Validate(); err != nil {
		return err
	}

	c.binID = binID
	return nil
}

func (c *CompletePackingFromBinCommand) setWeight(value decimal.Decimal, unit string) error {
	weight, err := task.NewWeight(value, unit)
	if err != nil {
		return err
	}

	c.weight = weight
	return nil
}

func (c *CompletePackingFromBinCommand) setDimensions(input *DimensionsInput) error {
	if input == nil {
		return nil
	}

	dimensions, err := task.NewDimensions(input.Length, input.Width, input.Height, input.Unit)
	if err != nil {
		return err
	}

	c.dimensions = &dimensions
	return nil
}
