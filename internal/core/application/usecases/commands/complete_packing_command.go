package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCompletePackingCommandIsNotConstructed = errors.New(
	"CompletePackingCommand must be created via NewCompletePackingCommand constructor",
)

// CompletePackingCommand finishes a pack task once every line is verified,
// capturing the packed weight and optional outer dimensions.
type CompletePackingCommand struct { //nolint:recvcheck //using for validation
	taskID     kernel.UUID
	weight     task.Weight
	dimensions *task.Dimensions
	userID     string

	guard guard.ConstructorGuard
}

// NewCompletePackingCommand creates a command to complete a pack task.
// The weight must be positive; dimensions are optional.
func NewCompletePackingCommand(
	taskID kernel.UUID,
	weight decimal.Decimal,
	weightUnit string,
	dimensions *DimensionsInput,
	userID string,
) (CompletePackingCommand, error) {
	command := CompletePackingCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTaskID(taskID),
		command.setWeight(weight, weightUnit),
		command.setDimensions(dimensions),
	); err != nil {
		return CompletePackingCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePackingCommand) Validate() error {
	return c.guard.Validate(ErrCompletePackingCommandIsNotConstructed)
}

// TaskID returns the pack task being completed.
func (c CompletePackingCommand) TaskID() kernel.UUID {
	return c.taskID
}

// Weight returns the validated packed weight.
func (c CompletePackingCommand) Weight() task.Weight {
	return c.weight
}

// Dimensions returns the validated outer dimensions, or nil.
func (c CompletePackingCommand) Dimensions() *task.Dimensions {
	return c.dimensions
}

// UserID returns who completed packing.
func (c CompletePackingCommand) UserID() string {
	return c.userID
}

func (c *CompletePackingCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *CompletePackingCommand) setWeight(value decimal.Decimal, unit string) error {
	weight, err := task.NewWeight(value, unit)
	if err != nil {
		return err
	}

	c.weight = weight
	return nil
}

func (c *CompletePackingCommand) setDimensions(input *DimensionsInput) error {
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
