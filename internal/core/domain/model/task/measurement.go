package task

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultWeightUnit is assumed when the pack station omits the unit.
const DefaultWeightUnit = "lb"

// Weight is the measured weight of a packed task.
type Weight struct {
	value decimal.Decimal
	unit  string
}

// NewWeight creates a validated weight. The value must be positive; an empty
// unit falls back to DefaultWeightUnit.
func NewWeight(value decimal.Decimal, unit string) (Weight, error) {
	if !value.IsPositive() {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight is invalid",
			fmt.Errorf("%s is not greater than 0", value))
	}
	if unit == "" {
		unit = DefaultWeightUnit
	}
	return Weight{value: value, unit: unit}, nil
}

// Value returns the numeric weight.
func (w Weight) Value() decimal.Decimal { return w.value }

// Unit returns the weight unit.
func (w Weight) Unit() string { return w.unit }

// String returns the weight as "12.5 lb".
func (w Weight) String() string {
	return fmt.Sprintf("%s %s", w.value, w.unit)
}

// Dimensions are the outer measurements of a packed task.
type Dimensions struct {
	length decimal.Decimal
	width  decimal.Decimal
	height decimal.Decimal
	unit   string
}

// NewDimensions creates validated dimensions. All three measurements must be
// positive.
func NewDimensions(length, width, height decimal.Decimal, unit string) (Dimensions, error) {
	for name, v := range map[string]decimal.Decimal{"length": length, "width": width, "height": height} {
		if !v.IsPositive() {
			return Dimensions{}, errs.NewValueIsInvalidErrorWithCause("dimensions are invalid",
				fmt.Errorf("%s %s is not greater than 0", name, v))
		}
	}
	if unit == "" {
		unit = "in"
	}
	return Dimensions{length: length, width: width, height: height, unit: unit}, nil
}

// Length returns the longest side.
func (d Dimensions) Length() decimal.Decimal { return d.length }

// Width returns the middle side.
func (d Dimensions) Width() decimal.Decimal { return d.width }

// Height returns the shortest side.
func (d Dimensions) Height() decimal.Decimal { return d.height }

// Unit returns the measurement unit.
func (d Dimensions) Unit() string { return d.unit }

// String returns the dimensions as "12x10x4 in".
func (d Dimensions) String() string {
	return fmt.Sprintf("%sx%sx%s %s", d.length, d.width, d.height, d.unit)
}
