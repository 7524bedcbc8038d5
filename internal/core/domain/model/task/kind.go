package task

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Kind distinguishes pick work from pack work. A task is exactly one of the
// two for its whole lifetime.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// KindPick is a pick task: walk the warehouse and pull units.
	KindPick

	// KindPack is a pack task: verify picked units at a pack station.
	KindPack
)

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	if k != KindPick && k != KindPack {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid",
			fmt.Errorf("%d is not a valid task kind", k))
	}
	return nil
}

// String returns the wire-format name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPick:
		return "PICK"
	case KindPack:
		return "PACK"
	default:
		return "UNKNOWN"
	}
}
