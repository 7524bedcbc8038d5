package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order as reported by the
// external order store. The fulfillment core never invents new statuses;
// it only checks preconditions against the current value and requests
// transitions through the order repository.
//
// The slice of the lifecycle this core touches:
//
//	PENDING/CONFIRMED/READY_TO_PICK/ALLOCATED ──> PICKING ──> PICKED ──> PACKING ──> PACKED
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status of a freshly placed order.
	StatusPending

	// StatusConfirmed indicates payment/fraud checks have passed.
	StatusConfirmed

	// StatusReadyToPick indicates the order has been released to the warehouse.
	StatusReadyToPick

	// StatusAllocated indicates inventory has been reserved for every line.
	StatusAllocated

	// StatusPicking indicates an active pick task exists for the order.
	StatusPicking

	// StatusPicked indicates every pick line has been confirmed.
	StatusPicked

	// StatusPacking indicates an active pack task or pack station claim exists.
	StatusPacking

	// StatusPacked indicates packing finished; the shipping step takes over.
	StatusPacked
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:     "UNKNOWN",
		StatusPending:     "PENDING",
		StatusConfirmed:   "CONFIRMED",
		StatusReadyToPick: "READY_TO_PICK",
		StatusAllocated:   "ALLOCATED",
		StatusPicking:     "PICKING",
		StatusPicked:      "PICKED",
		StatusPacking:     "PACKING",
		StatusPacked:      "PACKED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:     "PENDING",
		StatusConfirmed:   "CONFIRMED",
		StatusReadyToPick: "READY_TO_PICK",
		StatusAllocated:   "ALLOCATED",
		StatusPicking:     "PICKING",
		StatusPicked:      "PICKED",
		StatusPacking:     "PACKING",
		StatusPacked:      "PACKED",
	}
}

// Validate checks if the Status value is one of the known lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire-format name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses the wire-format name used by the order store.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// CanGeneratePickList reports whether a pick list may be generated for an
// order in this status. Picking can start any time between order placement
// and allocation; once the order is PICKING or beyond, generation is closed.
func (s Status) CanGeneratePickList() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusReadyToPick, StatusAllocated:
		return true
	default:
		return false
	}
}

// CanGeneratePackList reports whether a pack list may be generated.
// Packing strictly follows a completed pick.
func (s Status) CanGeneratePackList() bool {
	return s == StatusPicked
}
