package pickbin

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a pick bin.
//
//	Staged ──> Packing ──> Completed
//	   │          │
//	   └──────────┴──────> Cancelled
//
// The Staged->Packing transition is a first-touch claim: the first lookup at
// a pack station commits it, repeated lookups afterwards are pure reads.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusStaged means the bin waits on the staging shelf for a packer.
	StatusStaged

	// StatusPacking means a pack station has claimed the bin.
	StatusPacking

	// StatusCompleted means every item was verified and packing finished.
	// This is a terminal state.
	StatusCompleted

	// StatusCancelled means the bin was withdrawn.
	// This is a terminal state.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusStaged:    "STAGED",
		StatusPacking:   "PACKING",
		StatusCompleted: "COMPLETED",
		StatusCancelled: "CANCELLED",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	switch s {
	case StatusStaged, StatusPacking, StatusCompleted, StatusCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid pick bin status", s))
	}
}

// String returns the wire-format name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
