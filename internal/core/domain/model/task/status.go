package task

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a task.
// It implements a state machine with defined transitions:
//
//	Pending ──> InProgress ──> Completed
//	    │            │
//	    └────────────┴──────> Cancelled
//
// A task becomes terminal exactly once, on the confirmation that completes
// its last item (or on explicit cancellation).
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status: the task exists but no item has
	// been confirmed yet.
	StatusPending

	// StatusInProgress indicates at least one item has been confirmed.
	StatusInProgress

	// StatusCompleted indicates every item reached a finished state.
	// This is a terminal state.
	StatusCompleted

	// StatusCancelled indicates the task was abandoned.
	// This is a terminal state.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "UNKNOWN",
		StatusPending:    "PENDING",
		StatusInProgress: "IN_PROGRESS",
		StatusCompleted:  "COMPLETED",
		StatusCancelled:  "CANCELLED",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid task status", s))
	}
}

// String returns the wire-format name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions are allowed.
// The single-active-task guard counts only non-terminal tasks.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Start transitions the status to InProgress on the first confirmation.
//
// Valid transitions:
//   - Pending -> InProgress
//   - InProgress -> InProgress (subsequent confirmations)
func (s Status) Start() (Status, error) {
	if s != StatusPending && s != StatusInProgress {
		return 0, errs.NewInvalidStateError("Task", s.String(), "start")
	}
	return StatusInProgress, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - Pending -> Completed (single-item tasks complete on first confirm)
//   - InProgress -> Completed
func (s Status) Complete() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewInvalidStateError("Task", s.String(), "complete")
	}
	return StatusCompleted, nil
}

// Cancel transitions the status to Cancelled.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewInvalidStateError("Task", s.String(), "cancel")
	}
	return StatusCancelled, nil
}
