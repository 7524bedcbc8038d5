package commands

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAllocations is returned when pick-list generation finds no
	// allocations in ALLOCATED status for the order.
	ErrNoAllocations = errors.New("no allocated inventory found for order")

	// ErrNoPickedItems is returned when pack-list generation finds no
	// completed pick task with picked units to mirror.
	ErrNoPickedItems = errors.New("no picked items found for order")

	// ErrBinAlreadyPacked is returned when a pack station scans a bin that
	// has already been packed out.
	ErrBinAlreadyPacked = errors.New("pick bin is already packed")

	// ErrBinCancelled is returned when a pack station scans a cancelled bin.
	ErrBinCancelled = errors.New("pick bin is cancelled")
)

// UnverifiedItemsError reports a completion attempt on a bin whose lines are
// not all scan-verified yet. The SKUs tell the packer what is still missing.
type UnverifiedItemsError struct {
	SKUs []string
}

// Error implements the error interface.
func (e *UnverifiedItemsError) Error() string {
	return fmt.Sprintf("not all items verified: %s", strings.Join(e.SKUs, ", "))
}

// PendingItemsError reports a completion attempt on a pack task with
// unverified lines remaining.
type PendingItemsError struct {
	Remaining int
}

// Error implements the error interface.
func (e *PendingItemsError) Error() string {
	return fmt.Sprintf("%d items not yet verified", e.Remaining)
}
