package fulfillmentevent

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// EventType is the closed taxonomy of fulfillment facts. Every event carries
// exactly one type, and every type has exactly one payload shape (see
// payloads.go).
type EventType string

const (
	// TypeOrderProcessing records that the order entered the picking phase.
	TypeOrderProcessing EventType = "order:processing"

	// TypePicklistGenerated records that a pick task was created.
	TypePicklistGenerated EventType = "picklist:generated"

	// TypePicklistItemPicked records one pick confirmation, full or short.
	TypePicklistItemPicked EventType = "picklist:item_picked"

	// TypePicklistCompleted records that the last pick line finished.
	TypePicklistCompleted EventType = "picklist:completed"

	// TypeOrderPicked records the order transition to PICKED.
	TypeOrderPicked EventType = "order:picked"

	// TypePickBinItemVerified records one counted bin scan.
	TypePickBinItemVerified EventType = "pickbin:item_verified"

	// TypePickBinCompleted records that every bin line was verified.
	TypePickBinCompleted EventType = "pickbin:completed"

	// TypePackingStarted records that a pack task was created.
	TypePackingStarted EventType = "packing:started"

	// TypePackingItemVerified records one pack line verification.
	TypePackingItemVerified EventType = "packing:item_verified"

	// TypePackingCompleted records pack completion with measurements.
	TypePackingCompleted EventType = "packing:completed"

	// TypeOrderPacked records the order transition to PACKED.
	TypeOrderPacked EventType = "order:packed"
)

func getValidEventTypes() map[EventType]bool {
	return map[EventType]bool{
		TypeOrderProcessing:     true,
		TypePicklistGenerated:   true,
		TypePicklistItemPicked:  true,
		TypePicklistCompleted:   true,
		TypeOrderPicked:         true,
		TypePickBinItemVerified: true,
		TypePickBinCompleted:    true,
		TypePackingStarted:      true,
		TypePackingItemVerified: true,
		TypePackingCompleted:    true,
		TypeOrderPacked:         true,
	}
}

// Validate checks if the EventType is part of the taxonomy.
func (t EventType) Validate() error {
	if !getValidEventTypes()[t] {
		return errs.NewValueIsInvalidErrorWithCause("event type is invalid",
			fmt.Errorf("%q is not a valid event type", string(t)))
	}
	return nil
}

// String returns the wire-format name of the event type.
func (t EventType) String() string {
	return string(t)
}
