// Package order holds the read model of the external order store as the
// fulfillment core sees it. The order lifecycle and its own state-machine
// guard live outside this service; the core only inspects current state and
// requests transitions through ports.OrderRepository.
//
// The package includes:
//   - Order / OrderItem: the order snapshot consumed by orchestration
//   - Status: the order lifecycle states the core needs to reason about
//   - Allocation: a reservation tying an order line to an inventory unit and
//     a warehouse location, produced by the (external) allocation engine
//   - InventoryUnit: the per-unit stock row mutated when a unit is exhausted
package order
