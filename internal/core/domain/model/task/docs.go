// Package task implements the work-order aggregate of the fulfillment core.
// A Task is a unit of pick or pack work for exactly one order, decomposed
// into ordered TaskItems. The aggregate owns the progress counters and the
// terminal transition: counters are always recomputed from the item rows,
// never incremented in place, so concurrent confirmations inside one
// transaction cannot drift them.
package task
