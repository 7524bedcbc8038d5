// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and post-commit event recording.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// TaskRepoFactory provides access to the task repository within a transaction.
	TaskRepoFactory interface {
		TaskRepository() ports.TaskRepository
	}

	// PickBinRepoFactory provides access to the bin repository within a transaction.
	PickBinRepoFactory interface {
		PickBinRepository() ports.PickBinRepository
	}

	// OrderRepoFactory provides access to the order, allocation and inventory
	// repositories within a transaction. The three stores always change
	// together from this core's point of view.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
		AllocationRepository() ports.AllocationRepository
		InventoryRepository() ports.InventoryRepository
	}

	// BinUoW manages transactions for bin-only operations.
	// Used by pack-station verification, which touches nothing else.
	BinUoW interface {
		TxManager
		PickBinRepoFactory
	}

	// BinUoWFactory creates new bin unit of work instances.
	BinUoWFactory interface {
		Create() BinUoW
	}

	// TaskUoW manages transactions for task-only operations.
	TaskUoW interface {
		TxManager
		TaskRepoFactory
	}

	// TaskUoWFactory creates new task unit of work instances.
	TaskUoWFactory interface {
		Create() TaskUoW
	}

	// UoW manages transactions across tasks, bins and the order-side stores.
	// Used by commands whose completion cascades span aggregates, such as a
	// pick confirmation that finishes the task, stages a bin and moves the
	// order.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   taskRepo := uow.TaskRepository()
	//   binRepo := uow.PickBinRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		TaskRepoFactory
		PickBinRepoFactory
		OrderRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
