package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/binrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/taskrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes the PostgreSQL container and runs migrations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&taskrepo.TaskDTO{},
		&taskrepo.TaskItemDTO{},
		&binrepo.PickBinDTO{},
		&binrepo.PickBinItemDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.AllocationDTO{},
		&orderrepo.InventoryUnitDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE task_items, tasks, pick_bin_items, pick_bins, order_items, orders, allocations, inventory_units",
	).Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies the factory produces isolated
// instances that each expose all repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.TaskRepository())
	suite.NotNil(uow1.PickBinRepository())
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.AllocationRepository())
	suite.NotNil(uow1.InventoryRepository())
	suite.NotNil(uow2.TaskRepository())
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit and rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	// Multiple begin calls are safe
	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")

	// Commit without transaction fails
	err = uow.Commit(ctx)
	suite.Require().Error(err, "Commit without active transaction should fail")
}

// TestUnitOfWork_CommitPersistsAcrossRepositories verifies that writes made
// through different repositories of one unit of work land atomically.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsAcrossRepositories() {
	ctx := context.Background()
	suite.seedOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	pickTask := suite.createTestPickTask()
	suite.Require().NoError(uow.TaskRepository().Add(ctx, pickTask))

	bin := suite.createTestBin(pickTask)
	suite.Require().NoError(uow.PickBinRepository().Add(ctx, bin))

	suite.Require().NoError(uow.Commit(ctx))

	// Both aggregates are visible outside the transaction
	verify := suite.factory.Create()
	loadedTask, err := verify.TaskRepository().Get(ctx, pickTask.ID())
	suite.Require().NoError(err)
	suite.Equal(pickTask.Number(), loadedTask.Number())

	loadedBin, err := verify.PickBinRepository().GetByBarcode(ctx, bin.Barcode())
	suite.Require().NoError(err)
	suite.Equal(bin.ID(), loadedBin.ID())
}

// TestUnitOfWork_RollbackDiscardsChanges verifies nothing persists after
// rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChanges() {
	ctx := context.Background()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	pickTask := suite.createTestPickTask()
	suite.Require().NoError(uow.TaskRepository().Add(ctx, pickTask))

	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err := verify.TaskRepository().Get(ctx, pickTask.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUnitOfWork_OrderStoreOperations verifies the narrow write operations
// against the external order and allocation rows.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderStoreOperations() {
	ctx := context.Background()
	orderID, itemID := suite.seedOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.OrderRepository().UpdateStatus(ctx, orderID, order.StatusPicking))
	suite.Require().NoError(uow.OrderRepository().IncrementItemPickedQty(ctx, itemID, 2))
	suite.Require().NoError(uow.OrderRepository().SetItemPickedQty(ctx, itemID, 3))

	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(order.StatusPicking, loaded.Status)
	suite.Require().Len(loaded.Items, 1)
	suite.Equal(3, loaded.Items[0].PickedQty)
}

// seedOrder inserts one order with one item directly and returns the IDs.
func (suite *UnitOfWorkIntegrationTestSuite) seedOrder() (kernel.UUID, kernel.UUID) {
	orderID := kernel.NewUUID()
	itemID := kernel.NewUUID()

	dto := orderrepo.OrderDTO{
		ID:     orderID.Bytes(),
		Number: "SO-" + orderID.String()[:8],
		Status: int(order.StatusAllocated),
		Items: []orderrepo.OrderItemDTO{
			{
				ID:               itemID.Bytes(),
				OrderID:          orderID.Bytes(),
				SKU:              "SKU-A",
				ProductVariantID: kernel.NewUUID().Bytes(),
				Description:      "Test product",
				Quantity:         3,
			},
		},
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)

	return orderID, itemID
}

// createTestPickTask builds a pending pick task with one line.
func (suite *UnitOfWorkIntegrationTestSuite) createTestPickTask() *task.Task {
	item, err := task.NewItem(task.NewItemParams{
		ID:               kernel.NewUUID(),
		OrderItemID:      kernel.NewUUID(),
		SKU:              "SKU-A",
		ProductVariantID: kernel.NewUUID(),
		Sequence:         1,
		QuantityRequired: 3,
	})
	suite.Require().NoError(err)

	pickTask, err := task.NewTask(
		kernel.NewUUID(), kernel.NewUUID(),
		task.GenerateNumber(task.KindPick, time.Now().UTC()),
		task.KindPick, []*task.Item{item},
	)
	suite.Require().NoError(err)
	return pickTask
}

// createTestBin builds a staged bin for the given pick task.
func (suite *UnitOfWorkIntegrationTestSuite) createTestBin(pickTask *task.Task) *pickbin.PickBin {
	item, err := pickbin.NewItem(pickbin.NewItemParams{
		ID:               kernel.NewUUID(),
		SKU:              "SKU-A",
		ProductVariantID: kernel.NewUUID(),
		Quantity:         3,
	})
	suite.Require().NoError(err)

	now := time.Now().UTC()
	bin, err := pickbin.NewPickBin(
		kernel.NewUUID(), pickTask.OrderID(), pickTask.ID(),
		pickbin.GenerateNumber(now), pickbin.GenerateBarcode(now),
		[]*pickbin.Item{item}, "worker-1", now,
	)
	suite.Require().NoError(err)
	return bin
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
