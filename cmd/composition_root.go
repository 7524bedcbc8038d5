package cmd

import (
	"log/slog"
	"time"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/live"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/eventrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	broadcaster *live.Broadcaster
	kafkaPub    *kafka.Publisher
	recorder    commands.EventRecorder
	logger      *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	broadcaster := live.NewBroadcaster()

	publishers := []ports.EventPublisher{broadcaster}
	var kafkaPub *kafka.Publisher
	if len(configs.KafkaBrokers) > 0 {
		kafkaPub = kafka.NewPublisher(configs.KafkaBrokers, configs.KafkaEventsTopic)
		publishers = append(publishers, kafkaPub)
	}

	recorder := commands.NewEventRecorder(
		eventrepo.NewGormEventStore(gormDB),
		live.NewCompositePublisher(publishers...),
		logger,
	)

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		broadcaster: broadcaster,
		kafkaPub:    kafkaPub,
		recorder:    recorder,
		logger:      logger,
	}
}

// Close releases the outbound adapters. Safe to call once at shutdown.
func (c *CompositionRoot) Close() {
	c.broadcaster.Close()
	if c.kafkaPub != nil {
		if err := c.kafkaPub.Close(); err != nil {
			c.logger.Error("Failed to close kafka publisher", "error", err)
		}
	}
}

// EventStream exposes the in-process fan-out for the SSE endpoint.
func (c *CompositionRoot) EventStream() httpadapter.EventStream {
	return c.broadcaster
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) taskUoW() commands.TaskUoWFactory {
	return FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) binUoW() commands.BinUoWFactory {
	return FuncBinUoWFactory(func() commands.BinUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateGeneratePickListCommandHandler() commands.GeneratePickListCommandHandler {
	return commands.NewGeneratePickListCommandHandler(c.uow(), c.recorder)
}

func (c *CompositionRoot) CreateConfirmPickItemCommandHandler() commands.ConfirmPickItemCommandHandler {
	return commands.NewConfirmPickItemCommandHandler(c.uow(), c.recorder)
}

func (c *CompositionRoot) CreateConfirmAllPickItemsCommandHandler() commands.ConfirmAllPickItemsCommandHandler {
	return commands.NewConfirmAllPickItemsCommandHandler(c.taskUoW(), c.CreateConfirmPickItemCommandHandler())
}

func (c *CompositionRoot) CreateLookupBinCommandHandler() commands.LookupBinCommandHandler {
	return commands.NewLookupBinCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateVerifyBinItemCommandHandler() commands.VerifyBinItemCommandHandler {
	return commands.NewVerifyBinItemCommandHandler(c.binUoW(), c.recorder)
}

func (c *CompositionRoot) CreateCompleteBinCommandHandler() commands.CompleteBinCommandHandler {
	return commands.NewCompleteBinCommandHandler(c.binUoW(), c.recorder)
}

func (c *CompositionRoot) CreateCompletePackingFromBinCommandHandler() commands.CompletePackingFromBinCommandHandler {
	return commands.NewCompletePackingFromBinCommandHandler(c.uow(), c.recorder)
}

func (c *CompositionRoot) CreateGeneratePackListCommandHandler() commands.GeneratePackListCommandHandler {
	return commands.NewGeneratePackListCommandHandler(c.uow(), c.recorder)
}

func (c *CompositionRoot) CreateVerifyPackItemCommandHandler() commands.VerifyPackItemCommandHandler {
	return commands.NewVerifyPackItemCommandHandler(c.taskUoW(), c.recorder)
}

func (c *CompositionRoot) CreateCompletePackingCommandHandler() commands.CompletePackingCommandHandler {
	return commands.NewCompletePackingCommandHandler(c.uow(), c.recorder)
}

func (c *CompositionRoot) CreateCancelStaleTasksCommandHandler() commands.CancelStaleTasksCommandHandler {
	return commands.NewCancelStaleTasksCommandHandler(c.taskUoW())
}

func (c *CompositionRoot) CreateGetFulfillmentStatusQueryHandler() queries.GetFulfillmentStatusQueryHandler {
	return queries.NewGetFulfillmentStatusQueryHandler(&c.uowFactory, c.gormDB)
}

func (c *CompositionRoot) CreateGetEventsSinceQueryHandler() queries.GetEventsSinceQueryHandler {
	return queries.NewGetEventsSinceQueryHandler(c.gormDB)
}

// CreateServer wires all handlers into the HTTP server.
func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateGeneratePickListCommandHandler(),
		c.CreateConfirmPickItemCommandHandler(),
		c.CreateConfirmAllPickItemsCommandHandler(),
		c.CreateLookupBinCommandHandler(),
		c.CreateVerifyBinItemCommandHandler(),
		c.CreateCompleteBinCommandHandler(),
		c.CreateCompletePackingFromBinCommandHandler(),
		c.CreateGeneratePackListCommandHandler(),
		c.CreateVerifyPackItemCommandHandler(),
		c.CreateCompletePackingCommandHandler(),
		c.CreateGetFulfillmentStatusQueryHandler(),
		c.CreateGetEventsSinceQueryHandler(),
		c.EventStream(),
	)
}

// CreateJobManager wires the scheduled jobs.
func (c *CompositionRoot) CreateJobManager(staleThreshold time.Duration) *jobs.JobManager {
	return jobs.NewJobManager(c.CreateCancelStaleTasksCommandHandler(), staleThreshold, c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncTaskUoWFactory func() commands.TaskUoW

func (f FuncTaskUoWFactory) Create() commands.TaskUoW {
	return f()
}

type FuncBinUoWFactory func() commands.BinUoW

func (f FuncBinUoWFactory) Create() commands.BinUoW {
	return f()
}
