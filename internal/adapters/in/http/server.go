package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// userIDHeader carries the warehouse worker identity set by the mobile
// scanner app.
const userIDHeader = "X-User-Id"

// EventStream delivers committed fulfillment events for one order as they
// happen. The cancel function must be called when the listener goes away.
type EventStream interface {
	Subscribe(orderID string) (<-chan fulfillmentevent.Record, func())
}

// Server handles the fulfillment HTTP API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	generatePickListHandler       commands.GeneratePickListCommandHandler
	confirmPickItemHandler        commands.ConfirmPickItemCommandHandler
	confirmAllPickItemsHandler    commands.ConfirmAllPickItemsCommandHandler
	lookupBinHandler              commands.LookupBinCommandHandler
	verifyBinItemHandler          commands.VerifyBinItemCommandHandler
	completeBinHandler            commands.CompleteBinCommandHandler
	completePackingFromBinHandler commands.CompletePackingFromBinCommandHandler
	generatePackListHandler       commands.GeneratePackListCommandHandler
	verifyPackItemHandler         commands.VerifyPackItemCommandHandler
	completePackingHandler        commands.CompletePackingCommandHandler

	// Query handlers
	getStatusHandler      queries.GetFulfillmentStatusQueryHandler
	getEventsSinceHandler queries.GetEventsSinceQueryHandler

	stream EventStream
}

// NewServer creates a new HTTP server with the required command and query
// handlers and the live event stream backing the SSE endpoint.
func NewServer(
	generatePickListHandler commands.GeneratePickListCommandHandler,
	confirmPickItemHandler commands.ConfirmPickItemCommandHandler,
	confirmAllPickItemsHandler commands.ConfirmAllPickItemsCommandHandler,
	lookupBinHandler commands.LookupBinCommandHandler,
	verifyBinItemHandler commands.VerifyBinItemCommandHandler,
	completeBinHandler commands.CompleteBinCommandHandler,
	completePackingFromBinHandler commands.CompletePackingFromBinCommandHandler,
	generatePackListHandler commands.GeneratePackListCommandHandler,
	verifyPackItemHandler commands.VerifyPackItemCommandHandler,
	completePackingHandler commands.CompletePackingCommandHandler,
	getStatusHandler queries.GetFulfillmentStatusQueryHandler,
	getEventsSinceHandler queries.GetEventsSinceQueryHandler,
	stream EventStream,
) *Server {
	return &Server{
		generatePickListHandler:       generatePickListHandler,
		confirmPickItemHandler:        confirmPickItemHandler,
		confirmAllPickItemsHandler:    confirmAllPickItemsHandler,
		lookupBinHandler:              lookupBinHandler,
		verifyBinItemHandler:          verifyBinItemHandler,
		completeBinHandler:            completeBinHandler,
		completePackingFromBinHandler: completePackingFromBinHandler,
		generatePackListHandler:       generatePackListHandler,
		verifyPackItemHandler:         verifyPackItemHandler,
		completePackingHandler:        completePackingHandler,
		getStatusHandler:              getStatusHandler,
		getEventsSinceHandler:         getEventsSinceHandler,
		stream:                        stream,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/orders/:orderId/pick-list", s.GeneratePickList)
	v1.POST("/pick-tasks/items/:itemId/confirm", s.ConfirmPickItem)
	v1.POST("/orders/:orderId/pick-list/confirm-all", s.ConfirmAllPickItems)

	v1.POST("/pick-bins/lookup", s.LookupBin)
	v1.POST("/pick-bins/:binId/verify", s.VerifyBinItem)
	v1.POST("/pick-bins/:binId/complete", s.CompleteBin)

	v1.POST("/orders/:orderId/pack-from-bin", s.CompletePackingFromBin)
	v1.POST("/orders/:orderId/pack-list", s.GeneratePackList)
	v1.POST("/pack-tasks/items/:itemId/verify", s.VerifyPackItem)
	v1.POST("/pack-tasks/:taskId/complete", s.CompletePacking)

	v1.GET("/orders/:orderId/status", s.GetStatus)
	v1.GET("/orders/:orderId/events", s.GetEvents)
	v1.GET("/orders/:orderId/events/stream", s.StreamEvents)
}

// GeneratePickList handles POST /api/v1/orders/:orderId/pick-list - generates
// the pick task for an allocated order.
func (s *Server) GeneratePickList(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewGeneratePickListCommand(orderID, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	pickTask, err := s.generatePickListHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, taskToDTO(pickTask))
}

// ConfirmPickItem handles POST /api/v1/pick-tasks/items/:itemId/confirm -
// confirms one pick line, possibly short.
func (s *Server) ConfirmPickItem(ctx echo.Context) error {
	itemID, err := parseUUIDParam(ctx, "itemId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var req ConfirmPickItemRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	cmd, err := commands.NewConfirmPickItemCommand(itemID, req.Quantity, req.Scanned, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.confirmPickItemHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ConfirmPickItemResponse{
		Task:          taskToDTO(result.Task),
		Item:          taskItemToDTO(result.Item),
		TaskCompleted: result.TaskCompleted,
		Bin:           optionalBinToDTO(result.Bin),
	})
}

// ConfirmAllPickItems handles POST /api/v1/orders/:orderId/pick-list/confirm-all -
// confirms every remaining pending line of the order's active pick task at
// full quantity.
func (s *Server) ConfirmAllPickItems(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewConfirmAllPickItemsCommand(orderID, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.confirmAllPickItemsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ConfirmAllPickItemsResponse{
		Confirmed:     result.Confirmed,
		TaskCompleted: result.TaskCompleted,
		Bin:           optionalBinToDTO(result.Bin),
	})
}

// LookupBin handles POST /api/v1/pick-bins/lookup - resolves a tote barcode
// scanned at a pack station and claims the bin for packing.
func (s *Server) LookupBin(ctx echo.Context) error {
	var req LookupBinRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	cmd, err := commands.NewLookupBinCommand(req.Barcode, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.lookupBinHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, LookupBinResponse{
		Bin:     binToDTO(result.Bin),
		Order:   orderToDTO(result.Order),
		Claimed: result.Claimed,
	})
}

// VerifyBinItem handles POST /api/v1/pick-bins/:binId/verify - counts one
// scanned code against the bin's contents.
func (s *Server) VerifyBinItem(ctx echo.Context) error {
	binID, err := parseUUIDParam(ctx, "binId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var req VerifyBinItemRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	cmd, err := commands.NewVerifyBinItemCommand(binID, req.Code, req.Quantity, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.verifyBinItemHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := VerifyBinItemResponse{
		Verified:    result.Verified,
		AllVerified: result.AllVerified,
	}
	if result.Item != nil {
		item := binItemToDTO(result.Item)
		response.Item = &item
	}

	return ctx.JSON(http.StatusOK, response)
}

// CompleteBin handles POST /api/v1/pick-bins/:binId/complete - closes out a
// fully verified bin.
func (s *Server) CompleteBin(ctx echo.Context) error {
	binID, err := parseUUIDParam(ctx, "binId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCompleteBinCommand(binID, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	bin, err := s.completeBinHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, binToDTO(bin))
}

// CompletePackingFromBin handles POST /api/v1/orders/:orderId/pack-from-bin -
// packs the order straight out of a verified bin, creating and completing the
// pack task in one step.
func (s *Server) CompletePackingFromBin(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var req PackFromBinRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	binID, err := kernel.UUIDFromString(req.BinID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCompletePackingFromBinCommand(
		orderID, binID, req.Weight, req.WeightUnit, req.Dimensions.toInput(), userID(ctx),
	)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.completePackingFromBinHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PackFromBinResponse{
		Bin:      binToDTO(result.Bin),
		PackTask: taskToDTO(result.PackTask),
	})
}

// GeneratePackList handles POST /api/v1/orders/:orderId/pack-list - generates
// a pack task mirroring the picked units of the order.
func (s *Server) GeneratePackList(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewGeneratePackListCommand(orderID, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	packTask, err := s.generatePackListHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, taskToDTO(packTask))
}

// VerifyPackItem handles POST /api/v1/pack-tasks/items/:itemId/verify -
// verifies one pack line by scan.
func (s *Server) VerifyPackItem(ctx echo.Context) error {
	itemID, err := parseUUIDParam(ctx, "itemId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewVerifyPackItemCommand(itemID, userID(ctx))
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.verifyPackItemHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := VerifyPackItemResponse{
		Applied:     result.Applied,
		AllVerified: result.AllVerified,
		Task:        taskToDTO(result.Task),
	}
	if result.Item != nil {
		item := taskItemToDTO(result.Item)
		response.Item = &item
	}

	return ctx.JSON(http.StatusOK, response)
}

// CompletePacking handles POST /api/v1/pack-tasks/:taskId/complete - finishes
// the pack task with the captured weight and dimensions.
func (s *Server) CompletePacking(ctx echo.Context) error {
	taskID, err := parseUUIDParam(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var req CompletePackingRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	cmd, err := commands.NewCompletePackingCommand(
		taskID, req.Weight, req.WeightUnit, req.Dimensions.toInput(), userID(ctx),
	)
	if err != nil {
		return badRequest(ctx, err)
	}

	packTask, err := s.completePackingHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, taskToDTO(packTask))
}

// GetStatus handles GET /api/v1/orders/:orderId/status - returns the full
// fulfillment picture of an order.
func (s *Server) GetStatus(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetFulfillmentStatusQuery(orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	response, err := s.getStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, statusToDTO(response))
}

// GetEvents handles GET /api/v1/orders/:orderId/events - replays the order's
// event log. The optional ?after= parameter resumes past a known event ID.
func (s *Server) GetEvents(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetEventsSinceQuery(orderID, ctx.QueryParam("after"))
	if err != nil {
		return badRequest(ctx, err)
	}

	records, err := s.getEventsSinceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, records)
}

// StreamEvents handles GET /api/v1/orders/:orderId/events/stream - pushes the
// order's events over Server-Sent Events until the client disconnects.
// Missed events are recoverable through GET /events with ?after=.
func (s *Server) StreamEvents(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	events, cancel := s.stream.Subscribe(orderID.String())
	defer cancel()

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)
	response.Flush()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case record, open := <-events:
			if !open {
				return nil
			}
			if writeErr := writeSSE(response, record); writeErr != nil {
				return nil
			}
			response.Flush()
		}
	}
}

// writeSSE emits one record as an SSE frame. The event ID doubles as the
// resume cursor for the catch-up endpoint.
func writeSSE(w *echo.Response, record fulfillmentevent.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", record.ID, record.Type, data)
	return err
}

// userID reads the acting worker from the request headers.
func userID(ctx echo.Context) string {
	return ctx.Request().Header.Get(userIDHeader)
}

// parseUUIDParam parses one UUID path parameter.
func parseUUIDParam(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// badRequest answers a request that failed validation before reaching a
// handler.
func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// errorResponse maps use-case errors onto HTTP status codes.
func errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	var unverified *commands.UnverifiedItemsError
	var pending *commands.PendingItemsError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrObjectIsDuplicate),
		errors.Is(err, commands.ErrNoAllocations),
		errors.Is(err, commands.ErrNoPickedItems),
		errors.Is(err, commands.ErrBinAlreadyPacked),
		errors.Is(err, commands.ErrBinCancelled),
		errors.As(err, &unverified),
		errors.As(err, &pending):
		code = http.StatusConflict
	}

	return ctx.JSON(code, Error{
		Code:    code,
		Message: err.Error(),
	})
}
