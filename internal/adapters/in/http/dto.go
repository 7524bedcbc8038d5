package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickbin"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ConfirmPickItemRequest confirms one pick line. A nil quantity confirms the
// full required amount.
type ConfirmPickItemRequest struct {
	Quantity *int `json:"quantity,omitempty"`
	Scanned  bool `json:"scanned"`
}

// LookupBinRequest resolves a tote barcode at a pack station.
type LookupBinRequest struct {
	Barcode string `json:"barcode"`
}

// VerifyBinItemRequest counts a scan against a bin line. A nil quantity
// counts one unit.
type VerifyBinItemRequest struct {
	Code     string `json:"code"`
	Quantity *int   `json:"quantity,omitempty"`
}

// DimensionsRequest carries the measured outer dimensions of a package.
type DimensionsRequest struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Unit   string          `json:"unit,omitempty"`
}

// CompletePackingRequest finishes packing with the captured measurements.
type CompletePackingRequest struct {
	Weight     decimal.Decimal    `json:"weight"`
	WeightUnit string             `json:"weightUnit,omitempty"`
	Dimensions *DimensionsRequest `json:"dimensions,omitempty"`
}

// PackFromBinRequest finishes packing an order straight from a verified bin.
type PackFromBinRequest struct {
	BinID      string             `json:"binId"`
	Weight     decimal.Decimal    `json:"weight"`
	WeightUnit string             `json:"weightUnit,omitempty"`
	Dimensions *DimensionsRequest `json:"dimensions,omitempty"`
}

func (r *DimensionsRequest) toInput() *commands.DimensionsInput {
	if r == nil {
		return nil
	}
	return &commands.DimensionsInput{
		Length: r.Length,
		Width:  r.Width,
		Height: r.Height,
		Unit:   r.Unit,
	}
}

// Task is the JSON shape of a pick or pack task.
type Task struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"orderId"`
	Number           string     `json:"number"`
	Kind             string     `json:"kind"`
	Status           string     `json:"status"`
	TotalItems       int        `json:"totalItems"`
	CompletedItems   int        `json:"completedItems"`
	ShortItems       int        `json:"shortItems"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	PackedWeight     string     `json:"packedWeight,omitempty"`
	PackedDimensions string     `json:"packedDimensions,omitempty"`
	Items            []TaskItem `json:"items"`
}

// TaskItem is the JSON shape of one task line.
type TaskItem struct {
	ID                string     `json:"id"`
	OrderItemID       string     `json:"orderItemId"`
	SKU               string     `json:"sku"`
	Description       string     `json:"description,omitempty"`
	UPC               string     `json:"upc,omitempty"`
	Barcode           string     `json:"barcode,omitempty"`
	LocationName      string     `json:"locationName,omitempty"`
	LocationBarcode   string     `json:"locationBarcode,omitempty"`
	Sequence          int        `json:"sequence"`
	Status            string     `json:"status"`
	QuantityRequired  int        `json:"quantityRequired"`
	QuantityCompleted int        `json:"quantityCompleted"`
	Scanned           bool       `json:"scanned"`
	CompletedBy       string     `json:"completedBy,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

// PickBin is the JSON shape of a staging tote.
type PickBin struct {
	ID         string        `json:"id"`
	OrderID    string        `json:"orderId"`
	PickTaskID string        `json:"pickTaskId"`
	Number     string        `json:"number"`
	Barcode    string        `json:"barcode"`
	Status     string        `json:"status"`
	PickedBy   string        `json:"pickedBy,omitempty"`
	PickedAt   time.Time     `json:"pickedAt"`
	PackedBy   string        `json:"packedBy,omitempty"`
	PackedAt   *time.Time    `json:"packedAt,omitempty"`
	Items      []PickBinItem `json:"items"`
}

// PickBinItem is the JSON shape of one bin line.
type PickBinItem struct {
	ID               string     `json:"id"`
	SKU              string     `json:"sku"`
	ProductVariantID string     `json:"productVariantId"`
	UPC              string     `json:"upc,omitempty"`
	Barcode          string     `json:"barcode,omitempty"`
	Quantity         int        `json:"quantity"`
	VerifiedQty      int        `json:"verifiedQty"`
	VerifiedAt       *time.Time `json:"verifiedAt,omitempty"`
}

// Order is the JSON shape of the order snapshot.
type Order struct {
	ID     string      `json:"id"`
	Number string      `json:"number"`
	Status string      `json:"status"`
	Items  []OrderItem `json:"items"`
}

// OrderItem is the JSON shape of one sellable order line.
type OrderItem struct {
	ID          string `json:"id"`
	SKU         string `json:"sku"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	PickedQty   int    `json:"pickedQty"`
	UPC         string `json:"upc,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
}

// ConfirmPickItemResponse reports one confirmation and its fallout.
type ConfirmPickItemResponse struct {
	Task          Task      `json:"task"`
	Item          TaskItem  `json:"item"`
	TaskCompleted bool      `json:"taskCompleted"`
	Bin           *PickBin  `json:"bin,omitempty"`
}

// ConfirmAllPickItemsResponse reports a bulk confirmation.
type ConfirmAllPickItemsResponse struct {
	Confirmed     int      `json:"confirmed"`
	TaskCompleted bool     `json:"taskCompleted"`
	Bin           *PickBin `json:"bin,omitempty"`
}

// LookupBinResponse reports a tote lookup and whether this scan claimed it.
type LookupBinResponse struct {
	Bin     PickBin `json:"bin"`
	Order   Order   `json:"order"`
	Claimed bool    `json:"claimed"`
}

// VerifyBinItemResponse reports one counted bin scan.
type VerifyBinItemResponse struct {
	Verified    bool         `json:"verified"`
	AllVerified bool         `json:"allVerified"`
	Item        *PickBinItem `json:"item,omitempty"`
}

// VerifyPackItemResponse reports one pack line verification.
type VerifyPackItemResponse struct {
	Applied     bool      `json:"applied"`
	AllVerified bool      `json:"allVerified"`
	Task        Task      `json:"task"`
	Item        *TaskItem `json:"item,omitempty"`
}

// PackFromBinResponse reports a bin-based pack completion.
type PackFromBinResponse struct {
	Bin      PickBin `json:"bin"`
	PackTask Task    `json:"packTask"`
}

// StatusResponse is the full fulfillment picture of one order.
type StatusResponse struct {
	Order        Order                          `json:"order"`
	PickTask     *Task                          `json:"pickTask,omitempty"`
	PackTask     *Task                          `json:"packTask,omitempty"`
	ActiveBin    *PickBin                       `json:"activeBin,omitempty"`
	ScanLookup   services.ScanLookup            `json:"scanLookup"`
	RecentEvents []fulfillmentevent.Record      `json:"recentEvents"`
}

// CancelStaleTasksResponse reports how many abandoned tasks were cancelled.
type CancelStaleTasksResponse struct {
	Cancelled int `json:"cancelled"`
}

func taskToDTO(t *task.Task) Task {
	items := make([]TaskItem, 0, len(t.Items()))
	for _, item := range t.Items() {
		items = append(items, taskItemToDTO(item))
	}

	dto := Task{
		ID:             t.ID().String(),
		OrderID:        t.OrderID().String(),
		Number:         t.Number(),
		Kind:           t.Kind().String(),
		Status:         t.Status().String(),
		TotalItems:     t.TotalItems(),
		CompletedItems: t.CompletedItems(),
		ShortItems:     t.ShortItems(),
		StartedAt:      t.StartedAt(),
		CompletedAt:    t.CompletedAt(),
		Items:          items,
	}
	if w := t.PackedWeight(); w != nil {
		dto.PackedWeight = w.String()
	}
	if d := t.PackedDimensions(); d != nil {
		dto.PackedDimensions = d.String()
	}
	return dto
}

func optionalTaskToDTO(t *task.Task) *Task {
	if t == nil {
		return nil
	}
	dto := taskToDTO(t)
	return &dto
}

func taskItemToDTO(item *task.Item) TaskItem {
	return TaskItem{
		ID:                item.ID().String(),
		OrderItemID:       item.OrderItemID().String(),
		SKU:               item.SKU(),
		Description:       item.Description(),
		UPC:               item.UPC(),
		Barcode:           item.Barcode(),
		LocationName:      item.LocationName(),
		LocationBarcode:   item.LocationBarcode(),
		Sequence:          item.Sequence(),
		Status:            item.Status().String(),
		QuantityRequired:  item.QuantityRequired(),
		QuantityCompleted: item.QuantityCompleted(),
		Scanned:           item.Scanned(),
		CompletedBy:       item.CompletedBy(),
		CompletedAt:       item.CompletedAt(),
	}
}

func binToDTO(bin *pickbin.PickBin) PickBin {
	items := make([]PickBinItem, 0, len(bin.Items()))
	for _, item := range bin.Items() {
		items = append(items, binItemToDTO(item))
	}

	return PickBin{
		ID:         bin.ID().String(),
		OrderID:    bin.OrderID().String(),
		PickTaskID: bin.PickTaskID().String(),
		Number:     bin.Number(),
		Barcode:    bin.Barcode(),
		Status:     bin.Status().String(),
		PickedBy:   bin.PickedBy(),
		PickedAt:   bin.PickedAt(),
		PackedBy:   bin.PackedBy(),
		PackedAt:   bin.PackedAt(),
		Items:      items,
	}
}

func optionalBinToDTO(bin *pickbin.PickBin) *PickBin {
	if bin == nil {
		return nil
	}
	dto := binToDTO(bin)
	return &dto
}

func binItemToDTO(item *pickbin.Item) PickBinItem {
	return PickBinItem{
		ID:               item.ID().String(),
		SKU:              item.SKU(),
		ProductVariantID: item.ProductVariantID().String(),
		UPC:              item.UPC(),
		Barcode:          item.Barcode(),
		Quantity:         item.Quantity(),
		VerifiedQty:      item.VerifiedQty(),
		VerifiedAt:       item.VerifiedAt(),
	}
}

func orderToDTO(ord *order.Order) Order {
	items := make([]OrderItem, 0, len(ord.Items))
	for _, item := range ord.Items {
		items = append(items, OrderItem{
			ID:          item.ID.String(),
			SKU:         item.SKU,
			Description: item.Description,
			Quantity:    item.Quantity,
			PickedQty:   item.PickedQty,
			UPC:         item.UPC,
			Barcode:     item.Barcode,
		})
	}

	return Order{
		ID:     ord.ID.String(),
		Number: ord.Number,
		Status: ord.Status.String(),
		Items:  items,
	}
}

func statusToDTO(response queries.GetFulfillmentStatusQueryResponse) StatusResponse {
	return StatusResponse{
		Order:        orderToDTO(response.Order),
		PickTask:     optionalTaskToDTO(response.PickTask),
		PackTask:     optionalTaskToDTO(response.PackTask),
		ActiveBin:    optionalBinToDTO(response.ActiveBin),
		ScanLookup:   response.ScanLookup,
		RecentEvents: response.RecentEvents,
	}
}
