package fulfillmentevent

// Payload is the typed content of a fulfillment event. Each event type has
// exactly one payload struct; the compiler keeps payload shape and event
// type in lockstep via the EventType method.
type Payload interface {
	EventType() EventType
}

// OrderProcessingPayload accompanies order:processing.
type OrderProcessingPayload struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

// EventType implements Payload.
func (OrderProcessingPayload) EventType() EventType { return TypeOrderProcessing }

// PicklistGeneratedPayload accompanies picklist:generated.
type PicklistGeneratedPayload struct {
	TaskID     string `json:"taskId"`
	TaskNumber string `json:"taskNumber"`
	TotalItems int    `json:"totalItems"`
}

// EventType implements Payload.
func (PicklistGeneratedPayload) EventType() EventType { return TypePicklistGenerated }

// PicklistItemPickedPayload accompanies picklist:item_picked.
type PicklistItemPickedPayload struct {
	TaskID            string `json:"taskId"`
	TaskItemID        string `json:"taskItemId"`
	SKU               string `json:"sku"`
	QuantityRequired  int    `json:"quantityRequired"`
	QuantityCompleted int    `json:"quantityCompleted"`
	Short             bool   `json:"short"`
	CompletedItems    int    `json:"completedItems"`
	TotalItems        int    `json:"totalItems"`
}

// EventType implements Payload.
func (PicklistItemPickedPayload) EventType() EventType { return TypePicklistItemPicked }

// PicklistCompletedPayload accompanies picklist:completed. The bin identity
// is included when completion staged a new pick bin.
type PicklistCompletedPayload struct {
	TaskID     string `json:"taskId"`
	TaskNumber string `json:"taskNumber"`
	ShortItems int    `json:"shortItems"`

	PickBinID      string `json:"pickBinId,omitempty"`
	PickBinNumber  string `json:"pickBinNumber,omitempty"`
	PickBinBarcode string `json:"pickBinBarcode,omitempty"`
}

// EventType implements Payload.
func (PicklistCompletedPayload) EventType() EventType { return TypePicklistCompleted }

// OrderPickedPayload accompanies order:picked.
type OrderPickedPayload struct {
	OrderNumber string `json:"orderNumber"`
	PickBinID   string `json:"pickBinId,omitempty"`
}

// EventType implements Payload.
func (OrderPickedPayload) EventType() EventType { return TypeOrderPicked }

// PickBinItemVerifiedPayload accompanies pickbin:item_verified.
type PickBinItemVerifiedPayload struct {
	PickBinID   string `json:"pickBinId"`
	SKU         string `json:"sku"`
	VerifiedQty int    `json:"verifiedQty"`
	Quantity    int    `json:"quantity"`
	AllVerified bool   `json:"allVerified"`
}

// EventType implements Payload.
func (PickBinItemVerifiedPayload) EventType() EventType { return TypePickBinItemVerified }

// PickBinCompletedPayload accompanies pickbin:completed.
type PickBinCompletedPayload struct {
	PickBinID     string `json:"pickBinId"`
	PickBinNumber string `json:"pickBinNumber"`
	PackedBy      string `json:"packedBy,omitempty"`
}

// EventType implements Payload.
func (PickBinCompletedPayload) EventType() EventType { return TypePickBinCompleted }

// PackingStartedPayload accompanies packing:started.
type PackingStartedPayload struct {
	TaskID     string `json:"taskId"`
	TaskNumber string `json:"taskNumber"`
	TotalItems int    `json:"totalItems"`
}

// EventType implements Payload.
func (PackingStartedPayload) EventType() EventType { return TypePackingStarted }

// PackingItemVerifiedPayload accompanies packing:item_verified.
type PackingItemVerifiedPayload struct {
	TaskID      string `json:"taskId"`
	TaskItemID  string `json:"taskItemId"`
	SKU         string `json:"sku"`
	AllVerified bool   `json:"allVerified"`
}

// EventType implements Payload.
func (PackingItemVerifiedPayload) EventType() EventType { return TypePackingItemVerified }

// PackingCompletedPayload accompanies packing:completed. FromBin records
// which of the two pack flows finished the order.
type PackingCompletedPayload struct {
	TaskID     string `json:"taskId"`
	Weight     string `json:"weight"`
	WeightUnit string `json:"weightUnit"`
	Dimensions string `json:"dimensions,omitempty"`
	FromBin    bool   `json:"fromBin"`
	PickBinID  string `json:"pickBinId,omitempty"`
}

// EventType implements Payload.
func (PackingCompletedPayload) EventType() EventType { return TypePackingCompleted }

// OrderPackedPayload accompanies order:packed.
type OrderPackedPayload struct {
	OrderNumber string `json:"orderNumber"`
}

// EventType implements Payload.
func (OrderPackedPayload) EventType() EventType { return TypeOrderPacked }
