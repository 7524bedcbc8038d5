package services

import (
	"strings"

	"fulfillment/internal/core/domain/model/task"
)

// ScanLookup is the on-demand barcode projection for an order's active work.
// It is rebuilt on every status query and never persisted, so it is always
// consistent with current task state.
//
// Items is the keyed-by-item view used for display; Barcodes is the reverse
// code->item index enabling O(1) scan resolution on the client. Finished
// lines stay visible in Items but are excluded from Barcodes, so a scanner
// never re-offers a finished line.
type ScanLookup struct {
	Items    map[string]ScanLookupItem `json:"items"`
	Barcodes map[string]ScanTarget     `json:"barcodes"`
}

// ScanLookupItem describes one task line with every acceptable code.
type ScanLookupItem struct {
	TaskItemID        string   `json:"taskItemId"`
	TaskID            string   `json:"taskId"`
	Kind              string   `json:"kind"`
	SKU               string   `json:"sku"`
	Description       string   `json:"description,omitempty"`
	Codes             []string `json:"codes"`
	LocationName      string   `json:"locationName,omitempty"`
	LocationBarcode   string   `json:"locationBarcode,omitempty"`
	Sequence          int      `json:"sequence"`
	QuantityRequired  int      `json:"quantityRequired"`
	QuantityCompleted int      `json:"quantityCompleted"`
	Status            string   `json:"status"`
}

// ScanTarget is the resolution of one scannable code.
type ScanTarget struct {
	TaskItemID string `json:"taskItemId"`
	Kind       string `json:"kind"`
}

// ScanLookupBuilder derives ScanLookup projections from task aggregates.
type ScanLookupBuilder struct{}

// NewScanLookupBuilder creates a ScanLookupBuilder.
func NewScanLookupBuilder() ScanLookupBuilder {
	return ScanLookupBuilder{}
}

// Build projects the active pick and pack tasks into a scan lookup.
// Either task may be nil when the order has no active work of that kind.
//
// Every non-empty code of a line is acceptable: UPC, internal barcode and
// SKU, plus the source-location barcode for pick lines. Codes are normalized
// to upper case; clients should normalize scans the same way.
func (b ScanLookupBuilder) Build(pickTask, packTask *task.Task) ScanLookup {
	lookup := ScanLookup{
		Items:    make(map[string]ScanLookupItem),
		Barcodes: make(map[string]ScanTarget),
	}

	for _, t := range []*task.Task{pickTask, packTask} {
		if t == nil {
			continue
		}
		for _, item := range t.Items() {
			entry := ScanLookupItem{
				TaskItemID:        item.ID().String(),
				TaskID:            t.ID().String(),
				Kind:              t.Kind().String(),
				SKU:               item.SKU(),
				Description:       item.Description(),
				Codes:             itemCodes(item),
				LocationName:      item.LocationName(),
				LocationBarcode:   item.LocationBarcode(),
				Sequence:          item.Sequence(),
				QuantityRequired:  item.QuantityRequired(),
				QuantityCompleted: item.QuantityCompleted(),
				Status:            item.Status().String(),
			}
			lookup.Items[entry.TaskItemID] = entry

			if item.Status().IsFinished() {
				continue
			}
			target := ScanTarget{TaskItemID: entry.TaskItemID, Kind: entry.Kind}
			for _, code := range entry.Codes {
				lookup.Barcodes[code] = target
			}
			if t.Kind() == task.KindPick && item.LocationBarcode() != "" {
				lookup.Barcodes[normalizeCode(item.LocationBarcode())] = target
			}
		}
	}

	return lookup
}

func itemCodes(item *task.Item) []string {
	codes := make([]string, 0, 3)
	for _, code := range []string{item.UPC(), item.Barcode(), item.SKU()} {
		if code == "" {
			continue
		}
		normalized := normalizeCode(code)
		if !containsCode(codes, normalized) {
			codes = append(codes, normalized)
		}
	}
	return codes
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
