package dto

import (
	"tatausaha/internal/core/entity"
	"tatausaha/internal/inventory"
)

// lowStockThreshold marks items that need restocking in the listing.
const lowStockThreshold = 10

// ItemResponse is one catalog item with its low-stock flag.
type ItemResponse struct {
	entity.Item
	LowStock bool `json:"lowStock"`
}

// FromItems builds responses for the item catalog.
func FromItems(items []entity.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ItemResponse{Item: item, LowStock: item.Stock <= lowStockThreshold}
	}
	return out
}

// LedgerEntryResponse is one ledger entry with its signed change string and
// whether the correction protocol still accepts it.
type LedgerEntryResponse struct {
	entity.LedgerEntry
	ChangeDisplay string `json:"changeDisplay"`
	Correctable   bool   `json:"correctable"`
}

// FromLedger builds responses for the full ledger. Correctability is
// evaluated against the complete entry list, so it must not be called with
// a filtered slice.
func FromLedger(entries []entity.LedgerEntry) []LedgerEntryResponse {
	corrected := inventory.CorrectedIDs(entries)
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			LedgerEntry:   e,
			ChangeDisplay: entity.FormatChange(e.Change),
			Correctable:   !corrected[e.ID] && !inventory.IsReversal(e),
		}
	}
	return out
}
