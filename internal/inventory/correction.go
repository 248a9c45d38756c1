package inventory

import (
	"time"

	"tatausaha/internal/core/entity"
	"tatausaha/internal/core/id"
)

// CorrectionRequest asks to fix one past ledger entry. NewItem may be empty
// to keep the original entry's item.
type CorrectionRequest struct {
	EntryID     id.ID  `json:"entryId" binding:"required"`
	NewItem     string `json:"newItem"`
	NewQuantity int    `json:"newQuantity"`
	Reason      string `json:"reason" binding:"required"`
}

// CorrectionResult is the outcome of a correction: two new ledger entries
// and the items whose stock they touched.
type CorrectionResult struct {
	Reversing    entity.LedgerEntry `json:"reversing"`
	Correcting   entity.LedgerEntry `json:"correcting"`
	UpdatedItems []entity.Item      `json:"updatedItems"`
}

// computeCorrection builds the correction pair without touching any state.
//
// The reversing entry cancels the original change on the old item; the
// correcting entry applies the intended quantity to the new item. The two
// entries take adjacent IDs (pairID, pairID+1) so the pair stays together
// in ID order. When old and new item are the same, both deltas land on
// that one item and a single updated record is returned.
func computeCorrection(original entity.LedgerEntry, oldItem, newItem entity.Item, req CorrectionRequest, pairID id.ID, now time.Time, actor string) CorrectionResult {
	reversingChange := -original.Change

	reversing := entity.LedgerEntry{
		ID:     pairID,
		Date:   now,
		Item:   oldItem.Name,
		Change: reversingChange,
		Reason: ReversalReason(req.Reason, original.ID),
		Actor:  actor,
	}
	correcting := entity.LedgerEntry{
		ID:     pairID + 1,
		Date:   now,
		Item:   newItem.Name,
		Change: req.NewQuantity,
		Reason: CorrectionReason(req.Reason, original.ID),
		Actor:  actor,
	}

	updatedOld := oldItem
	updatedOld.Stock += reversingChange

	var updated []entity.Item
	if newItem.Name == oldItem.Name {
		updatedOld.Stock += req.NewQuantity
		updated = []entity.Item{updatedOld}
	} else {
		updatedNew := newItem
		updatedNew.Stock += req.NewQuantity
		updated = []entity.Item{updatedOld, updatedNew}
	}

	return CorrectionResult{
		Reversing:    reversing,
		Correcting:   correcting,
		UpdatedItems: updated,
	}
}
