// Package inventory manages the item catalog and the append-only stock
// ledger. Stock is never edited in place: every change to an item's count
// is a ledger entry, and mistakes are fixed by the correction protocol
// rather than by rewriting history.
package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tatausaha/internal/core/entity"
	"tatausaha/internal/core/id"
)

// Ledger reason strings. These are part of the stored data: reports filter
// on them and the correction protocol parses them back.
const (
	ReasonSale        = "Penjualan"
	ReasonSaleEdit    = "Edit Penjualan"
	ReasonSaleRestore = "Pulihkan Penjualan"
	ReasonManualStock = "Tambah Stok Manual"

	reversalPrefix   = "Koreksi (Batal)"
	correctionPrefix = "Koreksi (Benar)"
)

// ReasonSaleDelete builds the reason recorded when a sale is moved to the
// trash and its stock is returned.
func ReasonSaleDelete(saleID id.ID) string {
	return fmt.Sprintf("Hapus Penjualan (ID: %d)", saleID)
}

// ReversalReason builds the reason of a reversing entry, carrying the
// user's explanation and a reference to the entry being cancelled.
func ReversalReason(explanation string, refID id.ID) string {
	return fmt.Sprintf("%s: %s (Ref ID: %d)", reversalPrefix, explanation, refID)
}

// CorrectionReason builds the reason of a correcting entry.
func CorrectionReason(explanation string, refID id.ID) string {
	return fmt.Sprintf("%s: %s (Ref ID: %d)", correctionPrefix, explanation, refID)
}

var refIDPattern = regexp.MustCompile(`\(Ref ID: (\d+)\)`)

// ParseRefID extracts the referenced entry ID from a correction pair
// reason. ok is false for ordinary entries.
func ParseRefID(reason string) (id.ID, bool) {
	m := refIDPattern.FindStringSubmatch(reason)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsReversal reports whether the entry cancels another entry.
func IsReversal(e entity.LedgerEntry) bool {
	return strings.Contains(e.Reason, reversalPrefix)
}

// CorrectedIDs returns the set of entry IDs that already have a correction
// pair pointing at them.
func CorrectedIDs(entries []entity.LedgerEntry) map[id.ID]bool {
	out := make(map[id.ID]bool)
	for _, e := range entries {
		if ref, ok := ParseRefID(e.Reason); ok {
			out[ref] = true
		}
	}
	return out
}

// Correctable reports whether the entry may still be corrected. Reversing
// entries and entries that were already corrected are final.
func Correctable(entries []entity.LedgerEntry, e entity.LedgerEntry) bool {
	if IsReversal(e) {
		return false
	}
	return !CorrectedIDs(entries)[e.ID]
}

// Sum adds up all ledger changes for one item. It must equal the item's
// current stock; a mismatch means a write was lost somewhere.
func Sum(entries []entity.LedgerEntry, item string) int {
	total := 0
	for _, e := range entries {
		if e.Item == item {
			total += e.Change
		}
	}
	return total
}
