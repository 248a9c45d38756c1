package entity

import (
	"fmt"
	"time"

	"tatausaha/internal/core/id"
)

// LedgerEntry is one append-only stock movement. Entries are never updated
// in place; mistakes are fixed by appending a reversing/correcting pair.
type LedgerEntry struct {
	ID     id.ID     `db:"id" json:"id"`
	Date   time.Time `db:"date" json:"date"`
	Item   string    `db:"item" json:"item"`
	Change int       `db:"change" json:"change"`
	Reason string    `db:"reason" json:"reason"`
	Actor  string    `db:"user" json:"user"`
}

// FormatChange renders a ledger delta for display: positive changes carry
// an explicit plus sign.
func FormatChange(change int) string {
	if change > 0 {
		return fmt.Sprintf("+%d", change)
	}
	return fmt.Sprintf("%d", change)
}
