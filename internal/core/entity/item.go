package entity

import (
	"github.com/shopspring/decimal"

	"tatausaha/internal/core/id"
)

// Item is one inventory catalog entry. The item name is the natural key:
// stock movements and ledger entries reference items by name.
type Item struct {
	ID    id.ID           `db:"id" json:"id"`
	Name  string          `db:"nama" json:"nama"`
	Stock int             `db:"stok" json:"stok"`
	Price decimal.Decimal `db:"harga" json:"harga"`
}
