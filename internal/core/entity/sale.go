package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"tatausaha/internal/core/id"
)

// Sale statuses.
const (
	SaleStatusPending = "pending"
	SaleStatusPaid    = "paid"
)

// Sale is one sales transaction. Total is always Quantity * Price; it is
// stored denormalized for reporting but recomputed on every write.
type Sale struct {
	ID       id.ID           `db:"id" json:"id"`
	Item     string          `db:"item" json:"item"`
	Quantity int             `db:"quantity" json:"quantity"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Total    decimal.Decimal `db:"total" json:"total"`
	Date     time.Time       `db:"date" json:"date"`
	Status   string          `db:"status" json:"status"`
}

// TrashRecord is a soft-deleted sale. Restoring moves it back to the sales
// table verbatim; the deletion metadata is dropped on restore.
type TrashRecord struct {
	Sale

	DeletedFrom string    `db:"deleted_from" json:"deletedFrom"`
	DeletedBy   string    `db:"deleted_by" json:"deletedBy"`
	DeletedAt   time.Time `db:"deleted_at" json:"deletedAt"`
}
