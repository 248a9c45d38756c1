// Package gateway defines the generic table-level persistence interface and
// the asynchronous dispatcher that feeds it. The backend is a plain
// row-per-record store: no multi-table transactions, every call succeeds or
// fails on its own.
package gateway

import "context"

// Backend table names.
const (
	TableLetters   = "nomor_surat"
	TableInventory = "inventory"
	TableLedger    = "inventory_log"
	TableSales     = "sales"
	TableTrash     = "trash"
	TableSettings  = "app_settings"
	TableAudit     = "sys_audit"
)

// Record is one row in backend form: snake_case column keys.
type Record map[string]any

// Filter matches rows by column equality.
type Filter map[string]any

// Gateway executes single-table operations against the backend store.
type Gateway interface {
	Insert(ctx context.Context, table string, rec Record) error
	Upsert(ctx context.Context, table string, rec Record, conflictKey string) error
	Update(ctx context.Context, table string, key Filter, patch Record) error
	Delete(ctx context.Context, table string, key Filter) error
	Select(ctx context.Context, table string, filter Filter, orderBy string, desc bool) ([]Record, error)
}
