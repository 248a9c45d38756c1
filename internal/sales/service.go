// Package sales coordinates sale records with the inventory: every
// stock-affecting sale action lands as one sale mutation, one item stock
// adjustment and one ledger entry, computed together against the current
// in-memory state.
package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tatausaha/internal/core/appctx"
	"tatausaha/internal/core/apperror"
	"tatausaha/internal/core/entity"
	"tatausaha/internal/core/id"
	"tatausaha/internal/gateway"
	"tatausaha/internal/gateway/audit"
	"tatausaha/internal/inventory"
	"tatausaha/internal/state"
	"tatausaha/pkg/logger"
)

// CreateRequest records a new sale.
type CreateRequest struct {
	Item     string          `json:"item" binding:"required"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// EditRequest updates an existing sale.
type EditRequest struct {
	Item     string          `json:"item" binding:"required"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Service is the sale/stock consistency coordinator.
type Service struct {
	store      *state.Store
	dispatcher *gateway.Dispatcher
	ids        *id.Generator
	audit      *audit.Service
	now        func() time.Time
}

// NewService creates a sales service.
func NewService(store *state.Store, dispatcher *gateway.Dispatcher, ids *id.Generator, auditSvc *audit.Service) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		ids:        ids,
		audit:      auditSvc,
		now:        time.Now,
	}
}

// Sales returns live sale records, newest-first.
func (s *Service) Sales(ctx context.Context) []entity.Sale {
	return s.store.Sales()
}

// Trash returns soft-deleted sales, newest-first.
func (s *Service) Trash(ctx context.Context) []entity.TrashRecord {
	return s.store.Trash()
}

// Create records a sale, deducts stock and appends the ledger entry.
func (s *Service) Create(ctx context.Context, req CreateRequest) (entity.Sale, error) {
	if req.Item == "" {
		return entity.Sale{}, apperror.NewValidation("item is required")
	}
	if req.Quantity <= 0 {
		return entity.Sale{}, apperror.NewInvalidQuantity("quantity must be positive")
	}
	if req.Price.IsNegative() {
		return entity.Sale{}, apperror.NewValidation("price must not be negative")
	}

	now := s.now()
	sale := entity.Sale{
		ID:       s.ids.Next(),
		Item:     req.Item,
		Quantity: req.Quantity,
		Price:    req.Price,
		Total:    req.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Date:     now,
		Status:   entity.SaleStatusPending,
	}
	entry := entity.LedgerEntry{
		ID:     s.ids.Next(),
		Date:   now,
		Item:   req.Item,
		Change: -req.Quantity,
		Reason: inventory.ReasonSale,
		Actor:  appctx.Actor(ctx),
	}

	var (
		updated entity.Item
		err     error
	)
	s.store.Apply(func(snap *state.Snapshot) {
		idx := itemIndex(snap.Items, req.Item)
		if idx < 0 {
			err = apperror.NewItemNotFound(req.Item)
			return
		}
		if req.Quantity > snap.Items[idx].Stock {
			err = apperror.NewInsufficientStock(req.Item, req.Quantity, snap.Items[idx].Stock)
			return
		}

		snap.Items[idx].Stock -= req.Quantity
		updated = snap.Items[idx]
		snap.Sales = append([]entity.Sale{sale}, snap.Sales...)
		snap.Ledger = append([]entity.LedgerEntry{entry}, snap.Ledger...)
	})
	if err != nil {
		return entity.Sale{}, err
	}

	s.dispatcher.Insert(ctx, gateway.TableSales, gateway.Marshal(sale))
	s.dispatcher.Insert(ctx, gateway.TableLedger, gateway.Marshal(entry))
	s.dispatcher.Upsert(ctx, gateway.TableInventory, gateway.Marshal(updated), "nama")

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"item", sale.Item,
		"quantity", sale.Quantity,
		"stok", updated.Stock,
	)
	return sale, nil
}

// Edit updates a sale and adjusts stock by the quantity delta. A larger
// quantity deducts more stock, a smaller one returns the difference.
func (s *Service) Edit(ctx context.Context, saleID id.ID, req EditRequest) (entity.Sale, error) {
	if req.Item == "" {
		return entity.Sale{}, apperror.NewValidation("item is required")
	}
	if req.Quantity <= 0 {
		return entity.Sale{}, apperror.NewInvalidQuantity("quantity must be positive")
	}
	if req.Price.IsNegative() {
		return entity.Sale{}, apperror.NewValidation("price must not be negative")
	}

	now := s.now()

	var (
		sale    entity.Sale
		before  entity.Sale
		entry   entity.LedgerEntry
		updated entity.Item
		delta   int
		err     error
	)
	s.store.Apply(func(snap *state.Snapshot) {
		saleIdx := saleIndex(snap.Sales, saleID)
		if saleIdx < 0 {
			err = apperror.NewNotFound("sale", saleID)
			return
		}
		before = snap.Sales[saleIdx]
		delta = req.Quantity - before.Quantity

		idx := itemIndex(snap.Items, req.Item)
		if idx < 0 {
			err = apperror.NewItemNotFound(req.Item)
			return
		}
		if delta > snap.Items[idx].Stock {
			err = apperror.NewInsufficientStock(req.Item, delta, snap.Items[idx].Stock)
			return
		}

		sale = before
		sale.Item = req.Item
		sale.Quantity = req.Quantity
		sale.Price = req.Price
		sale.Total = req.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
		snap.Sales[saleIdx] = sale

		snap.Items[idx].Stock -= delta
		updated = snap.Items[idx]

		if delta != 0 {
			entry = entity.LedgerEntry{
				ID:     s.ids.Next(),
				Date:   now,
				Item:   req.Item,
				Change: -delta,
				Reason: inventory.ReasonSaleEdit,
				Actor:  appctx.Actor(ctx),
			}
			snap.Ledger = append([]entity.LedgerEntry{entry}, snap.Ledger...)
		}
	})
	if err != nil {
		return entity.Sale{}, err
	}

	s.dispatcher.Update(ctx, gateway.TableSales,
		gateway.Filter{"id": sale.ID}, gateway.Marshal(sale))
	if delta != 0 {
		s.dispatcher.Insert(ctx, gateway.TableLedger, gateway.Marshal(entry))
	}
	s.dispatcher.Upsert(ctx, gateway.TableInventory, gateway.Marshal(updated), "nama")

	s.audit.Log(ctx, "sale", sale.ID, audit.ActionUpdate,
		audit.Diff(gateway.Marshal(before), gateway.Marshal(sale)))

	logger.Info(ctx, "sale edited", "sale_id", sale.ID, "delta", delta)
	return sale, nil
}

// Delete moves a sale to the trash and returns its quantity to stock.
func (s *Service) Delete(ctx context.Context, saleID id.ID) (entity.TrashRecord, error) {
	now := s.now()
	actor := appctx.Actor(ctx)

	var (
		trashed entity.TrashRecord
		entry   entity.LedgerEntry
		updated entity.Item
		touched bool
		err     error
	)
	s.store.Apply(func(snap *state.Snapshot) {
		saleIdx := saleIndex(snap.Sales, saleID)
		if saleIdx < 0 {
			err = apperror.NewNotFound("sale", saleID)
			return
		}
		sale := snap.Sales[saleIdx]

		trashed = entity.TrashRecord{
			Sale:        sale,
			DeletedFrom: gateway.TableSales,
			DeletedBy:   actor,
			DeletedAt:   now,
		}
		snap.Sales = append(snap.Sales[:saleIdx], snap.Sales[saleIdx+1:]...)
		snap.Trash = append([]entity.TrashRecord{trashed}, snap.Trash...)

		// The item may have been renamed or removed since the sale;
		// the record still moves to the trash in that case.
		if idx := itemIndex(snap.Items, sale.Item); idx >= 0 {
			snap.Items[idx].Stock += sale.Quantity
			updated = snap.Items[idx]
			touched = true

			entry = entity.LedgerEntry{
				ID:     s.ids.Next(),
				Date:   now,
				Item:   sale.Item,
				Change: sale.Quantity,
				Reason: inventory.ReasonSaleDelete(sale.ID),
				Actor:  actor,
			}
			snap.Ledger = append([]entity.LedgerEntry{entry}, snap.Ledger...)
		}
	})
	if err != nil {
		return entity.TrashRecord{}, err
	}

	s.dispatcher.Delete(ctx, gateway.TableSales, gateway.Filter{"id": trashed.ID})
	s.dispatcher.Insert(ctx, gateway.TableTrash, gateway.Marshal(trashed))
	if touched {
		s.dispatcher.Insert(ctx, gateway.TableLedger, gateway.Marshal(entry))
		s.dispatcher.Upsert(ctx, gateway.TableInventory, gateway.Marshal(updated), "nama")
	} else {
		logger.Warn(ctx, "deleted sale references unknown item, stock not restored",
			"sale_id", trashed.ID, "item", trashed.Item)
	}

	s.audit.Log(ctx, "sale", trashed.ID, audit.ActionDelete, map[string]any{
		"item": trashed.Item, "quantity": trashed.Quantity,
	})

	logger.Info(ctx, "sale moved to trash", "sale_id", trashed.ID, "item", trashed.Item)
	return trashed, nil
}

// Restore moves a sale back out of the trash and deducts its quantity from
// stock again.
func (s *Service) Restore(ctx context.Context, saleID id.ID) (entity.Sale, error) {
	now := s.now()
	actor := appctx.Actor(ctx)

	var (
		sale    entity.Sale
		entry   entity.LedgerEntry
		updated entity.Item
		touched bool
		err     error
	)
	s.store.Apply(func(snap *state.Snapshot) {
		trashIdx := -1
		for i := range snap.Trash {
			if snap.Trash[i].ID == saleID {
				trashIdx = i
				break
			}
		}
		if trashIdx < 0 {
			err = apperror.NewNotFound("trash record", saleID)
			return
		}

		sale = snap.Trash[trashIdx].Sale
		snap.Trash = append(snap.Trash[:trashIdx], snap.Trash[trashIdx+1:]...)
		snap.Sales = append([]entity.Sale{sale}, snap.Sales...)

		if idx := itemIndex(snap.Items, sale.Item); idx >= 0 {
			snap.Items[idx].Stock -= sale.Quantity
			updated = snap.Items[idx]
			touched = true

			entry = entity.LedgerEntry{
				ID:     s.ids.Next(),
				Date:   now,
				Item:   sale.Item,
				Change: -sale.Quantity,
				Reason: inventory.ReasonSaleRestore,
				Actor:  actor,
			}
			snap.Ledger = append([]entity.LedgerEntry{entry}, snap.Ledger...)
		}
	})
	if err != nil {
		return entity.Sale{}, err
	}

	s.dispatcher.Delete(ctx, gateway.TableTrash, gateway.Filter{"id": sale.ID})
	s.dispatcher.Insert(ctx, gateway.TableSales, gateway.Marshal(sale))
	if touched {
		s.dispatcher.Insert(ctx, gateway.TableLedger, gateway.Marshal(entry))
		s.dispatcher.Upsert(ctx, gateway.TableInventory, gateway.Marshal(updated), "nama")
	}

	s.audit.Log(ctx, "sale", sale.ID, audit.ActionRestore, map[string]any{
		"item": sale.Item, "quantity": sale.Quantity,
	})

	logger.Info(ctx, "sale restored from trash", "sale_id", sale.ID, "item", sale.Item)
	return sale, nil
}

func itemIndex(items []entity.Item, name string) int {
	for i := range items {
		if items[i].Name == name {
			return i
		}
	}
	return -1
}

func saleIndex(sales []entity.Sale, saleID id.ID) int {
	for i := range sales {
		if sales[i].ID == saleID {
			return i
		}
	}
	return -1
}
