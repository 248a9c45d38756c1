package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tatausaha/internal/core/appctx"
	"tatausaha/internal/core/apperror"
	"tatausaha/internal/core/entity"
	"tatausaha/internal/core/id"
	"tatausaha/internal/gateway"
	"tatausaha/internal/gateway/audit"
	"tatausaha/internal/state"
	"tatausaha/pkg/logger"
)

// CreateItemRequest adds a new item to the catalog.
type CreateItemRequest struct {
	Name  string          `json:"nama" binding:"required"`
	Stock int             `json:"stok"`
	Price decimal.Decimal `json:"harga"`
}

// AddStockRequest tops up an existing item.
type AddStockRequest struct {
	Item     string `json:"item" binding:"required"`
	Quantity int    `json:"quantity"`
}

// ItemReport compares an item's stored stock against its ledger sum.
// Opening stock set at item creation never enters the ledger, so Delta
// holds a constant offset per item; a Delta that drifts over time means a
// stock write was lost.
type ItemReport struct {
	Name      string `json:"nama"`
	Stock     int    `json:"stok"`
	LedgerSum int    `json:"ledgerSum"`
	Delta     int    `json:"delta"`
}

// Service manages the item catalog and the stock ledger.
type Service struct {
	store      *state.Store
	dispatcher *gateway.Dispatcher
	ids        *id.Generator
	audit      *audit.Service
	now        func() time.Time
}

// NewService creates an inventory service.
func NewService(store *state.Store, dispatcher *gateway.Dispatcher, ids *id.Generator, auditSvc *audit.Service) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		ids:        ids,
		audit:      auditSvc,
		now:        time.Now,
	}
}

// Items returns the item catalog.
func (s *Service) Items(ctx context.Context) []entity.Item {
	return s.store.Items()
}

// Ledger returns the stock ledger, newest-first.
func (s *Service) Ledger(ctx context.Context) []entity.LedgerEntry {
	return s.store.Ledger()
}

// CreateItem adds a new catalog item. The opening stock is part of the
// item record itself; it gets no ledger entry.
func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (entity.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return entity.Item{}, apperror.NewValidation("item name is required")
	}
	if req.Stock < 0 {
		return entity.Item{}, apperror.NewInvalidQuantity("opening stock must not be negative")
	}
	if req.Price.IsNegative() {
		return entity.Item{}, apperror.NewValidation("price must not be negative")
	}

	item := entity.Item{
		ID:    s.ids.Next(),
		Name:  name,
		Stock: req.Stock,
		Price: req.Price,
	}

	var dup bool
	s.store.Apply(func(snap *state.Snapshot) {
		for _, existing := range snap.Items {
			if existing.Name == name {
				dup = true
				return
			}
		}
		snap.Items = append(snap.Items, item)
	})
	if dup {
		return entity.Item{}, apperror.NewDuplicate("item", "nama", name)
	}

	s.dispatcher.Upsert(ctx, gateway.TableInventory, gateway.Marshal(item), "nama")
	s.audit.Log(ctx, "inventory_item", item.ID, audit.ActionCreate, map[string]any{
		"nama": name, "stok": req.Stock, "harga": req.Price.String(),
	})

	logger.Info(ctx, "inventory item created", "nama", name, "stok", req.Stock)
	return item, nil
}

// AddStock tops up an item and records the change in the ledger.
func (s *Service) AddStock(ctx context.Context, req AddStockRequest) (entity.LedgerEntry, error) {
	if req.Item == "" {
		return entity.LedgerEntry{}, apperror.NewValidation("item is required")
	}
	if req.Quantity <= 0 {
		return entity.LedgerEntry{}, apperror.NewInvalidQuantity("quantity must be positive")
	}

	entry := entity.LedgerEntry{
		ID:     s.ids.Next(),
		Date:   s.now(),
		Item:   req.Item,
		Change: req.Quantity,
		Reason: ReasonManualStock,
		Actor:  appctx.Actor(ctx),
	}

	var updated entity.Item
	var found bool
	s.store.Apply(func(snap *state.Snapshot) {
		for i := range snap.Items {
			if snap.Items[i].Name == req.Item {
				snap.Items[i].Stock += req.Quantity
				updated = snap.Items[i]
				found = true
				break
			}
		}
		if found {
			snap.Ledger = append([]entity.LedgerEntry{entry}, snap.Ledger...)
		}
	})
	if !found {
		return entity.LedgerEntry{}, apperror.NewItemNotFound(req.Item)
	}

	s.dispatcher.Insert(ctx, gateway.TableLedger, gateway.Marshal(entry))
	s.dispatcher.Upsert(ctx, gateway.TableInventory, gateway.Marshal(updated), "nama")

	logger.Info(ctx, "stock added",
		"item", req.Item,
		"change", entity.FormatChange(req.Quantity),
		"stok", updated.Stock,
	)
	return entry, nil
}

// Correct applies the correction protocol to one past ledger entry: a
// reversing entry cancels the original change, a correcting entry applies
// the intended one, and the touched items' stock moves accordingly. The
// original entry is untouched but becomes final.
func (s *Service) Correct(ctx context.Context, req CorrectionRequest) (CorrectionResult, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return CorrectionResult{}, apperror.NewValidation("correction reason is required")
	}

	var (
		result CorrectionResult
		err    error
	)
	s.store.Apply(func(snap *state.Snapshot) {
		var original entity.LedgerEntry
		found := false
		for _, e := range snap.Ledger {
			if e.ID == req.EntryID {
				original = e
				found = true
				break
			}
		}
		if !found {
			err = apperror.NewNotFound("ledger entry", req.EntryID)
			return
		}
		if !Correctable(snap.Ledger, original) {
			err = apperror.NewUncorrectable(original.ID)
			return
		}

		oldIdx := itemIndex(snap.Items, original.Item)
		if oldIdx < 0 {
			err = apperror.NewItemNotFound(original.Item)
			return
		}

		newName := req.NewItem
		if newName == "" {
			newName = original.Item
		}
		newIdx := itemIndex(snap.Items, newName)
		if newIdx < 0 {
			err = apperror.NewItemNotFound(newName)
			return
		}

		result = computeCorrection(
			original,
			snap.Items[oldIdx],
			snap.Items[newIdx],
			req,
			s.ids.Reserve(2),
			s.now(),
			appctx.Actor(ctx),
		)

		for _, item := range result.UpdatedItems {
			snap.Items[itemIndex(snap.Items, item.Name)] = item
		}
		// Correcting entry first, so the pair reads top-down as
		// "what it should be" then "what was cancelled".
		snap.Ledger = append([]entity.LedgerEntry{result.Correcting, result.Reversing}, snap.Ledger...)
	})
	if err != nil {
		return CorrectionResult{}, err
	}

	s.dispatcher.Insert(ctx, gateway.TableLedger, gateway.Marshal(result.Reversing))
	s.dispatcher.Insert(ctx, gateway.TableLedger, gateway.Marshal(result.Correcting))
	for _, item := range result.UpdatedItems {
		s.dispatcher.Upsert(ctx, gateway.TableInventory, gateway.Marshal(item), "nama")
	}

	s.audit.Log(ctx, "ledger_entry", req.EntryID, audit.ActionCorrect, map[string]any{
		"reason":        req.Reason,
		"reversing_id":  result.Reversing.ID,
		"correcting_id": result.Correcting.ID,
		"new_item":      result.Correcting.Item,
		"new_quantity":  result.Correcting.Change,
	})

	logger.Info(ctx, "ledger entry corrected",
		"entry_id", req.EntryID,
		"reversing_id", result.Reversing.ID,
		"correcting_id", result.Correcting.ID,
	)
	return result, nil
}

// Report compares every item's stock against its ledger sum.
func (s *Service) Report(ctx context.Context) []ItemReport {
	var reports []ItemReport
	s.store.View(func(snap state.Snapshot) {
		reports = make([]ItemReport, 0, len(snap.Items))
		for _, item := range snap.Items {
			sum := Sum(snap.Ledger, item.Name)
			reports = append(reports, ItemReport{
				Name:      item.Name,
				Stock:     item.Stock,
				LedgerSum: sum,
				Delta:     item.Stock - sum,
			})
		}
	})
	return reports
}

func itemIndex(items []entity.Item, name string) int {
	for i := range items {
		if items[i].Name == name {
			return i
		}
	}
	return -1
}
