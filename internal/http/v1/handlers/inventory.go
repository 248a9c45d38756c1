package handlers

import (
	"github.com/gin-gonic/gin"

	"tatausaha/internal/http/v1/dto"
	"tatausaha/internal/inventory"
)

// InventoryHandler serves the item catalog, the stock ledger and the
// correction protocol.
type InventoryHandler struct {
	*BaseHandler
	svc *inventory.Service
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(base *BaseHandler, svc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, svc: svc}
}

// ListItems returns the item catalog with low-stock flags.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	h.OK(c, dto.FromItems(h.svc.Items(c.Request.Context())))
}

// CreateItem adds a new catalog item.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventory.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item)
}

// AddStock tops up an existing item.
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req inventory.AddStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.svc.AddStock(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, entry)
}

// ListLedger returns the stock ledger, newest-first, with signed change
// strings and correctability flags.
func (h *InventoryHandler) ListLedger(c *gin.Context) {
	h.OK(c, dto.FromLedger(h.svc.Ledger(c.Request.Context())))
}

// Correct applies the correction protocol to one ledger entry.
func (h *InventoryHandler) Correct(c *gin.Context) {
	var req inventory.CorrectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.svc.Correct(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, result)
}

// Report compares stored stock against ledger sums per item.
func (h *InventoryHandler) Report(c *gin.Context) {
	h.OK(c, h.svc.Report(c.Request.Context()))
}
