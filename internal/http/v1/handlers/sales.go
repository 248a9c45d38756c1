package handlers

import (
	"github.com/gin-gonic/gin"

	"tatausaha/internal/sales"
)

// SalesHandler serves sale records, the trash and restore.
type SalesHandler struct {
	*BaseHandler
	svc *sales.Service
}

// NewSalesHandler creates a sales handler.
func NewSalesHandler(base *BaseHandler, svc *sales.Service) *SalesHandler {
	return &SalesHandler{BaseHandler: base, svc: svc}
}

// List returns live sales, newest-first.
func (h *SalesHandler) List(c *gin.Context) {
	h.OK(c, h.svc.Sales(c.Request.Context()))
}

// Create records a new sale.
func (h *SalesHandler) Create(c *gin.Context) {
	var req sales.CreateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, sale)
}

// Edit updates an existing sale.
func (h *SalesHandler) Edit(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req sales.EditRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.svc.Edit(c.Request.Context(), saleID, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// Delete moves a sale to the trash.
func (h *SalesHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	trashed, err := h.svc.Delete(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, trashed)
}

// Trash returns soft-deleted sales.
func (h *SalesHandler) Trash(c *gin.Context) {
	h.OK(c, h.svc.Trash(c.Request.Context()))
}

// Restore moves a sale back out of the trash.
func (h *SalesHandler) Restore(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.svc.Restore(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}
