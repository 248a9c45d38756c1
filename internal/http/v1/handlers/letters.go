package handlers

import (
	"github.com/gin-gonic/gin"

	"tatausaha/internal/core/entity"
	"tatausaha/internal/http/v1/dto"
	"tatausaha/internal/numbering"
)

// LetterHandler serves letter number allocation and listing.
type LetterHandler struct {
	*BaseHandler
	svc *numbering.Service
}

// NewLetterHandler creates a letter handler.
func NewLetterHandler(base *BaseHandler, svc *numbering.Service) *LetterHandler {
	return &LetterHandler{BaseHandler: base, svc: svc}
}

// Create allocates one letter number or a batch.
func (h *LetterHandler) Create(c *gin.Context) {
	var req numbering.AllocateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	letters, err := h.svc.Allocate(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromLetters(letters))
}

// List returns all issued letters, newest-first. With ?grouped=true batch
// members are bundled under their shared parent.
func (h *LetterHandler) List(c *gin.Context) {
	letters := h.svc.Letters(c.Request.Context())
	if c.Query("grouped") == "true" {
		h.OK(c, dto.GroupLetters(letters))
		return
	}
	h.OK(c, dto.FromLetters(letters))
}

// Stats returns allocation statistics.
func (h *LetterHandler) Stats(c *gin.Context) {
	h.OK(c, h.svc.Stats(c.Request.Context()))
}

// Catalog returns the allocation form options: codes and tiers.
func (h *LetterHandler) Catalog(c *gin.Context) {
	levels := make([]dto.LevelOption, len(entity.Levels))
	for i, l := range entity.Levels {
		levels[i] = dto.LevelOption{Value: l, Display: l.Display()}
	}
	h.OK(c, dto.CatalogResponse{Codes: numbering.Codes, Levels: levels})
}

// Settings returns the per-tier sequence floors.
func (h *LetterHandler) Settings(c *gin.Context) {
	h.OK(c, h.svc.Floors(c.Request.Context()))
}

// UpdateSettings sets the sequence floor of one tier.
func (h *LetterHandler) UpdateSettings(c *gin.Context) {
	var req dto.FloorUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.svc.SetFloor(c.Request.Context(), req.Level, req.Floor); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "settings updated")
}
