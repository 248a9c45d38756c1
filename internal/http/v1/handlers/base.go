package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tatausaha/internal/core/apperror"
	"tatausaha/internal/core/id"
	"tatausaha/internal/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIDParam parses a numeric record ID from a path parameter.
func (h *BaseHandler) ParseIDParam(c *gin.Context, key string) (id.ID, bool) {
	raw := c.Param(key)
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail(key, raw))
		return 0, false
	}
	return parsed, true
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
