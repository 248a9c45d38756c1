// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tatausaha/internal/core/apperror"
	"tatausaha/pkg/logger"
)

// Recovery recovers from handler panics and answers with a generic 500.
// A panic unwinds past ErrorHandler before this middleware catches it, so
// the response is written here directly instead of going through c.Error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"panic", r,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, gin.H{
						"code":    apperror.CodeInternal,
						"message": "Internal server error",
						"details": map[string]any{
							"request_id": c.GetString("request_id"),
						},
					})
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
