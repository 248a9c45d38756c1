package middleware

import (
	"github.com/gin-gonic/gin"

	"tatausaha/internal/core/appctx"
	"tatausaha/internal/core/apperror"
)

// RequireCapability middleware checks a single "<feature>.<action>"
// capability key. Admins pass every check.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if !appctx.HasCapability(c.Request.Context(), capability) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("required_capability", capability),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
