package middleware

import (
	"github.com/gin-gonic/gin"

	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/internal/shared/apperr"
)

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			Fail(c, apperr.UnauthorizedErr("Authentication required."))
			return
		}
		if u.Role != users.RoleAdmin {
			Fail(c, apperr.ForbiddenErr("Admin access required."))
			return
		}
		c.Next()
	}
}
