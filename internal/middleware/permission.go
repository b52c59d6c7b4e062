package middleware

import (
	"net/http"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/logger"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequirePermission lets the request through when the caller's role grants p.
// It must run after AuthMiddleware.
func RequirePermission(p user.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
			c.Abort()
			return
		}

		if !role.Can(p) {
			logger.WithRequestID(GetRequestID(c)).Warn("Permission denied",
				zap.String("role", string(role)),
				zap.String("permission", string(p)),
				zap.String("path", c.FullPath()),
			)
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequirePermission(user.PermManageUsers)
}
