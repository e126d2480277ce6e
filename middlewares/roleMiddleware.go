package middlewares

import (
	"net/http"

	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to callers holding one of the given roles.
// It assumes AuthMiddleware already ran; a missing role means the caller sent
// no (valid) token.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := utils.GetUserRoleFromContext(c.Request.Context())
		if !ok || role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
