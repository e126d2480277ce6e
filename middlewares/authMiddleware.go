package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stashes the caller's email
// and role in the request context. Requests without a token pass through;
// role gates on individual routes decide what anonymous callers may reach.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			c.Next()
			return
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		validate, err := utils.JwtValidate(auth[len(bearer):])
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), auth[len(bearer):])
		ctx = utils.SetUserEmailInContext(ctx, claim.Email)
		ctx = utils.SetUserRoleInContext(ctx, claim.Role)
		if claim.Name != "" {
			ctx = utils.SetUserNameInContext(ctx, claim.Name)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
