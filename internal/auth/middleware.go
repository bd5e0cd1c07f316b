package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminOnly enforces bearer JWT tokens signed with HS256 carrying the admin
// role. Destructive routes sit behind it.
func AdminOnly(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "kind": "unauthorized", "message": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "kind": "unauthorized", "message": "invalid token"})
			return
		}
		if claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "kind": "forbidden", "message": "admin role required"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}
