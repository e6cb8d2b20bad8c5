package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers whose token role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[c.GetString(RoleKey)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not permitted for this action"})
			return
		}
		c.Next()
	}
}
