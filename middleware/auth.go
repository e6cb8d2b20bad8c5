// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"spabook/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuthMiddleware.
const (
	ActorIDKey = "actorID"
	RoleKey    = "role"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's id and role.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ActorIDKey, subject)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// ActorFromContext returns the authenticated caller set by JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (id, role string, ok bool) {
	id = c.GetString(ActorIDKey)
	role = c.GetString(RoleKey)
	return id, role, id != ""
}
