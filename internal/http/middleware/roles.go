package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets a request through only when the token's role claim is one
// of allowedRoles. It must run after Auth.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := strings.ToLower(strings.TrimSpace(c.GetString(roleKey)))
		if role == "" {
			unauthorized(c, "missing role claim")
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":    http.StatusForbidden,
				"message":   "role not allowed: " + role,
				"timestamp": timestamp(),
			})
			return
		}
		c.Next()
	}
}
