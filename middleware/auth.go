package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests whose session is not logged in.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sf := GetStorefront(c)
		if sf == nil || !sf.Auth.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "user not authenticated"})
			return
		}
		c.Next()
	}
}

// RequireAdmin lets admins and managers through. Use after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sf := GetStorefront(c)
		if sf == nil || !sf.Auth.CanAccessAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "admin access required"})
			return
		}
		c.Next()
	}
}
