package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "admin_session"
	sessionToken      = "authenticated"
	sessionMaxAge     = 7 * 24 * 60 * 60
)

func isAdminSession(c *gin.Context) bool {
	value, err := c.Cookie(sessionCookieName)
	return err == nil && value == sessionToken
}

func hasCronAccess(c *gin.Context) bool {
	if secret := os.Getenv("CRON_SECRET"); secret != "" {
		if c.GetHeader("Authorization") == "Bearer "+secret {
			return true
		}
	}
	return isAdminSession(c)
}

// RequireAdmin gates admin endpoints behind the session cookie.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdminSession(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireCronAccess allows either the scheduler's bearer secret or an
// admin session, checked before any collection work starts.
func RequireCronAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasCronAccess(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
