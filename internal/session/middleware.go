package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Load resolves the session for every request and stores it in the Gin
// context. It never aborts; gating is done by RequirePage / RequireJSON.
func Load(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid, rec := m.load(c); rec != nil {
			c.Set(ctxSessionID, sid)
			c.Set(ctxRecord, rec)
		}
		c.Next()
	}
}

// RequirePage gates HTML page routes: without a session the user is
// redirected to the login page.
func RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c) == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireJSON gates JSON API routes: without a session the call fails with 401.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "login required",
			})
			return
		}
		c.Next()
	}
}
