package session

import "github.com/gin-gonic/gin"

const (
	ctxSessionID = "sessionID"
	ctxRecord    = "sessionRecord"
)

// Current returns the session record for the request, or nil when logged out.
func Current(c *gin.Context) *Record {
	if v, ok := c.Get(ctxRecord); ok {
		if rec, ok := v.(*Record); ok {
			return rec
		}
	}
	return nil
}

// SessionID returns the session ID for the request, or empty string.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(ctxSessionID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
