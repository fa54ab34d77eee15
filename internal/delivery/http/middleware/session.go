package middleware

import (
	"net/http"

	"go-servicios-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "sf_session"

// Session assigns each browser a stable session id via cookie. The id keys the
// per-session reconciler and the pending-switch marker, so it must exist
// before any session or wizard endpoint runs.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, 0, "/", "", secure, true)
		}
		c.Set(string(domain.KeySessionID), id)
		c.Next()
	}
}

// SessionID returns the session id set by the Session middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(string(domain.KeySessionID))
}
