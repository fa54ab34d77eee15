package middleware

import (
	"net/http"

	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

// RouteGuard enforces an access requirement against the session's current
// reconciled state. When access is denied the response carries the screen the
// client should navigate to instead, so the SPA never has to guess.
func RouteGuard(sessions *usecase.Sessions, req domain.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := SessionID(c)
		if sessionID == "" {
			response.Error(c, http.StatusUnauthorized, "Session required", nil)
			c.Abort()
			return
		}

		decision := sessions.Get(sessionID).Current()
		intent := usecase.Guard(decision, req)
		if intent.Kind == domain.IntentGoto {
			status := http.StatusForbidden
			if !decision.State.Authenticated() {
				status = http.StatusUnauthorized
			}
			response.Error(c, status, "Access denied", gin.H{"redirect": intent})
			c.Abort()
			return
		}

		c.Next()
	}
}
