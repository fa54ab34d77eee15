package v1

import (
	"net/http"

	"go-servicios-backend/internal/delivery/http/middleware"
	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/usecase"
	"go-servicios-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// SessionHandler is the SPA's channel into the per-session reconciler: the
// client reports identity changes and location changes, and reads back the
// current state and navigation intent.
type SessionHandler struct {
	sessions *usecase.Sessions
	idp      domain.IdentityProvider
}

func NewSessionHandler(public *gin.RouterGroup, sessions *usecase.Sessions, idp domain.IdentityProvider) {
	handler := &SessionHandler{
		sessions: sessions,
		idp:      idp,
	}

	session := public.Group("/session")
	{
		session.POST("/identity", handler.ReportIdentity)
		session.GET("/navigation", handler.Navigation)
		session.POST("/refresh", handler.RefreshState)
		session.DELETE("", handler.EndSession)
	}
}

type IdentityReport struct {
	// AccessToken is empty when the client observed a sign-out.
	AccessToken string `json:"access_token"`
}

// ReportIdentity ingests one identity-change observation from the client. The
// reconciler processes it asynchronously; the client follows up with a
// navigation read.
func (h *SessionHandler) ReportIdentity(c *gin.Context) {
	var req IdentityReport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	sessionID := middleware.SessionID(c)

	if req.AccessToken == "" {
		h.sessions.Publish(sessionID, nil)
		response.Success(c, http.StatusAccepted, "Sign-out recorded", nil)
		return
	}

	ident, err := h.idp.VerifyToken(c.Request.Context(), req.AccessToken)
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid token"))
		return
	}

	h.sessions.Publish(sessionID, ident)
	response.Success(c, http.StatusAccepted, "Identity recorded", nil)
}

// Navigation records the client's current screen and returns the reconciled
// state plus the navigation intent for that screen.
func (h *SessionHandler) Navigation(c *gin.Context) {
	screen := domain.Screen(c.Query("screen"))
	if screen != "" && !screen.IsValid() {
		c.Error(apperror.BadRequest("Unknown screen"))
		return
	}

	rec := h.sessions.Get(middleware.SessionID(c))

	var decision domain.Decision
	if screen != "" {
		decision = rec.SetLocation(c.Request.Context(), screen)
	} else {
		decision = rec.Current()
	}

	response.Success(c, http.StatusOK, "Navigation state", decision)
}

// RefreshState forces a profile refetch for the current identity.
func (h *SessionHandler) RefreshState(c *gin.Context) {
	h.sessions.Refresh(middleware.SessionID(c))
	response.Success(c, http.StatusAccepted, "Refresh queued", nil)
}

// EndSession drops the server-side reconciler for this session.
func (h *SessionHandler) EndSession(c *gin.Context) {
	h.sessions.Drop(middleware.SessionID(c))
	response.Success(c, http.StatusOK, "Session ended", nil)
}
