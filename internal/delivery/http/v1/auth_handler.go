package v1

import (
	"net/http"
	"strings"

	"go-servicios-backend/internal/delivery/http/middleware"
	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/usecase"
	"go-servicios-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC   domain.AuthUsecase
	sessions *usecase.Sessions
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, sessions *usecase.Sessions, loginLimit gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC:   authUC,
		sessions: sessions,
	}

	// Public Routes
	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", loginLimit, handler.Login)
		publicAuth.POST("/register", loginLimit, handler.Register)
		publicAuth.POST("/provider", loginLimit, handler.LoginWithProvider)
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/logout", handler.Logout)
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	// Role is an optional pre-selection carried into the profile wizard.
	Role string `json:"role" binding:"omitempty,oneof=client professional"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ProviderLoginRequest struct {
	Provider string `json:"provider" binding:"required,oneof=google"`
	IDToken  string `json:"id_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	sess, err := h.authUC.Register(c.Request.Context(), req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		c.Error(err)
		return
	}

	h.sessions.Publish(middleware.SessionID(c), &sess.Identity)

	response.Success(c, http.StatusCreated, "Registration successful", sess)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	sess, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	h.sessions.Publish(middleware.SessionID(c), &sess.Identity)

	response.Success(c, http.StatusOK, "Login successful", sess)
}

func (h *AuthHandler) LoginWithProvider(c *gin.Context) {
	var req ProviderLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	sess, err := h.authUC.LoginWithProvider(c.Request.Context(), req.Provider, req.IDToken)
	if err != nil {
		c.Error(err)
		return
	}

	h.sessions.Publish(middleware.SessionID(c), &sess.Identity)

	response.Success(c, http.StatusOK, "Login successful", sess)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	if err := h.authUC.Logout(c.Request.Context(), middleware.SessionID(c), accessToken); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Logged out", nil)
}
