package v1

import (
	"net/http"

	"go-servicios-backend/config"
	"go-servicios-backend/internal/delivery/http/middleware"
	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/usecase"
	"go-servicios-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	WizardUC    domain.WizardUsecase
	ProfileUC   domain.ProfileUsecase
	DirectoryUC domain.DirectoryUsecase
	Sessions    *usecase.Sessions
	IDP         domain.IdentityProvider
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	secureCookies := gin.Mode() == gin.ReleaseMode

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Session(secureCookies))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold)))
	r.Use(middleware.CSRFMiddleware())
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(metrics.Register()))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	loginLimit := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitLoginThreshold))

	// Public routes
	NewDirectoryHandler(v1, deps.DirectoryUC)
	NewSessionHandler(v1, deps.Sessions, deps.IDP)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.IDP))

	// Dashboard routes additionally require a complete profile with the
	// matching role; the guard answers denials with the screen to go to.
	professional := protected.Group("")
	professional.Use(middleware.RouteGuard(deps.Sessions, domain.RequireProfessional))

	{
		NewAuthHandler(v1, protected, deps.AuthUC, deps.Sessions, loginLimit)
		NewWizardHandler(protected, deps.WizardUC)
		NewProfileHandler(protected, professional, deps.ProfileUC)
	}

	return r
}
