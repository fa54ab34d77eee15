package middleware

import (
	"net/http"
	"strings"

	"go-servicios-backend/internal/delivery/http/response"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(idp domain.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		ident, err := idp.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug("token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), ident.UID)
		c.Set(string(domain.KeyUserEmail), ident.Email)
		c.Set(string(domain.KeyIdentity), ident)

		c.Next()
	}
}
