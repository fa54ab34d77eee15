package middleware

import (
	"os"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware adds CORS headers for cross-origin requests.
// The SPA runs on its own origin and talks to this backend with
// credentials (the session cookie), so the whitelist is strict:
// - Production: only the configured frontend origin
// - Development: localhost variants (disabled in production)
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	isProduction := os.Getenv("GIN_MODE") == "release"

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		devOrigins := map[string]bool{
			"http://localhost:3000": true,
			"http://127.0.0.1:3000": true,
			"http://localhost:5173": true,
		}

		var isAllowed bool

		if frontendURL != "" && origin == frontendURL {
			isAllowed = true
		}

		// Development origins (ONLY in development mode)
		if !isProduction && devOrigins[origin] {
			isAllowed = true
		}

		// Empty origin (same-origin requests) - allow
		if origin == "" {
			isAllowed = true
		}

		// Only set headers if origin is allowed. If not, no CORS headers
		// are sent and the browser blocks the request.
		if isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Max-Age", "86400") // 24 hours
		}

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			if isAllowed {
				c.AbortWithStatus(204)
			} else {
				c.AbortWithStatus(403)
			}
			return
		}

		c.Next()
	}
}
