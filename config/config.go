package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	// Hosted auth provider
	AuthURL       string
	AuthAnonKey   string
	AuthJWTSecret string
	// Redis (session markers, rate limiting)
	RedisURL      string
	RedisPassword string
	// Session
	SessionTTLHours int
	// Rate Limiting
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
}

func LoadConfig() (*Config, error) {
	// .env only matters locally; ignored in production when absent.
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Strip trailing slash so URL joins never produce double slashes.
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AuthURL:       strings.TrimRight(getEnv("AUTH_URL", ""), "/"),
		AuthAnonKey:   getEnv("AUTH_ANON_KEY", ""),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.AuthURL == "" {
		log.Println("WARNING: AUTH_URL is missing. Sign-in and registration will be unavailable.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Session markers will use the in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
