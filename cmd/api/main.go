package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-servicios-backend/config"
	v1 "go-servicios-backend/internal/delivery/http/v1"
	"go-servicios-backend/internal/domain"
	"go-servicios-backend/internal/repository/authapi"
	"go-servicios-backend/internal/repository/postgres"
	"go-servicios-backend/internal/repository/session"
	"go-servicios-backend/internal/usecase"
	"go-servicios-backend/pkg/auth"
	"go-servicios-backend/pkg/database"
	"go-servicios-backend/pkg/logger"
	"go-servicios-backend/pkg/redis"
	"go-servicios-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting servicios backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (session markers). Falls back to in-memory when absent so
	// local development works without a Redis instance.
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	var markers domain.SessionStore
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory session markers", "error", err)
			markers = session.NewMemoryStore(sessionTTL)
		} else {
			defer redis.Close()
			markers = session.NewRedisStore(redis.Client(), sessionTTL)
		}
	} else {
		markers = session.NewMemoryStore(sessionTTL)
	}

	// 5. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)

	jwksProvider := auth.NewProvider(cfg.AuthURL + "/auth/v1/.well-known/jwks.json")
	idp := authapi.NewProvider(cfg.AuthURL, cfg.AuthAnonKey, cfg.AuthJWTSecret, jwksProvider)

	// 6. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	sessions := usecase.NewSessions(profileRepo, markers)
	defer sessions.Close()

	wizardUC := usecase.NewWizardUsecase(profileRepo, markers, validate, sessions)
	profileUC := usecase.NewProfileUsecase(profileRepo, validate, sessions)
	directoryUC := usecase.NewDirectoryUsecase(profileRepo)
	authUC := usecase.NewAuthUsecase(idp, profileRepo, markers, sessions)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		WizardUC:    wizardUC,
		ProfileUC:   profileUC,
		DirectoryUC: directoryUC,
		Sessions:    sessions,
		IDP:         idp,
		Config:      cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
