// Package main initializes and starts the privacy score HTTP server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/akarlov/privacymeter/internal/config"
	"github.com/akarlov/privacymeter/internal/db"
	"github.com/akarlov/privacymeter/internal/logger"
	"github.com/akarlov/privacymeter/internal/middleware"
	"github.com/akarlov/privacymeter/internal/repository"
	"github.com/akarlov/privacymeter/internal/scoring"
	"github.com/akarlov/privacymeter/internal/server/handler/http"
	"github.com/akarlov/privacymeter/internal/service"
	"github.com/akarlov/privacymeter/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Prune old score snapshots in the background.
	db.StartScoreRetentionPruner(context.Background(), postgresDB,
		time.Hour,
		time.Duration(options.ScoreRetentionDays)*24*time.Hour,
		zapLogger,
	)

	// Initialize the access token manager.
	tokens, err := token.NewManager(options.JWTSecret,
		time.Duration(options.TokenTTLMinutes)*time.Minute)
	if err != nil {
		zapLogger.Fatal("cannot init token manager", zap.Error(err))
	}

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	privacyRepo := repository.NewPostgresPrivacyRepository(postgresDB)
	trackingRepo := repository.NewPostgresTrackingRepository(postgresDB)
	catalogRepo := repository.NewPostgresCatalogRepository(postgresDB)

	// Initialize business-logic services.
	engine := scoring.NewEngine(privacyRepo, zapLogger)
	authService := service.NewAuthService(authRepo, tokens)
	privacyService := service.NewPrivacyService(engine, privacyRepo)
	trackingService := service.NewTrackingService(trackingRepo, catalogRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	privacyHandler := &http.PrivacyHandler{PrivacyService: privacyService}
	servicesHandler := &http.ServicesHandler{
		TrackingService: trackingService,
		Recalculator:    privacyService,
	}

	// Per-router rate limiter, injected rather than global.
	limiter := middleware.NewRateLimiter(options.RateLimitPerMinute, time.Minute)

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, privacyHandler, servicesHandler,
		tokens, limiter, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
