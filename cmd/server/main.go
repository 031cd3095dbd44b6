package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attendly/api/internal/config"
	"github.com/attendly/api/internal/database"
	"github.com/attendly/api/internal/handler"
	"github.com/attendly/api/internal/jobs"
	"github.com/attendly/api/internal/middleware"
	"github.com/attendly/api/internal/repository"
	"github.com/attendly/api/internal/service"
	"github.com/attendly/api/pkg/jwt"
)

const version = "1.0.0"

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize fact hub for real-time seat updates
	hub := service.NewHub(cfg.Stream.SubscriberBuffer, cfg.Stream.HeartbeatInterval)
	defer hub.Close()

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService:      jwtService,
		TokenRepo:       tokenRepo,
		RefreshDuration: time.Duration(cfg.JWT.RefreshDays) * 24 * time.Hour,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})

	eventService := service.NewEventService(service.EventServiceConfig{
		EventRepo: eventRepo,
		Hub:       hub,
	})

	reservationService := service.NewReservationService(service.ReservationServiceConfig{
		EventRepo: eventRepo,
		Hub:       hub,
	})

	// Initialize rate limiter
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.RequestsPerMinute,
			Window: time.Minute,
			Burst:  cfg.RateLimit.Burst,
		})
		defer rateLimiter.Stop()
	}

	// Start token sweeper job
	tokenSweeper := jobs.NewTokenSweeper(tokenRepo, 1*time.Hour)
	tokenSweeper.Start()
	defer tokenSweeper.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(eventService, reservationService)
	streamHandler := handler.NewStreamHandler(hub, eventService)
	healthHandler := handler.NewHealthHandler(db, version)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Auth endpoints
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /v1/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /v1/auth/password", authHandler.ChangePassword)
	mux.HandleFunc("GET /v1/auth/me", authHandler.Me)

	// Admin endpoints
	mux.HandleFunc("PATCH /v1/admin/users/{userId}/role", authHandler.SetRole)

	// Event endpoints
	mux.HandleFunc("GET /v1/events", eventHandler.List)
	mux.HandleFunc("POST /v1/events", eventHandler.Create)
	mux.HandleFunc("GET /v1/events/{eventId}", eventHandler.Get)
	mux.HandleFunc("PUT /v1/events/{eventId}", eventHandler.Update)
	mux.HandleFunc("DELETE /v1/events/{eventId}", eventHandler.Delete)

	// Reservation endpoints
	mux.HandleFunc("POST /v1/events/{eventId}/book", eventHandler.Reserve)
	mux.HandleFunc("DELETE /v1/events/{eventId}/book", eventHandler.Release)
	mux.HandleFunc("DELETE /v1/events/{eventId}/attendees/{userId}", eventHandler.Evict)

	// SSE stream endpoints
	mux.HandleFunc("GET /v1/events/stream", streamHandler.Firehose)
	mux.HandleFunc("GET /v1/events/{eventId}/stream", streamHandler.PerEvent)

	// Apply global middleware. Identity runs before RateLimit so authenticated
	// callers are keyed by user rather than address.
	middlewares := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Identity(authService),
	}
	if rateLimiter != nil {
		middlewares = append(middlewares, middleware.RateLimit(rateLimiter))
	}
	middlewares = append(middlewares, middleware.Compress)
	wrapped := middleware.Chain(mux, middlewares...)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
