package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/stagebook/stagebook-api/internal/config"
	"github.com/stagebook/stagebook-api/internal/crypto"
	"github.com/stagebook/stagebook-api/internal/database"
	"github.com/stagebook/stagebook-api/internal/handlers"
	"github.com/stagebook/stagebook-api/internal/jobs"
	"github.com/stagebook/stagebook-api/internal/middleware"
	"github.com/stagebook/stagebook-api/internal/repository"
	"github.com/stagebook/stagebook-api/internal/services"
	"github.com/stagebook/stagebook-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title StageBook API
// @version 1.0
// @description REST API for the StageBook performer booking marketplace

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Field cipher for sensitive columns; falls back to insecure built-in
	// keys when the auth secrets are unset, so warn loudly.
	if cfg.SecureAuthKey == "" || cfg.SecureAuthSalt == "" {
		logger.Warn("SECURE_AUTH_KEY or SECURE_AUTH_SALT not set; field encryption is using built-in fallback keys")
	}
	cipher := crypto.NewFieldCipher(cfg.SecureAuthKey, cfg.SecureAuthSalt)

	// Initialize repositories
	repos := repository.NewRepositories(db, cipher)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/bookings/:booking_id/release_escrow", h.Booking.ReleaseEscrow)
				admin.POST("/bookings/:booking_id/refund", h.Booking.Refund)

				admin.PUT("/users/:user_id/role", h.User.ChangeRole)
				admin.PUT("/performers/:performer_id/status", h.Performer.ChangeStatus)
				admin.PUT("/performers/:performer_id/tier", h.Performer.ChangeTier)

				admin.GET("/audits", h.Audit.Index)
				admin.GET("/audits/export", h.Audit.Export)
				admin.GET("/audits/trail_pdf", h.Audit.TrailPDF)
				admin.POST("/audits/cleanup", h.Audit.Cleanup)
			}

			// Bookings
			protected.POST("/bookings", h.Booking.Create)
			protected.GET("/bookings", h.Booking.Index)
			protected.GET("/bookings/:booking_id", h.Booking.Show)
			protected.PATCH("/bookings/:booking_id", h.Booking.Update)
			protected.POST("/bookings/:booking_id/confirm", h.Booking.Confirm)
			protected.POST("/bookings/:booking_id/complete", h.Booking.Complete)
			protected.POST("/bookings/:booking_id/cancel", h.Booking.Cancel)
			protected.GET("/bookings/:booking_id/history", h.Booking.History)
			protected.GET("/bookings/:booking_id/payments", h.Payment.IndexByBooking)

			// Payments
			protected.POST("/payments", h.Payment.Create)

			// Users
			protected.GET("/users/:user_id", h.User.Show)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Daily audit retention sweep
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Running audit retention sweep...", "days", cfg.AuditRetentionDays)
		deleted, err := svcs.Audit.Cleanup(ctx, cfg.AuditRetentionDays)
		if err != nil {
			return err
		}
		logger.Info("[Job] Audit retention sweep finished", "deleted", deleted)
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
