package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/qrtrail/qrtrail-backend/internal/config"
	"github.com/qrtrail/qrtrail-backend/internal/database"
	"github.com/qrtrail/qrtrail-backend/internal/handlers"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/identity"
	"github.com/qrtrail/qrtrail-backend/internal/logging"
	"github.com/qrtrail/qrtrail-backend/internal/middleware"
	"github.com/qrtrail/qrtrail-backend/internal/routes"
	"github.com/qrtrail/qrtrail-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.IdentityJWKSURL == "" || cfg.IdentityIssuer == "" {
		slog.Error("IDENTITY_JWKS_URL and IDENTITY_ISSUER environment variables are required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// DB log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	deleter := database.NewBatchDeleter(db)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(deleter, cleanupDone)

	// Identity provider (verification + admin API, injected everywhere)
	provider := identity.NewJWKSProvider(
		identity.NewJWKSVerifier(cfg.IdentityJWKSURL, cfg.IdentityIssuer, cfg.IdentityAudience),
		identity.NewAdminClient(cfg.IdentityAdminURL, cfg.IdentityAdminKey),
	)

	// Services
	shortCodes, err := services.NewShortCodeGenerator(cfg.ShortCodeSalt, cfg.ShortCodeMinLength)
	if err != nil {
		slog.Error("short code generator init failed", "error", err)
		os.Exit(1)
	}
	qrService := services.NewQRCodeService(db, cfg, shortCodes)
	scanService := services.NewScanService(db)
	userService := services.NewUserService(db, deleter, provider)

	// Handlers
	systemHandler := handlers.NewSystemHandler(cfg, db)
	userHandler := handlers.NewUserHandler(userService, qrService)
	qrHandler := handlers.NewQRCodeHandler(qrService)
	redirectHandler := handlers.NewRedirectHandler(qrService, scanService)
	analyticsHandler := handlers.NewAnalyticsHandler(qrService, scanService)
	adminHandler := handlers.NewAdminHandler(userService, qrService, scanService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: httperr.Handler(cfg.IsProduction()),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, provider, systemHandler, userHandler, qrHandler, redirectHandler, analyticsHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
