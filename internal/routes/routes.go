package routes

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/qrtrail/qrtrail-backend/internal/handlers"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/identity"
	"github.com/qrtrail/qrtrail-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	verifier identity.Verifier,
	systemHandler *handlers.SystemHandler,
	userHandler *handlers.UserHandler,
	qrHandler *handlers.QRCodeHandler,
	redirectHandler *handlers.RedirectHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	adminHandler *handlers.AdminHandler,
) {
	// Redirect resolution sits outside /api: it is the only latency-sensitive
	// public surface and takes no middleware beyond the global set.
	app.Get("/r/:shortCode", redirectHandler.Redirect)

	api := app.Group("/api/v1")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	requireAuth := middleware.RequireAuth(verifier)

	// System (public)
	system := api.Group("/system")
	system.Get("/health", systemHandler.Health)
	system.Get("/status", systemHandler.Status)
	system.Get("/config", systemHandler.Config)

	// Auth (the provider issues tokens; we only expose the verified identity)
	api.Get("/auth/me", requireAuth, userHandler.Identity)

	// QR codes (protected)
	qrcodes := api.Group("/qrcodes", requireAuth)
	qrcodes.Get("/", qrHandler.List)
	qrcodes.Post("/", qrHandler.Create)
	qrcodes.Get("/:shortCode", qrHandler.Get)
	qrcodes.Put("/:shortCode", qrHandler.Update)
	qrcodes.Delete("/:shortCode", qrHandler.Delete)

	// Users (protected)
	users := api.Group("/users", requireAuth)
	users.Get("/me", userHandler.Me)
	users.Post("/me", userHandler.CreateProfile)
	users.Put("/me", userHandler.UpdateMe)
	users.Delete("/me", userHandler.DeleteMe)
	users.Get("/me/qrcodes", userHandler.MyQRCodes)

	// Analytics (track is public, the rest is protected)
	analytics := api.Group("/analytics")
	analytics.Post("/track", analyticsHandler.Track)
	analytics.Get("/qrcodes", requireAuth, analyticsHandler.MyCodeStats)
	analytics.Get("/qrcodes/:shortCode", requireAuth, analyticsHandler.CodeStats)
	analytics.Get("/users/me", requireAuth, analyticsHandler.MyStats)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/qrcodes", adminHandler.ListQRCodes)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Delete("/qrcodes/:id", adminHandler.DeleteQRCode)
	admin.Get("/stats", adminHandler.Stats)

	// Unmatched routes
	app.Use(func(c *fiber.Ctx) error {
		return httperr.NotFound(fmt.Sprintf("Route not found: %s", c.OriginalURL()))
	})
}
