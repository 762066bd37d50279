package handlers

import (
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/config"
	"github.com/qrtrail/qrtrail-backend/internal/database"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"gorm.io/gorm"
)

type SystemHandler struct {
	cfg       *config.Config
	db        *gorm.DB
	startedAt time.Time
}

func NewSystemHandler(cfg *config.Config, db *gorm.DB) *SystemHandler {
	return &SystemHandler{cfg: cfg, db: db, startedAt: time.Now()}
}

// Health handles GET /system/health.
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	if err := database.Ping(h.db); err != nil {
		return httperr.ServiceUnavailable("Failed to process the health request.").WithCause(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
	})
}

// Status handles GET /system/status.
func (h *SystemHandler) Status(c *fiber.Ctx) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":      "ok",
		"environment": h.cfg.Environment,
		"uptime":      time.Since(h.startedAt).Seconds(),
		"goVersion":   runtime.Version(),
		"pid":         os.Getpid(),
		"platform":    runtime.GOOS,
		"memoryUsage": fiber.Map{
			"alloc":      mem.Alloc,
			"totalAlloc": mem.TotalAlloc,
			"sys":        mem.Sys,
			"numGC":      mem.NumGC,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Config handles GET /system/config - the public-facing client configuration.
func (h *SystemHandler) Config(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"appName": "QR Code Generator",
		"validationRules": fiber.Map{
			"maxQrCodesPerUser":    h.cfg.MaxQRCodesPerUser,
			"maxLabelLength":       h.cfg.MaxLabelLength,
			"maxTextContentLength": h.cfg.MaxTextContentLength,
			"maxUploadSizeMB":      h.cfg.MaxUploadSizeMB,
			"allowedFileTypes":     []string{"png", "jpg", "jpeg"},
		},
		"links": fiber.Map{
			"privacyPolicy":  "/privacy-policy",
			"termsOfService": "/terms",
			"helpCenter":     "/help",
			"github":         "https://github.com/qrtrail/qrtrail-backend",
		},
	})
}
