package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/authz"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/middleware"
	"github.com/qrtrail/qrtrail-backend/internal/services"
)

type AnalyticsHandler struct {
	qrService   *services.QRCodeService
	scanService *services.ScanService
}

func NewAnalyticsHandler(qrService *services.QRCodeService, scanService *services.ScanService) *AnalyticsHandler {
	return &AnalyticsHandler{qrService: qrService, scanService: scanService}
}

type trackRequest struct {
	ShortCode string `json:"shortCode"`
	UserAgent string `json:"userAgent"`
}

// Track handles POST /analytics/track - explicit scan recording by short code.
// Unlike the redirect path, the write here is synchronous: the caller asked
// for the recording itself.
func (h *AnalyticsHandler) Track(c *fiber.Ctx) error {
	var req trackRequest
	if err := c.BodyParser(&req); err != nil {
		return httperr.BadRequest("Invalid request body.").WithCause(err)
	}
	if req.ShortCode == "" {
		return httperr.BadRequest("A short code is required.")
	}

	code, err := h.qrService.GetByShortCode(c.UserContext(), req.ShortCode)
	if err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return httperr.NotFound("This QR code link is not valid.")
		}
		return httperr.Database("Failed to record the scan event.").WithCause(err)
	}
	if code.OwnerID == "" {
		return httperr.BadData("Invalid QR code data.")
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.Get(fiber.HeaderUserAgent)
	}
	if err := h.scanService.Record(c.UserContext(), code.ID, code.OwnerID, c.IP(), userAgent); err != nil {
		return httperr.Database("Failed to record the scan event.").WithCause(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Scan event recorded.",
	})
}

// MyCodeStats handles GET /analytics/qrcodes - per-code summaries for every
// QR code the caller owns.
func (h *AnalyticsHandler) MyCodeStats(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	codes, err := h.qrService.ListByOwner(c.UserContext(), id.ID)
	if err != nil {
		return httperr.Database("Failed to fetch QR code analytics.").WithCause(err)
	}

	stats := make([]services.CodeStats, 0, len(codes))
	for i := range codes {
		s, err := h.scanService.StatsForCode(c.UserContext(), &codes[i])
		if err != nil {
			return httperr.Database("Failed to fetch QR code analytics.").WithCause(err)
		}
		stats = append(stats, *s)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// CodeStats handles GET /analytics/qrcodes/:shortCode with the same
// existence-then-ownership sequence as the resource routes.
func (h *AnalyticsHandler) CodeStats(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	code, err := h.qrService.GetByShortCode(c.UserContext(), c.Params("shortCode"))
	if err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return httperr.NotFound("This QR short code is not valid.")
		}
		return httperr.Database("Failed to fetch QR code analytics.").WithCause(err)
	}

	if decision := authz.Authorize(id, code.OwnerID); !decision.Allowed {
		return httperr.Forbidden("You do not have permission to access this QR code.")
	}

	stats, err := h.scanService.StatsForCode(c.UserContext(), code)
	if err != nil {
		return httperr.Database("Failed to fetch QR code analytics.").WithCause(err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// MyStats handles GET /analytics/users/me - aggregate totals for the caller.
func (h *AnalyticsHandler) MyStats(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	stats, err := h.scanService.StatsForOwner(c.UserContext(), id.ID)
	if err != nil {
		return httperr.Database("Failed to fetch user analytics.").WithCause(err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
