package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"github.com/qrtrail/qrtrail-backend/internal/services"
)

type RedirectHandler struct {
	qrService   *services.QRCodeService
	scanService *services.ScanService
}

func NewRedirectHandler(qrService *services.QRCodeService, scanService *services.ScanService) *RedirectHandler {
	return &RedirectHandler{qrService: qrService, scanService: scanService}
}

// Redirect handles GET /r/:shortCode: lookup, validate, respond. The scan
// write is dispatched detached so redirect latency never waits on analytics;
// a dropped write is logged and accepted.
func (h *RedirectHandler) Redirect(c *fiber.Ctx) error {
	code, err := h.qrService.GetByShortCode(c.UserContext(), c.Params("shortCode"))
	if err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return httperr.NotFound("This QR code link is not valid.")
		}
		return httperr.Redirect("An error occurred while processing the redirect.").WithCause(err)
	}

	// Structural validity first: a record without an owner or payload is
	// broken data, not merely the wrong type.
	target, hasTarget := code.Target()
	if code.OwnerID == "" || !hasTarget {
		return httperr.BadData("Invalid QR code data.")
	}
	if !strings.EqualFold(code.Type, models.QRCodeTypeURL) || target.Value == "" {
		return httperr.BadData("This QR code does not point to a web address.")
	}

	h.scanService.RecordDetached(code.ID, code.OwnerID, c.IP(), c.Get(fiber.HeaderUserAgent))

	return c.Redirect(target.Value, fiber.StatusFound)
}
