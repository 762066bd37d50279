package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/qrtrail/qrtrail-backend/internal/dto"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/services"
)

// AdminHandler serves the admin panel routes. Unlike the owner surface, it
// addresses users and QR codes by primary key.
type AdminHandler struct {
	userService *services.UserService
	qrService   *services.QRCodeService
	scanService *services.ScanService
}

func NewAdminHandler(userService *services.UserService, qrService *services.QRCodeService, scanService *services.ScanService) *AdminHandler {
	return &AdminHandler{userService: userService, qrService: qrService, scanService: scanService}
}

func pageParams(c *fiber.Ctx) (limit, offset, page int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return limit, (page - 1) * limit, page
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset, page := pageParams(c)

	users, total, err := h.userService.List(c.UserContext(), limit, offset)
	if err != nil {
		return httperr.Database("Failed to fetch users.").WithCause(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ListQRCodes handles GET /admin/qrcodes.
func (h *AdminHandler) ListQRCodes(c *fiber.Ctx) error {
	limit, offset, page := pageParams(c)

	codes, total, err := h.qrService.List(c.UserContext(), limit, offset)
	if err != nil {
		return httperr.Database("Failed to fetch QR codes.").WithCause(err)
	}

	responses := make([]dto.QRCodeResponse, len(codes))
	for i := range codes {
		responses[i] = dto.NewQRCodeResponse(&codes[i])
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"qrcodes": responses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// DeleteUser handles DELETE /admin/users/:id - the same cascade as
// self-service deletion, for any account.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return httperr.BadRequest("A user id is required.")
	}

	if err := h.userService.DeleteAccount(c.UserContext(), userID); err != nil {
		return httperr.CascadingDelete("Failed to delete all associated data.").WithCause(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteQRCode handles DELETE /admin/qrcodes/:id.
func (h *AdminHandler) DeleteQRCode(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httperr.BadRequest("Invalid QR code id.").WithCause(err)
	}

	if err := h.qrService.DeleteByID(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return httperr.NotFound("No QR code found with this id.")
		}
		return httperr.Database("Failed to delete QR code.").WithCause(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.scanService.GlobalStats(c.UserContext())
	if err != nil {
		return httperr.Database("Failed to fetch global statistics.").WithCause(err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
