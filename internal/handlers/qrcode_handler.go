package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/authz"
	"github.com/qrtrail/qrtrail-backend/internal/dto"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/middleware"
	"github.com/qrtrail/qrtrail-backend/internal/services"
)

type QRCodeHandler struct {
	qrService *services.QRCodeService
}

func NewQRCodeHandler(qrService *services.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{qrService: qrService}
}

// List handles GET /qrcodes - all QR codes owned by the caller. An empty
// collection is 200 [], never an error.
func (h *QRCodeHandler) List(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	codes, err := h.qrService.ListByOwner(c.UserContext(), id.ID)
	if err != nil {
		return httperr.Database("Failed to fetch user QR codes.").WithCause(err)
	}

	responses := make([]dto.QRCodeResponse, len(codes))
	for i := range codes {
		responses[i] = dto.NewQRCodeResponse(&codes[i])
	}
	return c.Status(fiber.StatusOK).JSON(responses)
}

// Create handles POST /qrcodes.
func (h *QRCodeHandler) Create(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	var req dto.CreateQRCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return httperr.BadRequest("Invalid request body.").WithCause(err)
	}

	code, err := h.qrService.Create(c.UserContext(), id.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQRCodeLimit):
			return httperr.BadRequest("You have reached the maximum number of QR codes.")
		case errors.Is(err, services.ErrLabelTooLong):
			return httperr.BadRequest("The label is too long.")
		case errors.Is(err, services.ErrTargetTooLong):
			return httperr.BadRequest("The target content is too long.")
		}
		return httperr.Database("Failed to create QR code.").WithCause(err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewQRCodeResponse(code))
}

// Get handles GET /qrcodes/:shortCode. Existence is established before
// ownership: an unknown short code is 404 regardless of who asks, and 403 only
// fires once a record was found.
func (h *QRCodeHandler) Get(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	code, err := h.qrService.GetByShortCode(c.UserContext(), c.Params("shortCode"))
	if err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return httperr.NotFound("This QR short code is not valid.")
		}
		return httperr.Database("Failed to fetch the QR code.").WithCause(err)
	}

	if decision := authz.Authorize(id, code.OwnerID); !decision.Allowed {
		return httperr.Forbidden("You do not have permission to access this QR code.")
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewQRCodeResponse(code))
}

// Update handles PUT /qrcodes/:shortCode.
func (h *QRCodeHandler) Update(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	var req dto.UpdateQRCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return httperr.BadRequest("Invalid request body.").WithCause(err)
	}

	patch := req.Patch()
	if len(patch) == 0 {
		return httperr.BadRequest("No valid fields to update were provided.")
	}

	code, err := h.qrService.GetByShortCode(c.UserContext(), c.Params("shortCode"))
	if err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return httperr.NotFound("This QR short code is not valid.")
		}
		return httperr.Database("Failed to update QR code.").WithCause(err)
	}

	if decision := authz.Authorize(id, code.OwnerID); !decision.Allowed {
		return httperr.Forbidden("You do not have permission to access this QR code.")
	}

	if err := h.qrService.Update(c.UserContext(), code, patch); err != nil {
		return httperr.Database("Failed to update QR code.").WithCause(err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.UpdateResponse{
		Message: "QR Code updated successfully.",
		Changes: patch,
	})
}

// Delete handles DELETE /qrcodes/:shortCode.
func (h *QRCodeHandler) Delete(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	code, err := h.qrService.GetByShortCode(c.UserContext(), c.Params("shortCode"))
	if err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return httperr.NotFound("This QR short code is not valid.")
		}
		return httperr.Database("Failed to delete QR code.").WithCause(err)
	}

	if decision := authz.Authorize(id, code.OwnerID); !decision.Allowed {
		return httperr.Forbidden("You do not have permission to access this QR code.")
	}

	if err := h.qrService.Delete(c.UserContext(), code); err != nil {
		return httperr.Database("Failed to delete QR code.").WithCause(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
