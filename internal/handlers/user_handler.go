package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/dto"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/middleware"
	"github.com/qrtrail/qrtrail-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	qrService   *services.QRCodeService
}

func NewUserHandler(userService *services.UserService, qrService *services.QRCodeService) *UserHandler {
	return &UserHandler{userService: userService, qrService: qrService}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	user, err := h.userService.Get(c.UserContext(), id.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return httperr.NotFound("User profile not found.")
		}
		return httperr.Database("Failed to fetch user profile.").WithCause(err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// CreateProfile handles POST /users/me - stores the profile row for an
// identity the provider has already registered.
func (h *UserHandler) CreateProfile(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	var req dto.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return httperr.BadRequest("Invalid request body.").WithCause(err)
	}
	if req.Email == "" {
		req.Email = id.Email
	}

	user, err := h.userService.CreateProfile(c.UserContext(), id.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			return httperr.BadRequest("User profile already exists.")
		}
		return httperr.Database("Failed to create user profile.").WithCause(err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateMe handles PUT /users/me.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return httperr.BadRequest("Invalid request body.").WithCause(err)
	}

	patch := req.Patch()
	if len(patch) == 0 {
		return httperr.BadRequest("No valid fields to update were provided.")
	}

	if err := h.userService.UpdateProfile(c.UserContext(), id.ID, patch); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return httperr.NotFound("User profile not found.")
		}
		return httperr.Database("Failed to update user profile.").WithCause(err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.UpdateResponse{
		Message: "Profile updated successfully",
		Changes: patch,
	})
}

// DeleteMe handles DELETE /users/me - the full cascade over everything the
// account owns.
func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}

	if err := h.userService.DeleteAccount(c.UserContext(), id.ID); err != nil {
		return httperr.CascadingDelete("Failed to delete all associated data.").WithCause(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// MyQRCodes handles GET /users/me/qrcodes, an alias of GET /qrcodes.
func (h *UserHandler) MyQRCodes(c *fiber.Ctx) error {
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

// Identity handles GET /auth/me - echoes the verified identity.
func (h *UserHandler) Identity(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return httperr.Unauthorized("Unauthorized: No user found.")
	}
	return c.Status(fiber.StatusOK).JSON(dto.IdentityResponse{
		UserID:  id.ID,
		Email:   id.Email,
		IsAdmin: id.IsAdmin,
	})
}
