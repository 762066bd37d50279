package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
)

// RequireAdmin checks the isAdmin flag on the verified identity. Downstream of
// RequireAuth an identity is always present, but the missing-identity case is
// still handled defensively as 401.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return httperr.Unauthorized("Unauthorized: No user found.")
		}
		if !id.IsAdmin {
			return httperr.Forbidden("Forbidden: Admin access required.")
		}
		return c.Next()
	}
}
