package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/identity"
)

const identityKey = "identity"

// RequireAuth extracts the bearer credential and verifies it against the
// injected verifier. A missing or malformed header is 401; a credential that
// is present but fails verification is 403.
func RequireAuth(verifier identity.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return httperr.Unauthorized("Unauthorized: No token provided.")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		id, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return httperr.Forbidden("Forbidden: Invalid token.").WithCause(err)
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// CurrentIdentity returns the identity attached by RequireAuth, if any.
func CurrentIdentity(c *fiber.Ctx) (*identity.Identity, bool) {
	id, ok := c.Locals(identityKey).(*identity.Identity)
	return id, ok && id != nil
}
