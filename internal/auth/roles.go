package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/pollution-service/pkg/util/errorutil"
)

// RequireAdmin ensures the resolved identity carries the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !identity.IsAdmin() {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}
