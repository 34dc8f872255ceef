package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shelfmark/shelfmark/internal/types"
)

// maxUserIDLen matches the users.user_id column width.
const maxUserIDLen = 255

// RequireUser extracts the pre-authenticated owner identity from the
// X-User-Id header and stores it in the request context. Authentication
// itself happens upstream (gateway/proxy); this service only requires the
// token to be present and within column bounds.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-Id")
		if userID == "" {
			return types.NewCustomError(
				fiber.StatusForbidden,
				"X-User-Id header not found",
				"authorization.user",
			)
		}
		if len(userID) > maxUserIDLen {
			return types.NewCustomError(
				fiber.StatusForbidden,
				"X-User-Id header exceeds 255 characters",
				"authorization.user",
			)
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}
