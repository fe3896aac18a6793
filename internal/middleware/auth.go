package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/utils"
)

const userContextKey = "currentUserID"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// AuthMiddleware validates the session cookie and loads the authenticated
// user ID into context. Requests without a valid token never reach the
// protected handlers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookieName)
		if cookie == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Not Authorized. Login Again")
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, cookie)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Not Authorized. Login Again")
		}

		c.Locals(userContextKey, userID)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
