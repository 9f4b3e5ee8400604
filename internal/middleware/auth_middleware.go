package middleware

import (
	"strings"

	"fripe/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenResolver resolves a bearer token to the account that owns it.
type TokenResolver interface {
	GetByToken(token string) (*models.User, error)
}

// UserKey is the Locals key under which the authenticated account is stored.
const UserKey = "user"

// AuthRequired is a Fiber middleware that gates a route behind a valid
// bearer token. Every failure (missing header, malformed token, no matching
// account) answers the same 401 body so accounts cannot be enumerated.
func AuthRequired(accounts TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return unauthorized(c)
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		user, err := accounts.GetByToken(token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// UserFromContext returns the account attached by AuthRequired, or nil when
// the route was not gated.
func UserFromContext(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "unauthorized",
	})
}
