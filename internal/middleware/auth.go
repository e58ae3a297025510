package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"contacts-admin/internal/config"
	"contacts-admin/internal/utils"
)

// AuthMiddleware requires a valid HS256 bearer token and stores its claims
// in the request locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization header is required", nil)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization header format", nil)
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(parts[1]), cfg.JWTSecret)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// AdminOnly lets through admins and service tokens.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != "admin" && role != "service" {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin access required", nil)
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0.
func UserID(c *fiber.Ctx) int {
	id, _ := c.Locals("user_id").(int)
	return id
}
