package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
)

// RequireAdmin ensures the authenticated user holds the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Authentication required"})
	}
	if !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Admin access required"})
	}
	return c.Next()
}

// RequirePrivileged ensures the authenticated user is an admin or sub-admin.
func RequirePrivileged(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Authentication required"})
	}
	if !user.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Elevated access required"})
	}
	return c.Next()
}
