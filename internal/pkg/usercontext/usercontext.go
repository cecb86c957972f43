package usercontext

import (
	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/gofiber/fiber/v2"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// IsPrivileged reports whether the request runs with unconditional
// entitlement. This is the single predicate every metering check consults;
// role comparisons are not repeated at call sites.
func (u UserContext) IsPrivileged() bool {
	return u.Role == models.ROLE_ADMIN || u.Role == models.ROLE_SUB_ADMIN
}

// IsAdmin reports whether the current user holds the admin role
func (u UserContext) IsAdmin() bool {
	return u.Role == models.ROLE_ADMIN
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
