package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a user account and returns its raw API key. The key
// is only shown once; the server keeps the hash.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	apiKey, err := user.GenerateAPIKey()
	if err != nil {
		log.Printf("failed to generate api key: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create account"})
	}

	if err := repository.GetGlobalFactory().GetUserRepository().Create(user); err != nil {
		return respondCreateUserError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"api_key": apiKey,
	})
}

// respondCreateUserError maps a failed user insert. The unique index on the
// email column decides duplicates, so a duplicate-key error from the insert
// itself is a conflict, not a server error. A check-then-create would race
// against a concurrent registration of the same address.
func respondCreateUserError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Email already registered"})
	}
	log.Printf("failed to create user: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create account"})
}

// HandleGetAccount returns the authenticated user's account information plus
// their active subscription if one exists.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	account, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return respondNotFoundOrInternal(c, err, "user")
	}

	sub, err := ledger().GetActiveEntitlement(userCtx.UserID)
	if err != nil {
		log.Printf("failed to load subscription for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load account"})
	}

	response := fiber.Map{
		"id":            account.ID,
		"name":          account.Name,
		"email":         account.Email,
		"role":          account.Role,
		"status":        account.Status,
		"created_at":    account.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at": formatTimePtr(account.LastLoginAt),
	}
	if sub != nil {
		response["subscription"] = fiber.Map{
			"plan_id":           sub.SubscriptionID,
			"character_credits": sub.CharacterCredits,
			"voice_credits":     sub.VoiceCredits,
			"end_date":          formatTimePtr(sub.EndDate),
			"expired":           sub.IsExpired(timeNow()),
		}
	}

	return c.JSON(response)
}

// HandleRotateAPIKey replaces the authenticated user's API key and returns the
// new raw key once.
func HandleRotateAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return respondNotFoundOrInternal(c, err, "user")
	}

	apiKey, err := user.GenerateAPIKey()
	if err != nil {
		log.Printf("failed to rotate api key for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to rotate API key"})
	}
	if err := repo.Update(user); err != nil {
		log.Printf("failed to store rotated api key for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to rotate API key"})
	}

	return c.JSON(fiber.Map{"api_key": apiKey})
}

// HandleListUsers returns a paginated user listing (admin only).
func HandleListUsers(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	users, err := repo.List(offset, limit)
	if err != nil {
		log.Printf("failed to list users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load users"})
	}
	total, err := repo.Count()
	if err != nil {
		log.Printf("failed to count users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load users"})
	}

	return c.JSON(fiber.Map{"users": users, "total": total, "offset": offset, "limit": limit})
}
