package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/entitlements"
	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
)

func ledger() *entitlements.Ledger {
	return entitlements.NewLedger(repository.GetGlobalFactory().GetEntitlementRepository())
}

// HandleListPlans returns the plan catalog. Readable by any authenticated user.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().List()
	if err != nil {
		log.Printf("failed to list plans: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load plans"})
	}
	return c.JSON(fiber.Map{"plans": plans, "count": len(plans)})
}

// HandleGetPlan returns one plan by id.
func HandleGetPlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid plan id"})
	}

	plan, err := repository.GetGlobalFactory().GetPlanRepository().GetByID(uint(id))
	if err != nil {
		return respondNotFoundOrInternal(c, err, "plan")
	}
	return c.JSON(plan)
}

// HandleCreatePlan creates a catalog plan (admin only).
func HandleCreatePlan(c *fiber.Ctx) error {
	var plan models.SubscriptionPlan
	if err := c.BodyParser(&plan); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}
	plan.ID = 0

	if err := plan.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	if err := repository.GetGlobalFactory().GetPlanRepository().Create(&plan); err != nil {
		log.Printf("failed to create plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create plan"})
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// HandleUpdatePlan updates a catalog plan (admin only).
func HandleUpdatePlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid plan id"})
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(uint(id))
	if err != nil {
		return respondNotFoundOrInternal(c, err, "plan")
	}

	if err := c.BodyParser(plan); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}
	plan.ID = uint(id)

	if err := plan.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	if err := repo.Update(plan); err != nil {
		log.Printf("failed to update plan %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update plan"})
	}
	return c.JSON(plan)
}

// HandleDeletePlan deletes a catalog plan (admin only). Existing entitlements
// keep their copied limits; only the catalog entry goes away.
func HandleDeletePlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid plan id"})
	}

	if err := repository.GetGlobalFactory().GetPlanRepository().Delete(uint(id)); err != nil {
		log.Printf("failed to delete plan %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete plan"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

type subscribeRequest struct {
	PlanID    uint   `json:"plan_id"`
	PaymentID string `json:"payment_id"`
}

// HandleSubscribe grants the authenticated user a subscription to a plan. A
// user with an existing active subscription gets a conflict.
func HandleSubscribe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}
	if req.PlanID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "plan_id is required"})
	}

	return grantSubscription(c, userCtx.UserID, req.PlanID, req.PaymentID)
}

type assignRequest struct {
	UserID    uint   `json:"user_id"`
	PlanID    uint   `json:"plan_id"`
	PaymentID string `json:"payment_id"`
}

// HandleAssignSubscription grants a subscription to an arbitrary user (admin
// only).
func HandleAssignSubscription(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}
	if req.UserID == 0 || req.PlanID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "user_id and plan_id are required"})
	}

	if _, err := repository.GetGlobalFactory().GetUserRepository().GetByID(req.UserID); err != nil {
		return respondNotFoundOrInternal(c, err, "user")
	}

	return grantSubscription(c, req.UserID, req.PlanID, req.PaymentID)
}

func grantSubscription(c *fiber.Ctx, userID, planID uint, paymentID string) error {
	plan, err := repository.GetGlobalFactory().GetPlanRepository().GetByID(planID)
	if err != nil {
		return respondNotFoundOrInternal(c, err, "plan")
	}

	if paymentID == "" {
		paymentID = uuid.NewString()
	}

	sub, err := ledger().Grant(userID, plan, paymentID)
	if err != nil {
		if errors.Is(err, entitlements.ErrAlreadySubscribed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "User already has an active subscription"})
		}
		log.Printf("failed to grant subscription to user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create subscription"})
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleRevokeSubscription deactivates a user's active subscription (admin
// only). The row is kept as history.
func HandleRevokeSubscription(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("user_id"))
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid user id"})
	}

	revoked, err := ledger().Revoke(uint(userID))
	if err != nil {
		log.Printf("failed to revoke subscription for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to revoke subscription"})
	}
	if !revoked {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No active subscription"})
	}

	return c.JSON(fiber.Map{"revoked": true})
}

// HandleMySubscription returns the authenticated user's active subscription,
// including whether it has lapsed. Expired rows are reported as-is; nothing is
// deactivated by reading.
func HandleMySubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	sub, err := ledger().GetActiveEntitlement(userCtx.UserID)
	if err != nil {
		log.Printf("failed to load subscription for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}
	if sub == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No active subscription"})
	}

	return c.JSON(fiber.Map{
		"subscription": sub,
		"expired":      sub.IsExpired(timeNow()),
	})
}
