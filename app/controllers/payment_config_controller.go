package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/security"
)

func paymentConfigResponse(config *models.PaymentConfig) fiber.Map {
	return fiber.Map{
		"id":          config.ID,
		"gateway":     config.Gateway,
		"public_key":  config.PublicKey,
		"secret_key":  security.MaskSecret(config.SecretKey),
		"webhook_url": config.WebhookURL,
		"is_active":   config.IsActive,
		"is_default":  config.IsDefault,
		"created_at":  config.CreatedAt,
		"updated_at":  config.UpdatedAt,
	}
}

// HandleListPaymentConfigs returns stored gateway configurations with secrets
// masked (admin only).
func HandleListPaymentConfigs(c *fiber.Ctx) error {
	configs, err := repository.GetGlobalFactory().GetPaymentConfigRepository().List()
	if err != nil {
		log.Printf("failed to list payment configs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payment configurations"})
	}

	out := make([]fiber.Map, 0, len(configs))
	for i := range configs {
		out = append(out, paymentConfigResponse(&configs[i]))
	}
	return c.JSON(fiber.Map{"configs": out, "count": len(out)})
}

// HandleCreatePaymentConfig stores a gateway configuration (admin only).
func HandleCreatePaymentConfig(c *fiber.Ctx) error {
	var config models.PaymentConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}
	config.ID = 0

	if config.Gateway == "" || config.SecretKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "gateway and secret_key are required"})
	}

	if err := repository.GetGlobalFactory().GetPaymentConfigRepository().Create(&config); err != nil {
		log.Printf("failed to create payment config: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create payment configuration"})
	}
	return c.Status(fiber.StatusCreated).JSON(paymentConfigResponse(&config))
}

// HandleUpdatePaymentConfig updates a gateway configuration (admin only). An
// empty secret_key keeps the stored credential.
func HandleUpdatePaymentConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	repo := repository.GetGlobalFactory().GetPaymentConfigRepository()
	config, err := repo.GetByID(uint(id))
	if err != nil {
		return respondNotFoundOrInternal(c, err, "payment configuration")
	}

	var req models.PaymentConfig
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}

	if req.Gateway != "" {
		config.Gateway = req.Gateway
	}
	if req.PublicKey != "" {
		config.PublicKey = req.PublicKey
	}
	if req.SecretKey != "" {
		config.SecretKey = req.SecretKey
	}
	if req.WebhookURL != "" {
		config.WebhookURL = req.WebhookURL
	}
	config.IsActive = req.IsActive
	config.IsDefault = req.IsDefault

	if err := repo.Update(config); err != nil {
		log.Printf("failed to update payment config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update payment configuration"})
	}
	return c.JSON(paymentConfigResponse(config))
}

// HandleDeletePaymentConfig deletes a gateway configuration (admin only).
func HandleDeletePaymentConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	if err := repository.GetGlobalFactory().GetPaymentConfigRepository().Delete(uint(id)); err != nil {
		log.Printf("failed to delete payment config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete payment configuration"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
