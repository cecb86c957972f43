package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/mail"
	"github.com/VoiceAsService/VoxGate/internal/pkg/security"
)

func emailConfigResponse(config *models.EmailConfig) fiber.Map {
	return fiber.Map{
		"id":         config.ID,
		"host":       config.Host,
		"port":       config.Port,
		"username":   config.Username,
		"password":   security.MaskSecret(config.Password),
		"use_tls":    config.UseTLS,
		"sender":     config.Sender,
		"is_active":  config.IsActive,
		"is_default": config.IsDefault,
		"created_at": config.CreatedAt,
		"updated_at": config.UpdatedAt,
	}
}

// HandleListEmailConfigs returns stored SMTP configurations with passwords
// masked (admin only).
func HandleListEmailConfigs(c *fiber.Ctx) error {
	configs, err := repository.GetGlobalFactory().GetEmailConfigRepository().List()
	if err != nil {
		log.Printf("failed to list email configs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load email configurations"})
	}

	out := make([]fiber.Map, 0, len(configs))
	for i := range configs {
		out = append(out, emailConfigResponse(&configs[i]))
	}
	return c.JSON(fiber.Map{"configs": out, "count": len(out)})
}

// HandleCreateEmailConfig stores an SMTP configuration (admin only).
func HandleCreateEmailConfig(c *fiber.Ctx) error {
	var config models.EmailConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}
	config.ID = 0

	if config.Host == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "host is required"})
	}
	if config.Port == 0 {
		config.Port = 587
	}

	if err := repository.GetGlobalFactory().GetEmailConfigRepository().Create(&config); err != nil {
		log.Printf("failed to create email config: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create email configuration"})
	}
	return c.Status(fiber.StatusCreated).JSON(emailConfigResponse(&config))
}

// HandleUpdateEmailConfig updates an SMTP configuration (admin only). An empty
// password keeps the stored credential.
func HandleUpdateEmailConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	repo := repository.GetGlobalFactory().GetEmailConfigRepository()
	config, err := repo.GetByID(uint(id))
	if err != nil {
		return respondNotFoundOrInternal(c, err, "email configuration")
	}

	var req models.EmailConfig
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}

	if req.Host != "" {
		config.Host = req.Host
	}
	if req.Port != 0 {
		config.Port = req.Port
	}
	if req.Username != "" {
		config.Username = req.Username
	}
	if req.Password != "" {
		config.Password = req.Password
	}
	if req.Sender != "" {
		config.Sender = req.Sender
	}
	config.UseTLS = req.UseTLS
	config.IsActive = req.IsActive
	config.IsDefault = req.IsDefault

	if err := repo.Update(config); err != nil {
		log.Printf("failed to update email config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update email configuration"})
	}
	return c.JSON(emailConfigResponse(config))
}

// HandleDeleteEmailConfig deletes an SMTP configuration (admin only).
func HandleDeleteEmailConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	if err := repository.GetGlobalFactory().GetEmailConfigRepository().Delete(uint(id)); err != nil {
		log.Printf("failed to delete email config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete email configuration"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

type testMailRequest struct {
	To string `json:"to"`
}

// HandleSendTestMail sends a test message through the stored default SMTP
// configuration (admin only). The settings are resolved here and passed to the
// mailer per call.
func HandleSendTestMail(c *fiber.Ctx) error {
	var req testMailRequest
	if err := c.BodyParser(&req); err != nil || req.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "to is required"})
	}

	config, err := repository.GetGlobalFactory().GetEmailConfigRepository().GetDefault()
	if err != nil {
		return respondNotFoundOrInternal(c, err, "default email configuration")
	}

	if err := mail.SendMail(mail.ConfigFromModel(config), req.To, "VoxGate test mail", "<p>SMTP configuration works.</p>"); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "mail_failed", "message": "Test mail could not be sent"})
	}
	return c.JSON(fiber.Map{"sent": true})
}
