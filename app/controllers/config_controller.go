package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/security"
)

// configResponse serializes a provider configuration with its credential
// masked. Raw keys never leave the server once stored.
func configResponse(config *models.ProviderConfig) fiber.Map {
	return fiber.Map{
		"id":               config.ID,
		"provider":         config.Provider,
		"model_name":       config.ModelName,
		"api_key":          security.MaskSecret(config.APIKey),
		"region":           config.Region,
		"token_multiplier": config.TokenMultiplier,
		"active":           config.Active,
		"is_stt":           config.IsSTT,
		"is_tts":           config.IsTTS,
		"is_clone":         config.IsClone,
		"credits_used":     config.CreditsUsed,
		"created_at":       config.CreatedAt,
		"updated_at":       config.UpdatedAt,
	}
}

func configListResponse(configs []models.ProviderConfig) []fiber.Map {
	out := make([]fiber.Map, 0, len(configs))
	for i := range configs {
		out = append(out, configResponse(&configs[i]))
	}
	return out
}

type configRequest struct {
	Provider        string  `json:"provider"`
	ModelName       string  `json:"model_name"`
	APIKey          string  `json:"api_key"`
	Region          string  `json:"region"`
	TokenMultiplier float64 `json:"token_multiplier"`
	Active          *bool   `json:"active"`
	IsSTT           *bool   `json:"is_stt"`
	IsTTS           *bool   `json:"is_tts"`
	IsClone         *bool   `json:"is_clone"`
}

// applyConfigUpdate merges a partial update into an existing configuration.
// Empty strings and nil booleans keep the stored values, so a request that
// only rotates the api_key cannot strip capabilities or reset the multiplier.
func applyConfigUpdate(config *models.ProviderConfig, req configRequest) {
	if req.Provider != "" {
		config.Provider = req.Provider
	}
	if req.ModelName != "" {
		config.ModelName = req.ModelName
	}
	if req.APIKey != "" {
		config.APIKey = req.APIKey
	}
	if req.Region != "" {
		config.Region = req.Region
	}
	if req.TokenMultiplier != 0 {
		config.TokenMultiplier = req.TokenMultiplier
	}
	if req.Active != nil {
		config.Active = *req.Active
	}
	if req.IsSTT != nil {
		config.IsSTT = *req.IsSTT
	}
	if req.IsTTS != nil {
		config.IsTTS = *req.IsTTS
	}
	if req.IsClone != nil {
		config.IsClone = *req.IsClone
	}
}

// HandleListConfigs returns all provider configurations (admin only).
func HandleListConfigs(c *fiber.Ctx) error {
	configs, err := repository.GetGlobalFactory().GetProviderConfigRepository().List()
	if err != nil {
		log.Printf("failed to list provider configs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load configurations"})
	}
	return c.JSON(fiber.Map{"configs": configListResponse(configs), "count": len(configs)})
}

// HandleListActiveConfigs returns active configurations for authenticated
// users picking a provider. Credentials stay masked here too.
func HandleListActiveConfigs(c *fiber.Ctx) error {
	configs, err := repository.GetGlobalFactory().GetProviderConfigRepository().ListActive()
	if err != nil {
		log.Printf("failed to list active configs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load configurations"})
	}
	return c.JSON(fiber.Map{"configs": configListResponse(configs), "count": len(configs)})
}

// HandleGetConfig returns one configuration (admin only).
func HandleGetConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	config, err := repository.GetGlobalFactory().GetProviderConfigRepository().GetByID(uint(id))
	if err != nil {
		return respondNotFoundOrInternal(c, err, "configuration")
	}
	return c.JSON(configResponse(config))
}

// HandleCreateConfig creates a provider configuration (admin only) and pulls
// the vendor's voice catalog for it.
func HandleCreateConfig(c *fiber.Ctx) error {
	var req configRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}

	config := &models.ProviderConfig{
		Provider:        req.Provider,
		ModelName:       req.ModelName,
		APIKey:          req.APIKey,
		Region:          req.Region,
		TokenMultiplier: req.TokenMultiplier,
		Active:          true,
		IsSTT:           req.IsSTT != nil && *req.IsSTT,
		IsTTS:           req.IsTTS != nil && *req.IsTTS,
		IsClone:         req.IsClone != nil && *req.IsClone,
	}
	if req.Active != nil {
		config.Active = *req.Active
	}

	if err := config.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "token_multiplier must be greater than 1.0 and provider/model_name are required"})
	}

	if err := repository.GetGlobalFactory().GetProviderConfigRepository().Create(config); err != nil {
		log.Printf("failed to create provider config: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create configuration"})
	}

	synced := syncVoices(c, config)

	resp := configResponse(config)
	resp["voices_synced"] = synced
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleUpdateConfig updates a provider configuration (admin only). An empty
// api_key in the body keeps the stored credential.
func HandleUpdateConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	repo := repository.GetGlobalFactory().GetProviderConfigRepository()
	config, err := repo.GetByID(uint(id))
	if err != nil {
		return respondNotFoundOrInternal(c, err, "configuration")
	}

	var req configRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}

	applyConfigUpdate(config, req)

	if err := config.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "token_multiplier must be greater than 1.0 and provider/model_name are required"})
	}

	if err := repo.Update(config); err != nil {
		log.Printf("failed to update provider config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update configuration"})
	}

	synced := syncVoices(c, config)

	resp := configResponse(config)
	resp["voices_synced"] = synced
	return c.JSON(resp)
}

// HandleDeleteConfig deletes a configuration and its voice catalog (admin only).
func HandleDeleteConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetProviderConfigRepository().GetByID(uint(id)); err != nil {
		return respondNotFoundOrInternal(c, err, "configuration")
	}

	if err := factory.GetVoiceRepository().DeleteByConfig(uint(id)); err != nil {
		log.Printf("failed to delete voices for config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete configuration"})
	}
	if err := factory.GetProviderConfigRepository().Delete(uint(id)); err != nil {
		log.Printf("failed to delete provider config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete configuration"})
	}

	return c.JSON(fiber.Map{"deleted": true})
}

type toggleRequest struct {
	IDs      []uint `json:"ids"`
	Activate bool   `json:"activate"`
}

// HandleToggleConfigs bulk-activates or deactivates configurations (admin
// only). The flag cascades to the voices each configuration owns.
func HandleToggleConfigs(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}
	if len(req.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "ids is required"})
	}

	updated, err := repository.GetGlobalFactory().GetProviderConfigRepository().ToggleActive(req.IDs, req.Activate)
	if err != nil {
		log.Printf("failed to toggle provider configs %v: %v", req.IDs, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to toggle configurations"})
	}

	return c.JSON(fiber.Map{"updated": updated, "activate": req.Activate})
}

// HandleListVoicesByConfig returns the synced voice catalog for one
// configuration.
func HandleListVoicesByConfig(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid config id"})
	}

	voices, err := repository.GetGlobalFactory().GetVoiceRepository().ListByConfig(uint(id))
	if err != nil {
		log.Printf("failed to list voices for config %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load voices"})
	}

	return c.JSON(fiber.Map{"voices": voices, "count": len(voices)})
}

// HandleListActiveVoices returns all orderable voices across active
// configurations.
func HandleListActiveVoices(c *fiber.Ctx) error {
	voices, err := repository.GetGlobalFactory().GetVoiceRepository().ListActive()
	if err != nil {
		log.Printf("failed to list active voices: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load voices"})
	}

	return c.JSON(fiber.Map{"voices": voices, "count": len(voices)})
}

// syncVoices refreshes the voice catalog after a config write. Sync failures
// do not fail the write; the config is stored either way.
func syncVoices(c *fiber.Ctx, config *models.ProviderConfig) int {
	n, err := getSyncer().SyncConfig(c.UserContext(), config)
	if err != nil {
		log.Printf("voice sync failed for config %d (%s): %v", config.ID, config.Provider, err)
		return 0
	}
	return n
}
