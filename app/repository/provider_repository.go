package repository

import (
	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
)

// providerConfigRepository implements the ProviderConfigRepository interface
type providerConfigRepository struct {
	db *gorm.DB
}

// NewProviderConfigRepository creates a new provider config repository instance
func NewProviderConfigRepository(db *gorm.DB) ProviderConfigRepository {
	return &providerConfigRepository{db: db}
}

// Create inserts a new provider configuration
func (r *providerConfigRepository) Create(config *models.ProviderConfig) error {
	return r.db.Create(config).Error
}

// GetByID retrieves a provider configuration by ID
func (r *providerConfigRepository) GetByID(id uint) (*models.ProviderConfig, error) {
	var config models.ProviderConfig
	err := r.db.First(&config, id).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Update saves an existing provider configuration
func (r *providerConfigRepository) Update(config *models.ProviderConfig) error {
	return r.db.Save(config).Error
}

// Delete removes a provider configuration by ID
func (r *providerConfigRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProviderConfig{}, id).Error
}

// List retrieves all provider configurations
func (r *providerConfigRepository) List() ([]models.ProviderConfig, error) {
	var configs []models.ProviderConfig
	err := r.db.Order("id").Find(&configs).Error
	return configs, err
}

// ListActive retrieves all active provider configurations
func (r *providerConfigRepository) ListActive() ([]models.ProviderConfig, error) {
	var configs []models.ProviderConfig
	err := r.db.Where("active = ?", true).Order("id").Find(&configs).Error
	return configs, err
}

// GetActive returns the first active configuration for a provider and
// capability. Ordering by id keeps the selection deterministic; with multiple
// active rows for the same provider the oldest row wins.
func (r *providerConfigRepository) GetActive(provider string, capability models.Capability) (*models.ProviderConfig, error) {
	var config models.ProviderConfig
	query := r.db.Where("provider = ? AND active = ?", provider, true)
	switch capability {
	case models.CapabilityTTS:
		query = query.Where("is_tts = ?", true)
	case models.CapabilitySTT:
		query = query.Where("is_stt = ?", true)
	case models.CapabilityClone:
		query = query.Where("is_clone = ?", true)
	}
	err := query.Order("id").First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// AddCreditsUsed atomically increments the cumulative usage counter. The
// counter only ever grows; the increment happens in the database so concurrent
// billable calls cannot lose updates.
func (r *providerConfigRepository) AddCreditsUsed(configID uint, credits int64) error {
	return r.db.Model(&models.ProviderConfig{}).
		Where("id = ?", configID).
		Update("credits_used", gorm.Expr("credits_used + ?", credits)).Error
}

// ToggleActive bulk-flips the active flag for a set of configurations and
// cascades the same flag to all voices belonging to them, so a voice is only
// orderable while its owning configuration is active.
func (r *providerConfigRepository) ToggleActive(ids []uint, activate bool) (int64, error) {
	var updated int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProviderConfig{}).
			Where("id IN ?", ids).
			Update("active", activate)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected

		return tx.Model(&models.Voice{}).
			Where("config_id IN ?", ids).
			Update("is_active", activate).Error
	})
	return updated, err
}
