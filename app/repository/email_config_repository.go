package repository

import (
	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
)

// emailConfigRepository implements the EmailConfigRepository interface
type emailConfigRepository struct {
	db *gorm.DB
}

// NewEmailConfigRepository creates a new email config repository instance
func NewEmailConfigRepository(db *gorm.DB) EmailConfigRepository {
	return &emailConfigRepository{db: db}
}

func (r *emailConfigRepository) Create(config *models.EmailConfig) error {
	return r.db.Create(config).Error
}

func (r *emailConfigRepository) GetByID(id uint) (*models.EmailConfig, error) {
	var config models.EmailConfig
	err := r.db.First(&config, id).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *emailConfigRepository) Update(config *models.EmailConfig) error {
	return r.db.Save(config).Error
}

func (r *emailConfigRepository) Delete(id uint) error {
	return r.db.Delete(&models.EmailConfig{}, id).Error
}

func (r *emailConfigRepository) List() ([]models.EmailConfig, error) {
	var configs []models.EmailConfig
	err := r.db.Order("id").Find(&configs).Error
	return configs, err
}

// GetDefault returns the active default SMTP configuration. The mailer
// resolves this per send and receives it as a parameter object.
func (r *emailConfigRepository) GetDefault() (*models.EmailConfig, error) {
	var config models.EmailConfig
	err := r.db.Where("is_active = ? AND is_default = ?", true, true).Order("id").First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}
