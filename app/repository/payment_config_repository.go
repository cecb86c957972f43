package repository

import (
	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
)

// paymentConfigRepository implements the PaymentConfigRepository interface
type paymentConfigRepository struct {
	db *gorm.DB
}

// NewPaymentConfigRepository creates a new payment config repository instance
func NewPaymentConfigRepository(db *gorm.DB) PaymentConfigRepository {
	return &paymentConfigRepository{db: db}
}

func (r *paymentConfigRepository) Create(config *models.PaymentConfig) error {
	return r.db.Create(config).Error
}

func (r *paymentConfigRepository) GetByID(id uint) (*models.PaymentConfig, error) {
	var config models.PaymentConfig
	err := r.db.First(&config, id).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *paymentConfigRepository) Update(config *models.PaymentConfig) error {
	return r.db.Save(config).Error
}

func (r *paymentConfigRepository) Delete(id uint) error {
	return r.db.Delete(&models.PaymentConfig{}, id).Error
}

func (r *paymentConfigRepository) List() ([]models.PaymentConfig, error) {
	var configs []models.PaymentConfig
	err := r.db.Order("id").Find(&configs).Error
	return configs, err
}
