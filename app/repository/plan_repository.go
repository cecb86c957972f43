package repository

import (
	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
)

// subscriptionPlanRepository implements the SubscriptionPlanRepository interface
type subscriptionPlanRepository struct {
	db *gorm.DB
}

// NewSubscriptionPlanRepository creates a new plan repository instance
func NewSubscriptionPlanRepository(db *gorm.DB) SubscriptionPlanRepository {
	return &subscriptionPlanRepository{db: db}
}

// Create inserts a new subscription plan
func (r *subscriptionPlanRepository) Create(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

// GetByID retrieves a subscription plan by ID
func (r *subscriptionPlanRepository) GetByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update saves an existing subscription plan
func (r *subscriptionPlanRepository) Update(plan *models.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}

// Delete removes a subscription plan by ID
func (r *subscriptionPlanRepository) Delete(id uint) error {
	return r.db.Delete(&models.SubscriptionPlan{}, id).Error
}

// List retrieves all subscription plans
func (r *subscriptionPlanRepository) List() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.Order("id").Find(&plans).Error
	return plans, err
}
