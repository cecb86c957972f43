package repository

import (
	"time"

	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entitlementRepository implements the EntitlementRepository interface
type entitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

// GetActiveByUserID retrieves the user's single active entitlement row
func (r *entitlementRepository) GetActiveByUserID(userID uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("Subscription").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// HasActive reports whether an active entitlement row exists for the user
func (r *entitlementRepository) HasActive(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new entitlement row
func (r *entitlementRepository) Create(sub *models.UserSubscription) error {
	return r.db.Create(sub).Error
}

// CreateIfNoneActive inserts a new entitlement row unless the user already has
// an active one. The existence check takes a locking read inside the insert's
// transaction; an application-level check-then-create would let two concurrent
// grants both observe no row and both insert one.
func (r *entitlementRepository) CreateIfNoneActive(sub *models.UserSubscription) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserSubscription{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND is_active = ?", sub.UserID, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// Deactivate flips is_active on the user's active row. Returns false when no
// active row existed.
func (r *entitlementRepository) Deactivate(userID uint) (bool, error) {
	res := r.db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReserveCharacters performs the conditional decrement that serializes
// concurrent admissions for the same entitlement row. The balance and expiry
// checks live inside the UPDATE itself; an application-level read-modify-write
// would let two requests pass a check only one of them can satisfy.
func (r *entitlementRepository) ReserveCharacters(userID uint, amount int, now time.Time) (bool, error) {
	res := r.db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ? AND (end_date IS NULL OR end_date > ?) AND character_credits >= ?",
			userID, true, now, amount).
		Update("character_credits", gorm.Expr("character_credits - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SpendVoiceCredits decrements voice_credits with the same conditional shape.
func (r *entitlementRepository) SpendVoiceCredits(userID uint, amount int, now time.Time) (bool, error) {
	res := r.db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ? AND (end_date IS NULL OR end_date > ?) AND voice_credits >= ?",
			userID, true, now, amount).
		Update("voice_credits", gorm.Expr("voice_credits - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountActive returns the number of active entitlement rows
func (r *entitlementRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.UserSubscription{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
