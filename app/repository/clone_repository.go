package repository

import (
	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
)

// voiceCloneRepository implements the VoiceCloneRepository interface
type voiceCloneRepository struct {
	db *gorm.DB
}

// NewVoiceCloneRepository creates a new voice clone repository instance
func NewVoiceCloneRepository(db *gorm.DB) VoiceCloneRepository {
	return &voiceCloneRepository{db: db}
}

// Create inserts a new clone reference
func (r *voiceCloneRepository) Create(clone *models.VoiceClone) error {
	return r.db.Create(clone).Error
}

// ListByUser retrieves all clones owned by a user
func (r *voiceCloneRepository) ListByUser(userID uint) ([]models.VoiceClone, error) {
	var clones []models.VoiceClone
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&clones).Error
	return clones, err
}

// GetByCloneID retrieves a clone by its vendor-side identifier
func (r *voiceCloneRepository) GetByCloneID(cloneID string) (*models.VoiceClone, error) {
	var clone models.VoiceClone
	err := r.db.Where("clone_id = ?", cloneID).First(&clone).Error
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

// DeleteOwned removes a clone row only when it belongs to the given user.
// Returns false when nothing matched, so callers can distinguish "not yours"
// from "deleted".
func (r *voiceCloneRepository) DeleteOwned(userID uint, cloneID string) (bool, error) {
	res := r.db.Where("user_id = ? AND clone_id = ?", userID, cloneID).Delete(&models.VoiceClone{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
