package repository

import (
	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// voiceRepository implements the VoiceRepository interface
type voiceRepository struct {
	db *gorm.DB
}

// NewVoiceRepository creates a new voice catalog repository instance
func NewVoiceRepository(db *gorm.DB) VoiceRepository {
	return &voiceRepository{db: db}
}

// ListByConfig retrieves all voices belonging to a provider configuration
func (r *voiceRepository) ListByConfig(configID uint) ([]models.Voice, error) {
	var voices []models.Voice
	err := r.db.Where("config_id = ?", configID).Find(&voices).Error
	return voices, err
}

// ListActive retrieves all orderable voices
func (r *voiceRepository) ListActive() ([]models.Voice, error) {
	var voices []models.Voice
	err := r.db.Where("is_active = ?", true).Find(&voices).Error
	return voices, err
}

// UpsertByVoiceID creates or refreshes a catalog row keyed by (config_id, voice_id).
// Population jobs run this for every voice a vendor lists, so reruns must not
// duplicate rows.
func (r *voiceRepository) UpsertByVoiceID(voice *models.Voice) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "config_id"},
			{Name: "voice_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"language",
			"language_code",
			"voice_code",
			"country",
			"voice_name",
			"gender",
			"sample_url",
			"style_list",
			"is_active",
			"updated_on",
		}),
	}).Create(voice).Error
}

// DeleteByConfig removes all voices belonging to a provider configuration
func (r *voiceRepository) DeleteByConfig(configID uint) error {
	return r.db.Where("config_id = ?", configID).Delete(&models.Voice{}).Error
}
