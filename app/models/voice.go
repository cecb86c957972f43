package models

import "time"

// Voice is a catalog entry for a synthesis voice owned by a provider
// configuration. Rows are bulk-upserted by the voice catalog sync and read by
// the TTS flow; a voice is only orderable while its owning config is active.
type Voice struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Language     string         `gorm:"type:varchar(50)" json:"language"`
	LanguageCode string         `gorm:"type:varchar(20)" json:"language_code"`
	VoiceCode    string         `gorm:"type:varchar(50)" json:"voice_code"`
	Country      string         `gorm:"type:varchar(50);default:null" json:"country,omitempty"`
	VoiceName    string         `gorm:"type:varchar(100)" json:"voice_name"`
	VoiceID      string         `gorm:"type:varchar(255);index:ux_voices_config_voice,unique,priority:2" json:"voice_id"`
	Gender       string         `gorm:"type:varchar(20)" json:"gender"`
	SampleURL    string         `gorm:"type:varchar(500);default:null" json:"sample_url,omitempty"`
	StyleList    string         `gorm:"type:varchar(255);default:null" json:"style_list,omitempty"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	ConfigID     uint           `gorm:"not null;index:ux_voices_config_voice,unique,priority:1" json:"config_id"`
	Config       ProviderConfig `gorm:"foreignKey:ConfigID" json:"-"`
	UpdatedOn    time.Time      `gorm:"autoUpdateTime" json:"updated_on"`
}
