package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Capability names a billable operation class a provider configuration can serve.
type Capability string

const (
	CapabilityTTS   Capability = "tts"
	CapabilitySTT   Capability = "stt"
	CapabilityClone Capability = "clone"
)

// ProviderConfig holds credentials and metering settings for one upstream
// voice-AI provider/model pair.
//
// TokenMultiplier must be strictly greater than 1.0 when a config is created or
// updated; the margin over raw usage is what the platform bills. Runtime code
// still clamps bad values at 1.0 so stored data can never shrink a charge.
type ProviderConfig struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Provider        string    `gorm:"type:varchar(100);not null;index" json:"provider" validate:"required,max=100"`
	ModelName       string    `gorm:"type:varchar(100);not null" json:"model_name" validate:"required,max=100"`
	APIKey          string    `gorm:"type:text" json:"-"` // key, or a file path for file-based credentials (GCP)
	Region          string    `gorm:"type:varchar(100);default:null" json:"region,omitempty"`
	TokenMultiplier float64   `gorm:"default:1" json:"token_multiplier" validate:"gt=1"`
	Active          bool      `gorm:"default:true;index" json:"active"`
	IsSTT           bool      `gorm:"default:false" json:"is_stt"`
	IsTTS           bool      `gorm:"default:false" json:"is_tts"`
	IsClone         bool      `gorm:"default:false" json:"is_clone"`
	CreditsUsed     int64     `gorm:"default:0" json:"credits_used"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *ProviderConfig) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// HasCapability reports whether the configuration serves the given operation class.
func (c *ProviderConfig) HasCapability(capability Capability) bool {
	switch capability {
	case CapabilityTTS:
		return c.IsTTS
	case CapabilitySTT:
		return c.IsSTT
	case CapabilityClone:
		return c.IsClone
	}
	return false
}
