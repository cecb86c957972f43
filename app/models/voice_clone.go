package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// VoiceClone is a user-owned reference to a vendor-side cloned voice. CloneID
// is the vendor's identifier; the row only links it to the config that made it.
type VoiceClone struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ConfigID  uint           `gorm:"not null;index" json:"config_id"`
	Config    ProviderConfig `gorm:"foreignKey:ConfigID" json:"-"`
	CloneName string         `gorm:"type:varchar(255);default:null" json:"clone_name"`
	CloneID   string         `gorm:"type:varchar(255);uniqueIndex" json:"clone_id" validate:"required"`
	Gender    string         `gorm:"type:varchar(10);default:null" json:"gender" validate:"omitempty,oneof=male female other"`
	Language  string         `gorm:"type:varchar(50);default:'en'" json:"language"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *VoiceClone) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
