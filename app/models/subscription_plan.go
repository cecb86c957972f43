package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// SubscriptionPlan is an admin-managed catalog entry. Plans are read by everyone
// and never mutated by the ordinary request flow.
type SubscriptionPlan struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	Name                  string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	PlanID                string    `gorm:"type:varchar(100);not null;index" json:"plan_id" validate:"required,max=100"`
	PriceJSON             string    `gorm:"type:longtext" json:"price_json"` // {"monthly": ..., "yearly": ...}
	Description           string    `gorm:"type:text" json:"description"`
	FeaturesJSON          string    `gorm:"type:longtext" json:"features_json"`
	LimitationsJSON       string    `gorm:"type:longtext" json:"limitations_json"`
	DurationDays          int       `gorm:"default:0" json:"duration_days" validate:"gte=0"`
	CharacterLimit        int       `gorm:"default:0" json:"character_limit" validate:"gte=0"`
	VoiceLimit            int       `gorm:"default:0" json:"voice_limit" validate:"gte=0"`
	DefaultCharacterLimit int       `gorm:"default:0" json:"default_character_limit" validate:"gte=0"`
	Discount              float64   `gorm:"type:decimal(5,2);default:0" json:"discount"`
	OnOffer               bool      `gorm:"default:false" json:"on_offer"`
	IsPopular             bool      `gorm:"default:false" json:"is_popular"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *SubscriptionPlan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
