package models

import "time"

// PaymentConfig stores payment gateway credentials managed by administrators.
// SecretKey is never serialized unmasked; controllers run it through
// security.MaskSecret before responding.
type PaymentConfig struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Gateway    string    `gorm:"type:varchar(100);not null" json:"gateway"`
	PublicKey  string    `gorm:"type:text" json:"public_key"`
	SecretKey  string    `gorm:"type:text" json:"secret_key"`
	WebhookURL string    `gorm:"type:varchar(500);default:null" json:"webhook_url,omitempty"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	IsDefault  bool      `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
