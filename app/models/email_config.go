package models

import "time"

// EmailConfig stores SMTP settings managed by administrators. The active
// default row is resolved at send time and handed to the mailer as an explicit
// parameter object; process-wide settings are never patched.
type EmailConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Host      string    `gorm:"type:varchar(255);not null" json:"host"`
	Port      int       `gorm:"default:587" json:"port"`
	Username  string    `gorm:"type:varchar(255)" json:"username"`
	Password  string    `gorm:"type:text" json:"password"`
	UseTLS    bool      `gorm:"default:true" json:"use_tls"`
	Sender    string    `gorm:"type:varchar(255);default:null" json:"sender,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
