package models

import "time"

// UserSubscription is the entitlement ledger row: the single active subscription
// granting a user a credit balance and an expiry.
//
// Invariant: at most one row with is_active=true exists per user. Rows are
// deactivated on revoke, never hard-deleted, so the history stays queryable.
type UserSubscription struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"not null;index:idx_user_subscriptions_user_active,priority:1" json:"user_id"`
	SubscriptionID   uint             `gorm:"not null;index" json:"subscription_id"`
	Subscription     SubscriptionPlan `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
	StartDate        time.Time        `gorm:"autoCreateTime" json:"start_date"`
	EndDate          *time.Time       `gorm:"type:timestamp;default:null" json:"end_date"`
	IsActive         bool             `gorm:"default:true;index:idx_user_subscriptions_user_active,priority:2" json:"is_active"`
	PaymentID        string           `gorm:"type:varchar(255);default:null" json:"payment_id,omitempty"`
	CharacterCredits int              `gorm:"default:0" json:"character_credits"`
	VoiceCredits     int              `gorm:"default:0" json:"voice_credits"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether the entitlement has passed its end date. Expiry is
// evaluated lazily at reservation time; expired rows are not swept or
// deactivated in the background.
func (s *UserSubscription) IsExpired(now time.Time) bool {
	return s.EndDate != nil && !s.EndDate.After(now)
}
