package repository

import (
	"time"

	"github.com/VoiceAsService/VoxGate/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// SubscriptionPlanRepository manages the admin-owned plan catalog
type SubscriptionPlanRepository interface {
	Create(plan *models.SubscriptionPlan) error
	GetByID(id uint) (*models.SubscriptionPlan, error)
	Update(plan *models.SubscriptionPlan) error
	Delete(id uint) error
	List() ([]models.SubscriptionPlan, error)
}

// EntitlementRepository holds per-user subscription state. All credit
// mutations go through single conditional UPDATE statements so that two
// concurrent requests can never both pass a balance check that only one of
// them can satisfy.
type EntitlementRepository interface {
	GetActiveByUserID(userID uint) (*models.UserSubscription, error)
	HasActive(userID uint) (bool, error)
	Create(sub *models.UserSubscription) error
	// CreateIfNoneActive inserts sub only when the user holds no active row.
	// Check and insert run in one transaction with a locking read, so two
	// concurrent grants cannot both create a row. Returns false when an
	// active row already existed.
	CreateIfNoneActive(sub *models.UserSubscription) (bool, error)
	// Deactivate flips is_active on the user's active row; returns false when none exists.
	Deactivate(userID uint) (bool, error)
	// ReserveCharacters decrements character_credits by amount iff the user has
	// an active, unexpired entitlement with at least that balance. Returns true
	// only when a row was updated; the failed case mutates nothing.
	ReserveCharacters(userID uint, amount int, now time.Time) (bool, error)
	// SpendVoiceCredits decrements voice_credits the same way. The clone flow
	// records voice usage but does not gate on it.
	SpendVoiceCredits(userID uint, amount int, now time.Time) (bool, error)
	CountActive() (int64, error)
}

// ProviderConfigRepository holds per-provider configuration and the
// vendor-side usage counter.
type ProviderConfigRepository interface {
	Create(config *models.ProviderConfig) error
	GetByID(id uint) (*models.ProviderConfig, error)
	Update(config *models.ProviderConfig) error
	Delete(id uint) error
	List() ([]models.ProviderConfig, error)
	ListActive() ([]models.ProviderConfig, error)
	// GetActive returns the first active configuration matching provider and
	// capability, ordered by id. With several active rows per provider the
	// lowest id wins; nothing smarter than that is promised.
	GetActive(provider string, capability models.Capability) (*models.ProviderConfig, error)
	// AddCreditsUsed atomically increments the cumulative usage counter.
	AddCreditsUsed(configID uint, credits int64) error
	// ToggleActive bulk-flips the active flag and cascades it to owned voices.
	ToggleActive(ids []uint, activate bool) (int64, error)
}

// VoiceRepository manages the synthesis voice catalog
type VoiceRepository interface {
	ListByConfig(configID uint) ([]models.Voice, error)
	ListActive() ([]models.Voice, error)
	// UpsertByVoiceID creates or refreshes a catalog row keyed by (config_id, voice_id).
	UpsertByVoiceID(voice *models.Voice) error
	DeleteByConfig(configID uint) error
}

// VoiceCloneRepository manages user-owned clone references
type VoiceCloneRepository interface {
	Create(clone *models.VoiceClone) error
	ListByUser(userID uint) ([]models.VoiceClone, error)
	GetByCloneID(cloneID string) (*models.VoiceClone, error)
	// DeleteOwned removes a clone row only when it belongs to the given user.
	DeleteOwned(userID uint, cloneID string) (bool, error)
}

// PaymentConfigRepository manages stored payment gateway credentials
type PaymentConfigRepository interface {
	Create(config *models.PaymentConfig) error
	GetByID(id uint) (*models.PaymentConfig, error)
	Update(config *models.PaymentConfig) error
	Delete(id uint) error
	List() ([]models.PaymentConfig, error)
}

// EmailConfigRepository manages stored SMTP settings
type EmailConfigRepository interface {
	Create(config *models.EmailConfig) error
	GetByID(id uint) (*models.EmailConfig, error)
	Update(config *models.EmailConfig) error
	Delete(id uint) error
	List() ([]models.EmailConfig, error)
	// GetDefault returns the active default row used for outbound mail.
	GetDefault() (*models.EmailConfig, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User           UserRepository
	Plan           SubscriptionPlanRepository
	Entitlement    EntitlementRepository
	ProviderConfig ProviderConfigRepository
	Voice          VoiceRepository
	VoiceClone     VoiceCloneRepository
	PaymentConfig  PaymentConfigRepository
	EmailConfig    EmailConfigRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Plan:           NewSubscriptionPlanRepository(db),
		Entitlement:    NewEntitlementRepository(db),
		ProviderConfig: NewProviderConfigRepository(db),
		Voice:          NewVoiceRepository(db),
		VoiceClone:     NewVoiceCloneRepository(db),
		PaymentConfig:  NewPaymentConfigRepository(db),
		EmailConfig:    NewEmailConfigRepository(db),
	}
}
