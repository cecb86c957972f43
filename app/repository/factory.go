package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetPlanRepository returns the subscription plan repository instance
func (f *Factory) GetPlanRepository() SubscriptionPlanRepository {
	return f.GetRepositories().Plan
}

// GetEntitlementRepository returns the entitlement repository instance
func (f *Factory) GetEntitlementRepository() EntitlementRepository {
	return f.GetRepositories().Entitlement
}

// GetProviderConfigRepository returns the provider config repository instance
func (f *Factory) GetProviderConfigRepository() ProviderConfigRepository {
	return f.GetRepositories().ProviderConfig
}

// GetVoiceRepository returns the voice catalog repository instance
func (f *Factory) GetVoiceRepository() VoiceRepository {
	return f.GetRepositories().Voice
}

// GetVoiceCloneRepository returns the voice clone repository instance
func (f *Factory) GetVoiceCloneRepository() VoiceCloneRepository {
	return f.GetRepositories().VoiceClone
}

// GetPaymentConfigRepository returns the payment config repository instance
func (f *Factory) GetPaymentConfigRepository() PaymentConfigRepository {
	return f.GetRepositories().PaymentConfig
}

// GetEmailConfigRepository returns the email config repository instance
func (f *Factory) GetEmailConfigRepository() EmailConfigRepository {
	return f.GetRepositories().EmailConfig
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
