package orchestrator

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/internal/pkg/vendors"
)

// fakeEntitlementRepo mirrors the conditional-update semantics of the real
// repository against an in-memory row set.
type fakeEntitlementRepo struct {
	mu   sync.Mutex
	subs []*models.UserSubscription
}

func (f *fakeEntitlementRepo) activeRow(userID uint) *models.UserSubscription {
	for _, s := range f.subs {
		if s.UserID == userID && s.IsActive {
			return s
		}
	}
	return nil
}

func (f *fakeEntitlementRepo) GetActiveByUserID(userID uint) (*models.UserSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.activeRow(userID); s != nil {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEntitlementRepo) HasActive(userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeRow(userID) != nil, nil
}

func (f *fakeEntitlementRepo) Create(sub *models.UserSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeEntitlementRepo) CreateIfNoneActive(sub *models.UserSubscription) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeRow(sub.UserID) != nil {
		return false, nil
	}
	f.subs = append(f.subs, sub)
	return true, nil
}

func (f *fakeEntitlementRepo) Deactivate(userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.activeRow(userID); s != nil {
		s.IsActive = false
		return true, nil
	}
	return false, nil
}

func (f *fakeEntitlementRepo) ReserveCharacters(userID uint, amount int, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.activeRow(userID)
	if s == nil || s.IsExpired(now) || s.CharacterCredits < amount {
		return false, nil
	}
	s.CharacterCredits -= amount
	return true, nil
}

func (f *fakeEntitlementRepo) SpendVoiceCredits(userID uint, amount int, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.activeRow(userID)
	if s == nil || s.IsExpired(now) || s.VoiceCredits < amount {
		return false, nil
	}
	s.VoiceCredits -= amount
	return true, nil
}

func (f *fakeEntitlementRepo) CountActive() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.subs {
		if s.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeEntitlementRepo) credits(userID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.activeRow(userID); s != nil {
		return s.CharacterCredits
	}
	return 0
}

// fakeConfigRepo serves provider configurations from a slice ordered by id.
type fakeConfigRepo struct {
	mu      sync.Mutex
	configs []*models.ProviderConfig
}

func (f *fakeConfigRepo) Create(c *models.ProviderConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, c)
	return nil
}

func (f *fakeConfigRepo) GetByID(id uint) (*models.ProviderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConfigRepo) Update(*models.ProviderConfig) error { return nil }
func (f *fakeConfigRepo) Delete(uint) error                   { return nil }

func (f *fakeConfigRepo) List() ([]models.ProviderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ProviderConfig, 0, len(f.configs))
	for _, c := range f.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeConfigRepo) ListActive() ([]models.ProviderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProviderConfig
	for _, c := range f.configs {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConfigRepo) GetActive(provider string, capability models.Capability) (*models.ProviderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.Active && c.Provider == provider && c.HasCapability(capability) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConfigRepo) AddCreditsUsed(configID uint, credits int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.ID == configID {
			c.CreditsUsed += credits
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeConfigRepo) ToggleActive(ids []uint, activate bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.configs {
		for _, id := range ids {
			if c.ID == id {
				c.Active = activate
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeConfigRepo) creditsUsed(configID uint) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.ID == configID {
			return c.CreditsUsed
		}
	}
	return 0
}

// fakeCloneRepo stores clone rows in memory.
type fakeCloneRepo struct {
	mu     sync.Mutex
	clones []*models.VoiceClone
}

func (f *fakeCloneRepo) Create(clone *models.VoiceClone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone.ID = uint(len(f.clones) + 1)
	f.clones = append(f.clones, clone)
	return nil
}

func (f *fakeCloneRepo) ListByUser(userID uint) ([]models.VoiceClone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VoiceClone
	for _, c := range f.clones {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCloneRepo) GetByCloneID(cloneID string) (*models.VoiceClone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clones {
		if c.CloneID == cloneID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCloneRepo) DeleteOwned(userID uint, cloneID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.clones {
		if c.UserID == userID && c.CloneID == cloneID {
			f.clones = append(f.clones[:i], f.clones[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeAdapter scripts vendor responses and records whether it was called.
type fakeAdapter struct {
	provider   string
	calls      int
	synthesize func() (*vendors.SynthesisResult, error)
	transcribe func() (string, error)
	clone      func() (string, error)
}

func (f *fakeAdapter) Provider() string { return f.provider }

func (f *fakeAdapter) Synthesize(context.Context, vendors.Credentials, vendors.SynthesisRequest) (*vendors.SynthesisResult, error) {
	f.calls++
	if f.synthesize != nil {
		return f.synthesize()
	}
	return &vendors.SynthesisResult{Audio: []byte("audio"), Format: "mp3"}, nil
}

func (f *fakeAdapter) Transcribe(context.Context, vendors.Credentials, []byte, string) (string, error) {
	f.calls++
	if f.transcribe != nil {
		return f.transcribe()
	}
	return "transcript", nil
}

func (f *fakeAdapter) CreateClone(context.Context, vendors.Credentials, vendors.CloneRequest) (string, error) {
	f.calls++
	if f.clone != nil {
		return f.clone()
	}
	return "clone-1", nil
}

func (f *fakeAdapter) ListVoices(context.Context, vendors.Credentials) ([]vendors.VoiceInfo, error) {
	return nil, nil
}
