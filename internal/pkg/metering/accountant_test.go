package metering

import (
	"sync"
	"testing"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeConfigRepo is an in-memory ProviderConfigRepository covering the
// operations the accountant uses.
type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[uint]*models.ProviderConfig
}

func newFakeConfigRepo(configs ...*models.ProviderConfig) *fakeConfigRepo {
	repo := &fakeConfigRepo{configs: make(map[uint]*models.ProviderConfig)}
	for _, c := range configs {
		repo.configs[c.ID] = c
	}
	return repo
}

func (f *fakeConfigRepo) Create(config *models.ProviderConfig) error { return nil }
func (f *fakeConfigRepo) Update(config *models.ProviderConfig) error { return nil }
func (f *fakeConfigRepo) Delete(id uint) error                       { return nil }

func (f *fakeConfigRepo) GetByID(id uint) (*models.ProviderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.configs[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConfigRepo) List() ([]models.ProviderConfig, error)       { return nil, nil }
func (f *fakeConfigRepo) ListActive() ([]models.ProviderConfig, error) { return nil, nil }

func (f *fakeConfigRepo) GetActive(provider string, capability models.Capability) (*models.ProviderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.ProviderConfig
	for _, c := range f.configs {
		if c.Provider == provider && c.Active && c.HasCapability(capability) {
			if best == nil || c.ID < best.ID {
				best = c
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *best
	return &copied, nil
}

func (f *fakeConfigRepo) AddCreditsUsed(configID uint, credits int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[configID].CreditsUsed += credits
	return nil
}

func (f *fakeConfigRepo) ToggleActive(ids []uint, activate bool) (int64, error) { return 0, nil }

func (f *fakeConfigRepo) creditsUsed(id uint) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configs[id].CreditsUsed
}

func TestBilledCredits(t *testing.T) {
	tests := []struct {
		name       string
		raw        int
		multiplier float64
		want       int64
	}{
		{name: "doubles", raw: 10, multiplier: 2.0, want: 20},
		{name: "rounds up", raw: 10, multiplier: 1.25, want: 13},
		{name: "clamps bad multiplier", raw: 10, multiplier: 0.5, want: 10},
		{name: "clamps exactly one", raw: 7, multiplier: 1.0, want: 7},
		{name: "zero raw", raw: 0, multiplier: 3.0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BilledCredits(tt.raw, tt.multiplier))
		})
	}
}

func TestRecordUsage(t *testing.T) {
	repo := newFakeConfigRepo(&models.ProviderConfig{
		ID: 1, Provider: "elevenlabs", Active: true, IsTTS: true, TokenMultiplier: 1.5,
	})
	accountant := NewAccountant(repo)

	result, err := accountant.RecordUsage("elevenlabs", models.CapabilityTTS, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(75), result.BilledCredits)
	assert.Equal(t, int64(75), repo.creditsUsed(1))

	// Counter only ever grows.
	_, err = accountant.RecordUsage("elevenlabs", models.CapabilityTTS, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(77), repo.creditsUsed(1))
}

func TestRecordUsageNoActiveConfig(t *testing.T) {
	accountant := NewAccountant(newFakeConfigRepo())

	_, err := accountant.RecordUsage("elevenlabs", models.CapabilityTTS, 50)
	assert.ErrorIs(t, err, ErrNoActiveConfig)
}

func TestRecordUsageCapabilityMismatch(t *testing.T) {
	repo := newFakeConfigRepo(&models.ProviderConfig{
		ID: 1, Provider: "lemonfox", Active: true, IsSTT: true, TokenMultiplier: 2.0,
	})
	accountant := NewAccountant(repo)

	_, err := accountant.RecordUsage("lemonfox", models.CapabilityTTS, 10)
	assert.ErrorIs(t, err, ErrNoActiveConfig)
}
