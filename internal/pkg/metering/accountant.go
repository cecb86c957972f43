package metering

import (
	"errors"
	"fmt"
	"math"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"gorm.io/gorm"
)

// ErrNoActiveConfig means no active provider configuration matches the
// requested provider and capability.
var ErrNoActiveConfig = errors.New("metering: no active provider configuration")

// BilledCredits converts raw usage into billed provider credits. Multipliers
// at or below 1.0 are clamped to 1.0: creation-time validation requires a
// margin above 1, and stored bad data must never shrink a charge.
func BilledCredits(rawAmount int, multiplier float64) int64 {
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	return int64(math.Ceil(float64(rawAmount) * multiplier))
}

// UsageResult describes one recorded billable usage.
type UsageResult struct {
	ConfigID      uint   `json:"config_id"`
	Provider      string `json:"provider"`
	RawAmount     int    `json:"raw_amount"`
	BilledCredits int64  `json:"billed_credits"`
}

// Accountant bills provider-side usage against the registry's cumulative
// counters.
type Accountant struct {
	configs repository.ProviderConfigRepository
}

// NewAccountant creates an accountant over the provider config repository.
func NewAccountant(configs repository.ProviderConfigRepository) *Accountant {
	return &Accountant{configs: configs}
}

// RecordUsage resolves the active configuration for the provider/capability,
// computes billed credits via the token multiplier and atomically increments
// the configuration's usage counter. Callers that already hold a resolved
// configuration, like the orchestrator after dispatch, bill through BillConfig
// instead.
func (a *Accountant) RecordUsage(provider string, capability models.Capability, rawAmount int) (*UsageResult, error) {
	config, err := a.configs.GetActive(provider, capability)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveConfig
		}
		return nil, fmt.Errorf("resolve active config for %s/%s: %w", provider, capability, err)
	}

	billed := BilledCredits(rawAmount, config.TokenMultiplier)
	if err := a.configs.AddCreditsUsed(config.ID, billed); err != nil {
		return nil, fmt.Errorf("record %d credits for config %d: %w", billed, config.ID, err)
	}

	return &UsageResult{
		ConfigID:      config.ID,
		Provider:      config.Provider,
		RawAmount:     rawAmount,
		BilledCredits: billed,
	}, nil
}

// BillConfig bills usage against an already-resolved configuration. Used when
// the orchestrator holds the config it dispatched with.
func (a *Accountant) BillConfig(config *models.ProviderConfig, rawAmount int) (*UsageResult, error) {
	billed := BilledCredits(rawAmount, config.TokenMultiplier)
	if err := a.configs.AddCreditsUsed(config.ID, billed); err != nil {
		return nil, fmt.Errorf("record %d credits for config %d: %w", billed, config.ID, err)
	}
	return &UsageResult{
		ConfigID:      config.ID,
		Provider:      config.Provider,
		RawAmount:     rawAmount,
		BilledCredits: billed,
	}, nil
}
