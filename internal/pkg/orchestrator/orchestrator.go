package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/entitlements"
	"github.com/VoiceAsService/VoxGate/internal/pkg/metering"
	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
	"github.com/VoiceAsService/VoxGate/internal/pkg/vendors"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// Orchestrator runs one billable voice request end to end: resolve the
// provider configuration, admit the user against their entitlement, dispatch
// the vendor call and bill provider-side usage.
//
// Ordering is deliberate: admission deducts user credits before the vendor is
// called, and a vendor failure after that point does not refund them. The
// deduction is the price of the attempt.
type Orchestrator struct {
	admission  *entitlements.Admission
	ledger     *entitlements.Ledger
	accountant *metering.Accountant
	registry   *vendors.Registry
	configs    repository.ProviderConfigRepository
	clones     repository.VoiceCloneRepository
}

// New creates an orchestrator over the repository set and vendor registry.
func New(repos *repository.Repositories, registry *vendors.Registry) *Orchestrator {
	ledger := entitlements.NewLedger(repos.Entitlement)
	return &Orchestrator{
		admission:  entitlements.NewAdmission(ledger),
		ledger:     ledger,
		accountant: metering.NewAccountant(repos.ProviderConfig),
		registry:   registry,
		configs:    repos.ProviderConfig,
		clones:     repos.VoiceClone,
	}
}

// SynthesizeInput is one text-to-speech request. Provider may be empty, in
// which case the lowest-id active TTS configuration is used.
type SynthesizeInput struct {
	Text         string
	Provider     string
	VoiceID      string
	LanguageCode string
	ModelID      string
	OutputFormat string
	Speed        float64
	Pitch        float64
}

// SynthesizeOutput carries the audio payload plus the usage that was billed.
type SynthesizeOutput struct {
	Audio    []byte
	Format   string
	Provider string
	Usage    *metering.UsageResult
}

// Synthesize runs the TTS flow. The admission charge is the rune count of the
// input text.
func (o *Orchestrator) Synthesize(ctx context.Context, user usercontext.UserContext, input SynthesizeInput) (*SynthesizeOutput, error) {
	if input.Text == "" {
		return nil, &ValidationError{Message: "text is required"}
	}
	if input.VoiceID == "" {
		return nil, &ValidationError{Message: "voice_id is required"}
	}

	config, adapter, err := o.resolve(input.Provider, models.CapabilityTTS)
	if err != nil {
		return nil, err
	}

	charCount := utf8.RuneCountInString(input.Text)
	if err := o.admit(user, charCount); err != nil {
		return nil, err
	}

	result, err := adapter.Synthesize(ctx, credentialsFor(config), vendors.SynthesisRequest{
		Text:         input.Text,
		VoiceID:      input.VoiceID,
		LanguageCode: input.LanguageCode,
		ModelID:      input.ModelID,
		OutputFormat: input.OutputFormat,
		Speed:        input.Speed,
		Pitch:        input.Pitch,
	})
	if err != nil {
		return nil, &VendorError{Provider: config.Provider, Err: err}
	}

	usage, err := o.accountant.BillConfig(config, charCount)
	if err != nil {
		return nil, fmt.Errorf("bill synthesis usage: %w", err)
	}

	return &SynthesizeOutput{
		Audio:    result.Audio,
		Format:   result.Format,
		Provider: config.Provider,
		Usage:    usage,
	}, nil
}

// TranscribeOutput carries the transcript plus the usage that was billed.
type TranscribeOutput struct {
	Text     string
	Provider string
	Usage    *metering.UsageResult
}

// Transcribe runs the STT flow. The charge is only known once the transcript
// exists, so non-privileged users are gated on holding a live entitlement up
// front and the transcript's rune count is reserved afterwards. A reservation
// shortfall at that point is absorbed, matching the no-refund stance: the
// vendor work already happened.
func (o *Orchestrator) Transcribe(ctx context.Context, user usercontext.UserContext, provider string, audio []byte, filename string) (*TranscribeOutput, error) {
	if len(audio) == 0 {
		return nil, &ValidationError{Message: "audio file is required"}
	}

	config, adapter, err := o.resolve(provider, models.CapabilitySTT)
	if err != nil {
		return nil, err
	}

	if !user.IsPrivileged() {
		if err := o.requireLiveEntitlement(user.UserID); err != nil {
			return nil, err
		}
	}

	text, err := adapter.Transcribe(ctx, credentialsFor(config), audio, filename)
	if err != nil {
		return nil, &VendorError{Provider: config.Provider, Err: err}
	}

	charCount := utf8.RuneCountInString(text)
	if !user.IsPrivileged() && charCount > 0 {
		ok, _, err := o.ledger.ReserveCharacters(user.UserID, charCount)
		if err != nil {
			return nil, fmt.Errorf("charge transcription for user %d: %w", user.UserID, err)
		}
		if !ok {
			log.Printf("transcription for user %d produced %d characters beyond remaining credits", user.UserID, charCount)
		}
	}

	usage, err := o.accountant.BillConfig(config, charCount)
	if err != nil {
		return nil, fmt.Errorf("bill transcription usage: %w", err)
	}

	return &TranscribeOutput{Text: text, Provider: config.Provider, Usage: usage}, nil
}

// CloneInput is one voice-clone creation request.
type CloneInput struct {
	Provider              string
	Name                  string
	Description           string
	Gender                string
	Language              string
	Samples               []vendors.CloneSample
	RemoveBackgroundNoise bool
}

// CloneOutput carries the stored clone row and the usage that was billed.
type CloneOutput struct {
	Clone    *models.VoiceClone
	Provider string
	Usage    *metering.UsageResult
}

// CreateClone runs the cloning flow and persists the vendor's clone id. Voice
// credits are tracked but never gate the operation; a spent-out balance is
// logged and the clone proceeds.
func (o *Orchestrator) CreateClone(ctx context.Context, user usercontext.UserContext, input CloneInput) (*CloneOutput, error) {
	if input.Name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}
	if len(input.Samples) == 0 {
		return nil, &ValidationError{Message: "at least one audio sample is required"}
	}

	config, adapter, err := o.resolve(input.Provider, models.CapabilityClone)
	if err != nil {
		return nil, err
	}

	if !user.IsPrivileged() {
		if err := o.requireLiveEntitlement(user.UserID); err != nil {
			return nil, err
		}
	}

	cloneID, err := adapter.CreateClone(ctx, credentialsFor(config), vendors.CloneRequest{
		Name:                  input.Name,
		Description:           input.Description,
		Language:              input.Language,
		Samples:               input.Samples,
		RemoveBackgroundNoise: input.RemoveBackgroundNoise,
	})
	if err != nil {
		return nil, &VendorError{Provider: config.Provider, Err: err}
	}

	language := input.Language
	if language == "" {
		language = "en"
	}
	clone := &models.VoiceClone{
		UserID:    user.UserID,
		ConfigID:  config.ID,
		CloneName: input.Name,
		CloneID:   cloneID,
		Gender:    input.Gender,
		Language:  language,
		IsActive:  true,
	}
	if err := o.clones.Create(clone); err != nil {
		return nil, fmt.Errorf("store clone %s for user %d: %w", cloneID, user.UserID, err)
	}

	if !user.IsPrivileged() {
		spent, err := o.ledger.SpendVoiceCredits(user.UserID, 1)
		if err != nil {
			log.Printf("spend voice credit for user %d: %v", user.UserID, err)
		} else if !spent {
			log.Printf("user %d created clone %s with no voice credits remaining", user.UserID, cloneID)
		}
	}

	usage, err := o.accountant.BillConfig(config, 1)
	if err != nil {
		return nil, fmt.Errorf("bill clone usage: %w", err)
	}

	return &CloneOutput{Clone: clone, Provider: config.Provider, Usage: usage}, nil
}

// admit converts a refused admission into the typed error callers branch on.
func (o *Orchestrator) admit(user usercontext.UserContext, charCount int) error {
	result, err := o.admission.Admit(user, charCount)
	if err != nil {
		return fmt.Errorf("admit user %d: %w", user.UserID, err)
	}
	if !result.Allowed {
		return &AdmissionError{Reason: result.Reason}
	}
	return nil
}

// requireLiveEntitlement gates flows whose charge is not known up front.
func (o *Orchestrator) requireLiveEntitlement(userID uint) error {
	sub, err := o.ledger.GetActiveEntitlement(userID)
	if err != nil {
		return fmt.Errorf("load entitlement for user %d: %w", userID, err)
	}
	if sub == nil {
		return &AdmissionError{Reason: entitlements.ReasonNoSubscription}
	}
	if sub.IsExpired(timeNow()) {
		return &AdmissionError{Reason: entitlements.ReasonExpired}
	}
	return nil
}

// resolve picks the configuration and adapter for a request. An empty
// provider selects the lowest-id active configuration with the capability.
func (o *Orchestrator) resolve(provider string, capability models.Capability) (*models.ProviderConfig, vendors.Adapter, error) {
	var config *models.ProviderConfig
	if provider == "" {
		active, err := o.configs.ListActive()
		if err != nil {
			return nil, nil, fmt.Errorf("list active configs: %w", err)
		}
		for i := range active {
			if active[i].HasCapability(capability) {
				config = &active[i]
				break
			}
		}
		if config == nil {
			return nil, nil, ErrNoProviderConfig
		}
	} else {
		var err error
		config, err = o.configs.GetActive(provider, capability)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrNoProviderConfig
			}
			return nil, nil, fmt.Errorf("resolve config for %s/%s: %w", provider, capability, err)
		}
	}

	adapter, ok := o.registry.Lookup(config.Provider)
	if !ok {
		return nil, nil, fmt.Errorf("no adapter registered for provider %q (config %d)", config.Provider, config.ID)
	}
	return config, adapter, nil
}

func credentialsFor(config *models.ProviderConfig) vendors.Credentials {
	return vendors.Credentials{
		APIKey:          config.APIKey,
		Region:          config.Region,
		CredentialsPath: config.APIKey,
	}
}
