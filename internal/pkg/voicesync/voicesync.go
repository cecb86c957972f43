package voicesync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/vendors"
)

// Syncer refreshes the local voice catalog from vendor listings. It runs on
// admin config create/update; serving requests never waits on a sync.
type Syncer struct {
	voices   repository.VoiceRepository
	registry *vendors.Registry
}

// New creates a syncer over the voice repository and vendor registry.
func New(voices repository.VoiceRepository, registry *vendors.Registry) *Syncer {
	return &Syncer{voices: voices, registry: registry}
}

// SyncConfig pulls the vendor's voice list for one configuration and upserts
// catalog rows keyed by (config, voice id). Voices the vendor dropped are left
// in place; the active flag follows the configuration via ToggleActive.
// Returns the number of rows written. Vendors without a listing endpoint are
// a no-op, not an error.
func (s *Syncer) SyncConfig(ctx context.Context, config *models.ProviderConfig) (int, error) {
	adapter, ok := s.registry.Lookup(config.Provider)
	if !ok {
		return 0, fmt.Errorf("no adapter registered for provider %q", config.Provider)
	}

	infos, err := adapter.ListVoices(ctx, vendors.Credentials{
		APIKey:          config.APIKey,
		Region:          config.Region,
		CredentialsPath: config.APIKey,
	})
	if err != nil {
		if errors.Is(err, vendors.ErrNotSupported) {
			return 0, nil
		}
		return 0, fmt.Errorf("list voices for config %d (%s): %w", config.ID, config.Provider, err)
	}

	written := 0
	for _, info := range infos {
		if info.VoiceID == "" {
			continue
		}
		voice := &models.Voice{
			ConfigID:     config.ID,
			VoiceID:      info.VoiceID,
			VoiceName:    info.Name,
			Language:     info.Language,
			LanguageCode: info.LanguageCode,
			Gender:       strings.ToLower(info.Gender),
			SampleURL:    info.SampleURL,
			StyleList:    strings.Join(info.Styles, ","),
			IsActive:     config.Active,
		}
		if err := s.voices.UpsertByVoiceID(voice); err != nil {
			return written, fmt.Errorf("upsert voice %s for config %d: %w", info.VoiceID, config.ID, err)
		}
		written++
	}
	return written, nil
}

// SyncAll refreshes every active configuration. Individual failures are
// logged and skipped so one misconfigured vendor cannot block the rest.
func (s *Syncer) SyncAll(ctx context.Context, configs []models.ProviderConfig) int {
	total := 0
	for i := range configs {
		n, err := s.SyncConfig(ctx, &configs[i])
		if err != nil {
			log.Printf("voice sync failed for config %d (%s): %v", configs[i].ID, configs[i].Provider, err)
			continue
		}
		total += n
	}
	return total
}
