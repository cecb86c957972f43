package voicesync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoiceAsService/VoxGate/app/models"
	"github.com/VoiceAsService/VoxGate/internal/pkg/vendors"
)

type fakeVoiceRepo struct {
	mu     sync.Mutex
	voices map[string]*models.Voice
	err    error
}

func newFakeVoiceRepo() *fakeVoiceRepo {
	return &fakeVoiceRepo{voices: make(map[string]*models.Voice)}
}

func (f *fakeVoiceRepo) key(configID uint, voiceID string) string {
	return fmt.Sprintf("%d/%s", configID, voiceID)
}

func (f *fakeVoiceRepo) UpsertByVoiceID(voice *models.Voice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	copied := *voice
	f.voices[f.key(voice.ConfigID, voice.VoiceID)] = &copied
	return nil
}

func (f *fakeVoiceRepo) ListByConfig(configID uint) ([]models.Voice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Voice
	for _, v := range f.voices {
		if v.ConfigID == configID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVoiceRepo) ListActive() ([]models.Voice, error) { return nil, nil }
func (f *fakeVoiceRepo) DeleteByConfig(uint) error           { return nil }

type listingAdapter struct {
	provider string
	voices   []vendors.VoiceInfo
	err      error
}

func (a *listingAdapter) Provider() string { return a.provider }

func (a *listingAdapter) Synthesize(context.Context, vendors.Credentials, vendors.SynthesisRequest) (*vendors.SynthesisResult, error) {
	return nil, vendors.ErrNotSupported
}

func (a *listingAdapter) Transcribe(context.Context, vendors.Credentials, []byte, string) (string, error) {
	return "", vendors.ErrNotSupported
}

func (a *listingAdapter) CreateClone(context.Context, vendors.Credentials, vendors.CloneRequest) (string, error) {
	return "", vendors.ErrNotSupported
}

func (a *listingAdapter) ListVoices(context.Context, vendors.Credentials) ([]vendors.VoiceInfo, error) {
	return a.voices, a.err
}

func TestSyncConfigUpsertsListing(t *testing.T) {
	repo := newFakeVoiceRepo()
	registry := vendors.NewRegistry()
	registry.Register(&listingAdapter{
		provider: "elevenlabs",
		voices: []vendors.VoiceInfo{
			{VoiceID: "v1", Name: "Alice", LanguageCode: "en-US", Gender: "Female", Styles: []string{"cheerful", "calm"}},
			{VoiceID: "v2", Name: "Bob", LanguageCode: "de-DE", Gender: "male"},
			{VoiceID: "", Name: "no id, skipped"},
		},
	})

	syncer := New(repo, registry)
	config := &models.ProviderConfig{ID: 3, Provider: "elevenlabs", APIKey: "k", Active: true}

	n, err := syncer.SyncConfig(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := repo.ListByConfig(3)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	byID := map[string]models.Voice{}
	for _, v := range stored {
		byID[v.VoiceID] = v
	}
	assert.Equal(t, "Alice", byID["v1"].VoiceName)
	assert.Equal(t, "female", byID["v1"].Gender)
	assert.Equal(t, "cheerful,calm", byID["v1"].StyleList)
	assert.True(t, byID["v1"].IsActive)
	assert.Equal(t, "de-DE", byID["v2"].LanguageCode)
}

func TestSyncConfigRefreshesExistingRows(t *testing.T) {
	repo := newFakeVoiceRepo()
	adapter := &listingAdapter{
		provider: "elevenlabs",
		voices:   []vendors.VoiceInfo{{VoiceID: "v1", Name: "Old Name"}},
	}
	registry := vendors.NewRegistry()
	registry.Register(adapter)

	syncer := New(repo, registry)
	config := &models.ProviderConfig{ID: 1, Provider: "elevenlabs", Active: true}

	_, err := syncer.SyncConfig(context.Background(), config)
	require.NoError(t, err)

	adapter.voices = []vendors.VoiceInfo{{VoiceID: "v1", Name: "New Name"}}
	_, err = syncer.SyncConfig(context.Background(), config)
	require.NoError(t, err)

	stored, _ := repo.ListByConfig(1)
	require.Len(t, stored, 1, "same voice id must not duplicate")
	assert.Equal(t, "New Name", stored[0].VoiceName)
}

func TestSyncConfigUnsupportedListingIsNoop(t *testing.T) {
	repo := newFakeVoiceRepo()
	registry := vendors.NewRegistry()
	registry.Register(&listingAdapter{provider: "lemonfox", err: vendors.ErrNotSupported})

	syncer := New(repo, registry)
	n, err := syncer.SyncConfig(context.Background(), &models.ProviderConfig{ID: 1, Provider: "lemonfox"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSyncAllContinuesPastFailures(t *testing.T) {
	repo := newFakeVoiceRepo()
	registry := vendors.NewRegistry()
	registry.Register(&listingAdapter{provider: "broken", err: errors.New("upstream down")})
	registry.Register(&listingAdapter{
		provider: "working",
		voices:   []vendors.VoiceInfo{{VoiceID: "v1", Name: "Alice"}},
	})

	syncer := New(repo, registry)
	total := syncer.SyncAll(context.Background(), []models.ProviderConfig{
		{ID: 1, Provider: "broken"},
		{ID: 2, Provider: "working", Active: true},
	})
	assert.Equal(t, 1, total)
}
