package vendors

import (
	"context"
	"errors"
)

// ErrNotSupported is returned when a provider does not implement the
// requested capability.
var ErrNotSupported = errors.New("vendors: operation not supported by this provider")

// Credentials carries whatever secret material an adapter needs for one call.
// API-key providers use APIKey; Azure additionally needs Region; GCP-style
// file-based credentials travel as a path in CredentialsPath.
type Credentials struct {
	APIKey          string
	Region          string
	CredentialsPath string
}

// SynthesisRequest is the provider-agnostic input for text-to-speech.
type SynthesisRequest struct {
	Text         string
	VoiceID      string
	LanguageCode string
	ModelID      string
	OutputFormat string
	Speed        float64
	Pitch        float64
}

// SynthesisResult is the audio payload a TTS call produced.
type SynthesisResult struct {
	Audio  []byte
	Format string
}

// CloneSample is one uploaded audio sample for voice cloning.
type CloneSample struct {
	Filename string
	Data     []byte
}

// CloneRequest is the provider-agnostic input for creating a cloned voice.
type CloneRequest struct {
	Name                  string
	Description           string
	Language              string
	Samples               []CloneSample
	RemoveBackgroundNoise bool
}

// VoiceInfo is one entry of a vendor's voice listing, used by the catalog sync.
type VoiceInfo struct {
	VoiceID      string
	Name         string
	Language     string
	LanguageCode string
	Gender       string
	SampleURL    string
	Styles       []string
}

// Adapter is the capability set every vendor integration exposes. Adapters
// are stateless collaborators: given credentials and input they return bytes
// or text, or fail. They never touch credits or any persistent state.
type Adapter interface {
	Provider() string
	Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error)
	Transcribe(ctx context.Context, creds Credentials, audio []byte, filename string) (string, error)
	CreateClone(ctx context.Context, creds Credentials, req CloneRequest) (string, error)
	ListVoices(ctx context.Context, creds Credentials) ([]VoiceInfo, error)
}

// unsupported provides ErrNotSupported defaults so each adapter only spells
// out the capabilities its vendor actually has.
type unsupported struct{}

func (unsupported) Synthesize(context.Context, Credentials, SynthesisRequest) (*SynthesisResult, error) {
	return nil, ErrNotSupported
}

func (unsupported) Transcribe(context.Context, Credentials, []byte, string) (string, error) {
	return "", ErrNotSupported
}

func (unsupported) CreateClone(context.Context, Credentials, CloneRequest) (string, error) {
	return "", ErrNotSupported
}

func (unsupported) ListVoices(context.Context, Credentials) ([]VoiceInfo, error) {
	return nil, ErrNotSupported
}
