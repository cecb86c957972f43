package vendors

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const gcpDefaultBaseURL = "https://texttospeech.googleapis.com"

// GCPAdapter integrates the Google Cloud text-to-speech REST API using an API
// key. File-based service-account flows stay with the configuration admin;
// this adapter only needs the key.
type GCPAdapter struct {
	client  *http.Client
	baseURL string
}

// NewGCPAdapter creates a GCP adapter using the shared client.
func NewGCPAdapter(client *http.Client) *GCPAdapter {
	return &GCPAdapter{client: client, baseURL: gcpDefaultBaseURL}
}

func (a *GCPAdapter) Provider() string { return ProviderGCP }

func (a *GCPAdapter) Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error) {
	lang := req.LanguageCode
	if lang == "" {
		lang = "en-US"
	}
	encoding := strings.ToUpper(req.OutputFormat)
	if encoding == "" {
		encoding = "MP3"
	}
	speakingRate := req.Speed
	if speakingRate == 0 {
		speakingRate = 1.0
	}

	body, err := json.Marshal(map[string]any{
		"input": map[string]string{"text": req.Text},
		"voice": map[string]string{
			"languageCode": lang,
			"name":         req.VoiceID,
		},
		"audioConfig": map[string]any{
			"audioEncoding": encoding,
			"speakingRate":  speakingRate,
			"pitch":         req.Pitch,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text:synthesize?key=%s", a.baseURL, creds.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gcp tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderGCP, resp)
	}

	var parsed struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("gcp tts response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("gcp tts audio decode: %w", err)
	}
	return &SynthesisResult{Audio: audio, Format: encoding}, nil
}

func (a *GCPAdapter) Transcribe(ctx context.Context, creds Credentials, audio []byte, filename string) (string, error) {
	return "", ErrNotSupported
}

func (a *GCPAdapter) CreateClone(ctx context.Context, creds Credentials, req CloneRequest) (string, error) {
	return "", ErrNotSupported
}

func (a *GCPAdapter) ListVoices(ctx context.Context, creds Credentials) ([]VoiceInfo, error) {
	url := fmt.Sprintf("%s/v1/voices?key=%s", a.baseURL, creds.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gcp voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderGCP, resp)
	}

	var parsed struct {
		Voices []struct {
			Name          string   `json:"name"`
			LanguageCodes []string `json:"languageCodes"`
			SsmlGender    string   `json:"ssmlGender"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("gcp voices response: %w", err)
	}

	voices := make([]VoiceInfo, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		code := ""
		if len(v.LanguageCodes) > 0 {
			code = v.LanguageCodes[0]
		}
		voices = append(voices, VoiceInfo{
			VoiceID:      v.Name,
			Name:         v.Name,
			LanguageCode: code,
			Gender:       strings.ToLower(v.SsmlGender),
		})
	}
	return voices, nil
}
