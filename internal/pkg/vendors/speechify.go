package vendors

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

const speechifyDefaultBaseURL = "https://api.sws.speechify.com"

// SpeechifyAdapter integrates the Speechify TTS, cloning and voice-listing
// endpoints.
type SpeechifyAdapter struct {
	client  *http.Client
	baseURL string
}

// NewSpeechifyAdapter creates a Speechify adapter using the shared client.
func NewSpeechifyAdapter(client *http.Client) *SpeechifyAdapter {
	return &SpeechifyAdapter{client: client, baseURL: speechifyDefaultBaseURL}
}

func (a *SpeechifyAdapter) Provider() string { return ProviderSpeechify }

func (a *SpeechifyAdapter) Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error) {
	format := req.OutputFormat
	if format == "" {
		format = "mp3"
	}

	body, err := json.Marshal(map[string]any{
		"input":        req.Text,
		"voice_id":     req.VoiceID,
		"audio_format": format,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speechify tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderSpeechify, resp)
	}

	var parsed struct {
		AudioData   string `json:"audio_data"`
		AudioFormat string `json:"audio_format"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("speechify tts response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(parsed.AudioData)
	if err != nil {
		return nil, fmt.Errorf("speechify tts audio decode: %w", err)
	}
	if parsed.AudioFormat != "" {
		format = parsed.AudioFormat
	}
	return &SynthesisResult{Audio: audio, Format: format}, nil
}

func (a *SpeechifyAdapter) Transcribe(ctx context.Context, creds Credentials, audio []byte, filename string) (string, error) {
	return "", ErrNotSupported
}

func (a *SpeechifyAdapter) CreateClone(ctx context.Context, creds Credentials, req CloneRequest) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("name", req.Name); err != nil {
		return "", err
	}
	// Speechify requires explicit cloning consent alongside the sample.
	if err := writer.WriteField("consent", `{"fullName":"api","email":"api@localhost"}`); err != nil {
		return "", err
	}
	for _, sample := range req.Samples {
		part, err := writer.CreateFormFile("sample", sample.Filename)
		if err != nil {
			return "", err
		}
		if _, err := part.Write(sample.Data); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/voices", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("speechify clone request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(ProviderSpeechify, resp)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("speechify clone response: %w", err)
	}
	return parsed.ID, nil
}

func (a *SpeechifyAdapter) ListVoices(ctx context.Context, creds Credentials) ([]VoiceInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speechify voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderSpeechify, resp)
	}

	var parsed []struct {
		ID           string `json:"id"`
		DisplayName  string `json:"display_name"`
		Gender       string `json:"gender"`
		Locale       string `json:"locale"`
		PreviewAudio string `json:"preview_audio"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("speechify voices response: %w", err)
	}

	voices := make([]VoiceInfo, 0, len(parsed))
	for _, v := range parsed {
		voices = append(voices, VoiceInfo{
			VoiceID:      v.ID,
			Name:         v.DisplayName,
			LanguageCode: v.Locale,
			Gender:       v.Gender,
			SampleURL:    v.PreviewAudio,
		})
	}
	return voices, nil
}
