package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const elevenLabsDefaultBaseURL = "https://api.elevenlabs.io"

// ElevenLabsAdapter integrates the ElevenLabs TTS, cloning and voice-listing
// endpoints.
type ElevenLabsAdapter struct {
	client  *http.Client
	baseURL string
}

// NewElevenLabsAdapter creates an ElevenLabs adapter using the shared client.
func NewElevenLabsAdapter(client *http.Client) *ElevenLabsAdapter {
	return &ElevenLabsAdapter{client: client, baseURL: elevenLabsDefaultBaseURL}
}

func (a *ElevenLabsAdapter) Provider() string { return ProviderElevenLabs }

func (a *ElevenLabsAdapter) Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = "eleven_multilingual_v2"
	}
	format := req.OutputFormat
	if format == "" {
		format = "mp3_44100_128"
	}

	body, err := json.Marshal(map[string]any{
		"text":     req.Text,
		"model_id": modelID,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", a.baseURL, req.VoiceID, format)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", creds.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderElevenLabs, resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs tts response: %w", err)
	}
	return &SynthesisResult{Audio: audio, Format: format}, nil
}

func (a *ElevenLabsAdapter) Transcribe(ctx context.Context, creds Credentials, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model_id", "scribe_v1"); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("xi-api-key", creds.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("elevenlabs stt request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(ProviderElevenLabs, resp)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("elevenlabs stt response: %w", err)
	}
	return parsed.Text, nil
}

func (a *ElevenLabsAdapter) CreateClone(ctx context.Context, creds Credentials, req CloneRequest) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("name", req.Name); err != nil {
		return "", err
	}
	if req.Description != "" {
		if err := writer.WriteField("description", req.Description); err != nil {
			return "", err
		}
	}
	if req.RemoveBackgroundNoise {
		if err := writer.WriteField("remove_background_noise", "true"); err != nil {
			return "", err
		}
	}
	for _, sample := range req.Samples {
		part, err := writer.CreateFormFile("files", sample.Filename)
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

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/voices/add", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("xi-api-key", creds.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("elevenlabs clone request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(ProviderElevenLabs, resp)
	}

	var parsed struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("elevenlabs clone response: %w", err)
	}
	return parsed.VoiceID, nil
}

func (a *ElevenLabsAdapter) ListVoices(ctx context.Context, creds Credentials) ([]VoiceInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", creds.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderElevenLabs, resp)
	}

	var parsed struct {
		Voices []struct {
			VoiceID    string            `json:"voice_id"`
			Name       string            `json:"name"`
			PreviewURL string            `json:"preview_url"`
			Labels     map[string]string `json:"labels"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("elevenlabs voices response: %w", err)
	}

	voices := make([]VoiceInfo, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		voices = append(voices, VoiceInfo{
			VoiceID:      v.VoiceID,
			Name:         v.Name,
			Language:     v.Labels["language"],
			LanguageCode: v.Labels["language"],
			Gender:       v.Labels["gender"],
			SampleURL:    v.PreviewURL,
		})
	}
	return voices, nil
}
