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

const lemonFoxDefaultBaseURL = "https://api.lemonfox.ai"

// LemonFoxAdapter integrates the LemonFox OpenAI-compatible speech endpoints.
type LemonFoxAdapter struct {
	client  *http.Client
	baseURL string
}

// NewLemonFoxAdapter creates a LemonFox adapter using the shared client.
func NewLemonFoxAdapter(client *http.Client) *LemonFoxAdapter {
	return &LemonFoxAdapter{client: client, baseURL: lemonFoxDefaultBaseURL}
}

func (a *LemonFoxAdapter) Provider() string { return ProviderLemonFox }

func (a *LemonFoxAdapter) Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error) {
	format := req.OutputFormat
	if format == "" {
		format = "mp3"
	}

	body, err := json.Marshal(map[string]any{
		"input":           req.Text,
		"voice":           req.VoiceID,
		"response_format": format,
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
		return nil, fmt.Errorf("lemonfox tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderLemonFox, resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lemonfox tts response: %w", err)
	}
	return &SynthesisResult{Audio: audio, Format: format}, nil
}

func (a *LemonFoxAdapter) Transcribe(ctx context.Context, creds Credentials, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("lemonfox stt request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(ProviderLemonFox, resp)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("lemonfox stt response: %w", err)
	}
	return parsed.Text, nil
}

func (a *LemonFoxAdapter) CreateClone(ctx context.Context, creds Credentials, req CloneRequest) (string, error) {
	return "", ErrNotSupported
}

func (a *LemonFoxAdapter) ListVoices(ctx context.Context, creds Credentials) ([]VoiceInfo, error) {
	return nil, ErrNotSupported
}
