package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const labsDefaultBaseURL = "https://api.labs.voice.dev"

// LabsAdapter integrates the Labs voice API, a bearer-token TTS service with
// an ElevenLabs-style request shape.
type LabsAdapter struct {
	unsupported
	client  *http.Client
	baseURL string
}

// NewLabsAdapter creates a Labs adapter using the shared client.
func NewLabsAdapter(client *http.Client) *LabsAdapter {
	return &LabsAdapter{client: client, baseURL: labsDefaultBaseURL}
}

func (a *LabsAdapter) Provider() string { return ProviderLabs }

func (a *LabsAdapter) Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error) {
	format := req.OutputFormat
	if format == "" {
		format = "mp3"
	}

	payload := map[string]any{
		"input":    req.Text,
		"voice_id": req.VoiceID,
	}
	if req.ModelID != "" {
		payload["model_id"] = req.ModelID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/text-to-speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("labs tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderLabs, resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("labs tts response: %w", err)
	}
	return &SynthesisResult{Audio: audio, Format: format}, nil
}
