package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const modelLabsDefaultBaseURL = "https://modelslab.com"

// ModelLabsAdapter integrates the ModelsLab voice API. The API key travels in
// the JSON body rather than a header, and successful generations come back as
// an output URL that has to be fetched separately.
type ModelLabsAdapter struct {
	unsupported
	client  *http.Client
	baseURL string
}

// NewModelLabsAdapter creates a ModelsLab adapter using the shared client.
func NewModelLabsAdapter(client *http.Client) *ModelLabsAdapter {
	return &ModelLabsAdapter{client: client, baseURL: modelLabsDefaultBaseURL}
}

func (a *ModelLabsAdapter) Provider() string { return ProviderModelLabs }

func (a *ModelLabsAdapter) Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error) {
	body, err := json.Marshal(map[string]any{
		"key":      creds.APIKey,
		"prompt":   req.Text,
		"voice_id": req.VoiceID,
		"language": req.LanguageCode,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/v6/voice/text_to_audio", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("modellabs tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderModelLabs, resp)
	}

	var parsed struct {
		Status  string   `json:"status"`
		Message string   `json:"message"`
		Output  []string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("modellabs tts response: %w", err)
	}
	if parsed.Status != "success" || len(parsed.Output) == 0 {
		return nil, fmt.Errorf("modellabs tts failed: status %q: %s", parsed.Status, parsed.Message)
	}

	audio, err := a.fetchOutput(ctx, parsed.Output[0])
	if err != nil {
		return nil, err
	}
	return &SynthesisResult{Audio: audio, Format: "wav"}, nil
}

func (a *ModelLabsAdapter) fetchOutput(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("modellabs output fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderModelLabs, resp)
	}
	return io.ReadAll(resp.Body)
}
