package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AzureAdapter integrates the Azure Cognitive Services speech endpoints. The
// region is part of the hostname, so Credentials.Region is mandatory.
type AzureAdapter struct {
	client *http.Client
	// hostOverride replaces the region-derived host in tests.
	hostOverride string
}

// NewAzureAdapter creates an Azure adapter using the shared client.
func NewAzureAdapter(client *http.Client) *AzureAdapter {
	return &AzureAdapter{client: client}
}

func (a *AzureAdapter) Provider() string { return ProviderAzure }

func (a *AzureAdapter) host(creds Credentials, service string) string {
	if a.hostOverride != "" {
		return a.hostOverride
	}
	return fmt.Sprintf("https://%s.%s.speech.microsoft.com", creds.Region, service)
}

func (a *AzureAdapter) Synthesize(ctx context.Context, creds Credentials, req SynthesisRequest) (*SynthesisResult, error) {
	if creds.Region == "" || creds.APIKey == "" {
		return nil, fmt.Errorf("azure: region and subscription key are required")
	}

	lang := req.LanguageCode
	if lang == "" {
		lang = "en-US"
	}
	format := req.OutputFormat
	if format == "" {
		format = "audio-24khz-96kbitrate-mono-mp3"
	}

	ssml := fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice name='%s'>%s</voice></speak>`,
		lang, req.VoiceID, escapeSSML(req.Text),
	)

	url := a.host(creds, "tts") + "/cognitiveservices/v1"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(ssml))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", creds.APIKey)
	httpReq.Header.Set("Content-Type", "application/ssml+xml")
	httpReq.Header.Set("X-Microsoft-OutputFormat", format)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("azure tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderAzure, resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azure tts response: %w", err)
	}
	return &SynthesisResult{Audio: audio, Format: format}, nil
}

func (a *AzureAdapter) Transcribe(ctx context.Context, creds Credentials, audio []byte, filename string) (string, error) {
	return "", ErrNotSupported
}

func (a *AzureAdapter) CreateClone(ctx context.Context, creds Credentials, req CloneRequest) (string, error) {
	return "", ErrNotSupported
}

func (a *AzureAdapter) ListVoices(ctx context.Context, creds Credentials) ([]VoiceInfo, error) {
	if creds.Region == "" || creds.APIKey == "" {
		return nil, fmt.Errorf("azure: region and subscription key are required")
	}

	url := a.host(creds, "tts") + "/cognitiveservices/voices/list"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", creds.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("azure voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(ProviderAzure, resp)
	}

	var parsed []struct {
		Name        string   `json:"Name"`
		ShortName   string   `json:"ShortName"`
		DisplayName string   `json:"DisplayName"`
		Gender      string   `json:"Gender"`
		Locale      string   `json:"Locale"`
		LocaleName  string   `json:"LocaleName"`
		StyleList   []string `json:"StyleList"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("azure voices response: %w", err)
	}

	voices := make([]VoiceInfo, 0, len(parsed))
	for _, v := range parsed {
		voiceID := v.ShortName
		if voiceID == "" {
			voiceID = v.Name
		}
		voices = append(voices, VoiceInfo{
			VoiceID:      voiceID,
			Name:         v.DisplayName,
			Language:     v.LocaleName,
			LanguageCode: v.Locale,
			Gender:       v.Gender,
			Styles:       v.StyleList,
		})
	}
	return voices, nil
}

// escapeSSML escapes the XML-significant characters in user text.
func escapeSSML(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(text)
}
