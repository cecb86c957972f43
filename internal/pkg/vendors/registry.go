package vendors

import (
	"net/http"
	"strings"
	"time"
)

// Provider name constants as stored on ProviderConfig rows.
const (
	ProviderAzure      = "azure"
	ProviderGCP        = "gcp"
	ProviderElevenLabs = "elevenlabs"
	ProviderSpeechify  = "speechify"
	ProviderLemonFox   = "lemonfox"
	ProviderModelLabs  = "modellabs"
	ProviderLabs       = "labs"
)

// Registry resolves provider names to their adapter implementation.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry with all built-in adapters sharing one HTTP
// client. Vendor calls block until the vendor answers or the client times
// out; there is no internal retry.
func NewRegistry() *Registry {
	client := &http.Client{Timeout: 120 * time.Second}
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range []Adapter{
		NewAzureAdapter(client),
		NewGCPAdapter(client),
		NewElevenLabsAdapter(client),
		NewSpeechifyAdapter(client),
		NewLemonFoxAdapter(client),
		NewModelLabsAdapter(client),
		NewLabsAdapter(client),
	} {
		r.Register(a)
	}
	return r
}

// Register adds or replaces an adapter.
func (r *Registry) Register(a Adapter) {
	r.adapters[strings.ToLower(a.Provider())] = a
}

// Lookup returns the adapter for a provider name.
func (r *Registry) Lookup(provider string) (Adapter, bool) {
	a, ok := r.adapters[strings.ToLower(strings.TrimSpace(provider))]
	return a, ok
}

// Providers lists all registered provider names.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}
