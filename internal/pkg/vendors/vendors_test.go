package vendors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{
		ProviderAzure, ProviderGCP, ProviderElevenLabs,
		ProviderSpeechify, ProviderLemonFox, ProviderModelLabs, ProviderLabs,
	} {
		a, ok := reg.Lookup(name)
		require.True(t, ok, "provider %s should be registered", name)
		assert.Equal(t, name, a.Provider())
	}

	// Names coming off database rows may carry casing and whitespace.
	a, ok := reg.Lookup("  ElevenLabs ")
	require.True(t, ok)
	assert.Equal(t, ProviderElevenLabs, a.Provider())

	_, ok = reg.Lookup("unknown-vendor")
	assert.False(t, ok)
}

func TestElevenLabsSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello world", body["text"])

		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	adapter := NewElevenLabsAdapter(srv.Client())
	adapter.baseURL = srv.URL

	result, err := adapter.Synthesize(context.Background(), Credentials{APIKey: "secret-key"}, SynthesisRequest{
		Text:    "hello world",
		VoiceID: "voice-1",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), result.Audio)
	assert.Equal(t, "mp3_44100_128", result.Format)
}

func TestElevenLabsSynthesizeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	adapter := NewElevenLabsAdapter(srv.Client())
	adapter.baseURL = srv.URL

	_, err := adapter.Synthesize(context.Background(), Credentials{APIKey: "bad"}, SynthesisRequest{Text: "x", VoiceID: "v"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestElevenLabsTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "scribe_v1", r.FormValue("model_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "clip.wav", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "transcribed speech"})
	}))
	defer srv.Close()

	adapter := NewElevenLabsAdapter(srv.Client())
	adapter.baseURL = srv.URL

	text, err := adapter.Transcribe(context.Background(), Credentials{APIKey: "k"}, []byte("wav-data"), "clip.wav")
	require.NoError(t, err)
	assert.Equal(t, "transcribed speech", text)
}

func TestElevenLabsCreateClone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/voices/add", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "My Clone", r.FormValue("name"))
		assert.Len(t, r.MultipartForm.File["files"], 2)

		json.NewEncoder(w).Encode(map[string]string{"voice_id": "clone-42"})
	}))
	defer srv.Close()

	adapter := NewElevenLabsAdapter(srv.Client())
	adapter.baseURL = srv.URL

	id, err := adapter.CreateClone(context.Background(), Credentials{APIKey: "k"}, CloneRequest{
		Name: "My Clone",
		Samples: []CloneSample{
			{Filename: "a.wav", Data: []byte("aaa")},
			{Filename: "b.wav", Data: []byte("bbb")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "clone-42", id)
}

func TestAzureSynthesizeBuildsSSML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cognitiveservices/v1", r.URL.Path)
		assert.Equal(t, "sub-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "application/ssml+xml", r.Header.Get("Content-Type"))

		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		assert.Contains(t, string(body), "<voice name='en-US-JennyNeural'>")
		assert.Contains(t, string(body), "Tom &amp; Jerry")

		w.Write([]byte("azure-audio"))
	}))
	defer srv.Close()

	adapter := NewAzureAdapter(srv.Client())
	adapter.hostOverride = srv.URL

	result, err := adapter.Synthesize(context.Background(),
		Credentials{APIKey: "sub-key", Region: "westeurope"},
		SynthesisRequest{Text: "Tom & Jerry", VoiceID: "en-US-JennyNeural"})
	require.NoError(t, err)
	assert.Equal(t, []byte("azure-audio"), result.Audio)
}

func TestAzureRequiresRegion(t *testing.T) {
	adapter := NewAzureAdapter(http.DefaultClient)
	_, err := adapter.Synthesize(context.Background(), Credentials{APIKey: "k"}, SynthesisRequest{Text: "x"})
	assert.Error(t, err)
}

func TestGCPSynthesizeDecodesBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text:synthesize", r.URL.Path)
		assert.Equal(t, "gcp-key", r.URL.Query().Get("key"))

		// "gcp-audio" base64-encoded.
		json.NewEncoder(w).Encode(map[string]string{"audioContent": "Z2NwLWF1ZGlv"})
	}))
	defer srv.Close()

	adapter := NewGCPAdapter(srv.Client())
	adapter.baseURL = srv.URL

	result, err := adapter.Synthesize(context.Background(), Credentials{APIKey: "gcp-key"}, SynthesisRequest{
		Text:    "hello",
		VoiceID: "en-US-Standard-A",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("gcp-audio"), result.Audio)
	assert.Equal(t, "MP3", result.Format)
}

func TestLemonFoxTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer fox-key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		json.NewEncoder(w).Encode(map[string]string{"text": "lemon transcript"})
	}))
	defer srv.Close()

	adapter := NewLemonFoxAdapter(srv.Client())
	adapter.baseURL = srv.URL

	text, err := adapter.Transcribe(context.Background(), Credentials{APIKey: "fox-key"}, []byte("audio"), "rec.mp3")
	require.NoError(t, err)
	assert.Equal(t, "lemon transcript", text)
}

func TestModelLabsSynthesizeFetchesOutput(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v6/voice/text_to_audio":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ml-key", body["key"])
			assert.Equal(t, "say this", body["prompt"])

			json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"output": []string{srvURL + "/files/out.wav"},
			})
		case "/files/out.wav":
			w.Write([]byte("ml-audio"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	adapter := NewModelLabsAdapter(srv.Client())
	adapter.baseURL = srv.URL

	result, err := adapter.Synthesize(context.Background(), Credentials{APIKey: "ml-key"}, SynthesisRequest{
		Text:    "say this",
		VoiceID: "madison",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ml-audio"), result.Audio)
}

func TestModelLabsSynthesizeFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "invalid voice"})
	}))
	defer srv.Close()

	adapter := NewModelLabsAdapter(srv.Client())
	adapter.baseURL = srv.URL

	_, err := adapter.Synthesize(context.Background(), Credentials{APIKey: "k"}, SynthesisRequest{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid voice")
}

func TestUnsupportedCapabilities(t *testing.T) {
	ctx := context.Background()
	creds := Credentials{APIKey: "k", Region: "r"}

	_, err := NewAzureAdapter(http.DefaultClient).Transcribe(ctx, creds, nil, "a.wav")
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = NewGCPAdapter(http.DefaultClient).CreateClone(ctx, creds, CloneRequest{})
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = NewLabsAdapter(http.DefaultClient).ListVoices(ctx, creds)
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = NewLemonFoxAdapter(http.DefaultClient).CreateClone(ctx, creds, CloneRequest{})
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestSpeechifyListVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/voices", r.URL.Path)
		assert.Equal(t, "Bearer sp-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "george", "display_name": "George", "gender": "male", "locale": "en-US"},
		})
	}))
	defer srv.Close()

	adapter := NewSpeechifyAdapter(srv.Client())
	adapter.baseURL = srv.URL

	voices, err := adapter.ListVoices(context.Background(), Credentials{APIKey: "sp-key"})
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "george", voices[0].VoiceID)
	assert.Equal(t, "en-US", voices[0].LanguageCode)
}
