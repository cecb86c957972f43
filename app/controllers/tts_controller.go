package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/internal/pkg/orchestrator"
	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
)

type synthesizeRequest struct {
	Text         string  `json:"text"`
	VoiceID      string  `json:"voice_id"`
	LanguageCode string  `json:"language_code"`
	ModelID      string  `json:"model_id"`
	OutputFormat string  `json:"output_format"`
	Speed        float64 `json:"speed"`
	Pitch        float64 `json:"pitch"`
}

// HandleSynthesize runs text-to-speech against a specific provider when the
// :provider param is present, otherwise against the first active TTS config.
// The response body is the raw audio; usage metadata travels in headers.
func HandleSynthesize(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req synthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Invalid JSON body"})
	}

	out, err := getOrchestrator().Synthesize(c.UserContext(), userCtx, orchestrator.SynthesizeInput{
		Text:         req.Text,
		Provider:     c.Params("provider"),
		VoiceID:      req.VoiceID,
		LanguageCode: req.LanguageCode,
		ModelID:      req.ModelID,
		OutputFormat: req.OutputFormat,
		Speed:        req.Speed,
		Pitch:        req.Pitch,
	})
	if err != nil {
		return respondOrchestratorError(c, err)
	}

	archiveSynthesis(c.UserContext(), out.Format, out.Audio)

	c.Set(fiber.HeaderContentType, audioMIME(out.Format))
	c.Set("X-Provider", out.Provider)
	c.Set("X-Audio-Format", out.Format)
	c.Set("X-Billed-Credits", strconv.FormatInt(out.Usage.BilledCredits, 10))
	return c.Send(out.Audio)
}

func audioMIME(format string) string {
	switch {
	case format == "wav" || format == "riff-24khz-16bit-mono-pcm":
		return "audio/wav"
	case format == "ogg":
		return "audio/ogg"
	case format == "flac":
		return "audio/flac"
	default:
		// mp3 variants dominate across providers
		return "audio/mpeg"
	}
}
