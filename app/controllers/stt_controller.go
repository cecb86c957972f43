package controllers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
)

// maxAudioUploadBytes bounds STT and clone sample uploads.
const maxAudioUploadBytes = 25 << 20

// HandleTranscribe runs speech-to-text on an uploaded audio file. The provider
// comes from the :provider param or defaults to the first active STT config.
func HandleTranscribe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Audio file is required"})
	}
	if fileHeader.Size > maxAudioUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "validation_error", "message": "Audio file too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Could not read audio file"})
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Could not read audio file"})
	}

	out, err := getOrchestrator().Transcribe(c.UserContext(), userCtx, c.Params("provider"), audio, fileHeader.Filename)
	if err != nil {
		return respondOrchestratorError(c, err)
	}

	return c.JSON(fiber.Map{
		"text":           out.Text,
		"provider":       out.Provider,
		"billed_credits": out.Usage.BilledCredits,
	})
}
