package controllers

import (
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/orchestrator"
	"github.com/VoiceAsService/VoxGate/internal/pkg/usercontext"
	"github.com/VoiceAsService/VoxGate/internal/pkg/vendors"
)

// HandleCreateClone creates a vendor-side voice clone from uploaded samples
// and stores the returned clone id for the authenticated user.
func HandleCreateClone(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Multipart form is required"})
	}

	var samples []vendors.CloneSample
	for _, fileHeader := range form.File["samples"] {
		if fileHeader.Size > maxAudioUploadBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "validation_error", "message": "Sample file too large"})
		}
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Could not read sample file"})
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "Could not read sample file"})
		}
		samples = append(samples, vendors.CloneSample{Filename: fileHeader.Filename, Data: data})
	}

	out, err := getOrchestrator().CreateClone(c.UserContext(), userCtx, orchestrator.CloneInput{
		Provider:              c.Params("provider"),
		Name:                  c.FormValue("name"),
		Description:           c.FormValue("description"),
		Gender:                c.FormValue("gender"),
		Language:              c.FormValue("language"),
		Samples:               samples,
		RemoveBackgroundNoise: c.FormValue("remove_background_noise") == "true",
	})
	if err != nil {
		return respondOrchestratorError(c, err)
	}

	archiveCloneSamples(c.UserContext(), userCtx.UserID, out.Clone.CloneID, samples)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"clone":          out.Clone,
		"provider":       out.Provider,
		"billed_credits": out.Usage.BilledCredits,
	})
}

// HandleListClones returns the authenticated user's clones.
func HandleListClones(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	clones, err := repository.GetGlobalFactory().GetVoiceCloneRepository().ListByUser(userCtx.UserID)
	if err != nil {
		log.Printf("failed to list clones for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load clones"})
	}

	return c.JSON(fiber.Map{"clones": clones, "count": len(clones)})
}

// HandleDeleteClone removes one of the authenticated user's clones. Ownership
// is enforced in the delete itself; other users' clone ids read as missing.
func HandleDeleteClone(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	cloneID := c.Params("clone_id")
	if cloneID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": "clone_id is required"})
	}

	deleted, err := repository.GetGlobalFactory().GetVoiceCloneRepository().DeleteOwned(userCtx.UserID, cloneID)
	if err != nil {
		log.Printf("failed to delete clone %s for user %d: %v", cloneID, userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete clone"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Clone not found"})
	}

	return c.JSON(fiber.Map{"deleted": true})
}
