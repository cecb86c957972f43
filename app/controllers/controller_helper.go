package controllers

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VoiceAsService/VoxGate/app/repository"
	"github.com/VoiceAsService/VoxGate/internal/pkg/audiostore"
	"github.com/VoiceAsService/VoxGate/internal/pkg/entitlements"
	"github.com/VoiceAsService/VoxGate/internal/pkg/orchestrator"
	"github.com/VoiceAsService/VoxGate/internal/pkg/vendors"
	"github.com/VoiceAsService/VoxGate/internal/pkg/voicesync"
)

var timeNow = time.Now

var (
	setupOnce      sync.Once
	vendorRegistry *vendors.Registry
	requestOrch    *orchestrator.Orchestrator
	catalogSyncer  *voicesync.Syncer
	audioArchive   *audiostore.Client
	audioStoreCfg  *audiostore.Config
)

func setupServices() {
	setupOnce.Do(func() {
		vendorRegistry = vendors.NewRegistry()
		repos := repository.GetGlobalRepositories()
		requestOrch = orchestrator.New(repos, vendorRegistry)
		catalogSyncer = voicesync.New(repos.Voice, vendorRegistry)

		storeCfg, err := audiostore.LoadConfig()
		if err != nil {
			log.Printf("audio store disabled: %v", err)
			return
		}
		if storeCfg.IsEnabled() {
			audioArchive, err = audiostore.NewClient(storeCfg)
			if err != nil {
				log.Printf("audio store disabled: %v", err)
				audioArchive = nil
				return
			}
			audioStoreCfg = storeCfg
		}
	})
}

// archiveSynthesis keeps a copy of a synthesized result in the audio store.
// Archiving is best effort and never fails the request.
func archiveSynthesis(ctx context.Context, format string, audio []byte) {
	if audioArchive == nil {
		return
	}
	key := audioStoreCfg.SynthesisKey(uuid.NewString(), format, timeNow())
	if _, err := audioArchive.Store(ctx, key, audio); err != nil {
		log.Printf("failed to archive synthesis audio: %v", err)
	}
}

// archiveCloneSamples keeps the uploaded clone samples in the audio store.
func archiveCloneSamples(ctx context.Context, userID uint, cloneID string, samples []vendors.CloneSample) {
	if audioArchive == nil {
		return
	}
	for _, sample := range samples {
		key := audioStoreCfg.CloneSampleKey(userID, cloneID, sample.Filename)
		if _, err := audioArchive.Store(ctx, key, sample.Data); err != nil {
			log.Printf("failed to archive clone sample %s: %v", sample.Filename, err)
		}
	}
}

func getOrchestrator() *orchestrator.Orchestrator {
	setupServices()
	return requestOrch
}

func getSyncer() *voicesync.Syncer {
	setupServices()
	return catalogSyncer
}

// respondOrchestratorError maps the orchestrator's error taxonomy onto HTTP
// statuses. Internal errors stay generic; details go to the log only.
func respondOrchestratorError(c *fiber.Ctx, err error) error {
	var validation *orchestrator.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": validation.Message})
	}

	var admission *orchestrator.AdmissionError
	if errors.As(err, &admission) {
		status := fiber.StatusForbidden
		if admission.Reason == entitlements.ReasonInsufficientCredits {
			status = fiber.StatusPaymentRequired
		}
		return c.Status(status).JSON(fiber.Map{"error": "admission_denied", "reason": string(admission.Reason)})
	}

	if errors.Is(err, orchestrator.ErrNoProviderConfig) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "no_provider", "message": "No active provider configuration for this capability"})
	}

	var vendor *orchestrator.VendorError
	if errors.As(err, &vendor) {
		log.Printf("vendor %s failed: %v", vendor.Provider, vendor.Err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "vendor_failed", "provider": vendor.Provider, "message": "Upstream provider request failed"})
	}

	log.Printf("request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Something went wrong"})
}

func respondNotFoundOrInternal(c *fiber.Ctx, err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": what + " not found"})
	}
	log.Printf("failed to load %s: %v", what, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load " + what})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
