package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/VoiceAsService/VoxGate/internal/pkg/statistics"
)

// HandleUsageStatistics returns the platform usage report: per-configuration
// vendor credit counters plus user and subscription totals (admin only).
func HandleUsageStatistics(c *fiber.Ctx) error {
	statistics.UpdateCacheIfNeeded()

	report, err := statistics.BuildUsageReport()
	if err != nil {
		log.Printf("failed to build usage report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load statistics"})
	}

	return c.JSON(report)
}
