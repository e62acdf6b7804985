/**
 * @description
 * Admin API Handlers.
 * Exposes the manual trigger for the nightly precompute run.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hypetrack/backend/internal/logger"
	"github.com/hypetrack/backend/internal/services"
)

// Manual runs get the same generous deadline the cron job does
const precomputeTimeout = 90 * time.Minute

type AdminHandler struct {
	Ingest *services.IngestService
}

func NewAdminHandler(ingest *services.IngestService) *AdminHandler {
	return &AdminHandler{Ingest: ingest}
}

// TriggerPrecompute starts an ingest run in the background
// POST /api/v1/admin/precompute
func (h *AdminHandler) TriggerPrecompute(c *fiber.Ctx) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), precomputeTimeout)
		defer cancel()

		summary, err := h.Ingest.Run(ctx)
		if err != nil {
			if strings.Contains(err.Error(), "already in progress") {
				logger.Info("AdminHandler: Precompute trigger skipped, a run is already in progress")
				return
			}
			logger.Error("AdminHandler: Precompute run failed: %v", err)
			return
		}
		logger.Info("AdminHandler: Precompute run %s complete", summary.RunID)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "started",
	})
}
