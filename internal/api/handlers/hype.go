/**
 * @description
 * Hype API Handlers.
 * Exposes the analyze endpoint and the cached-result lookup.
 *
 * Data-quality problems never produce a 5xx here: the engine degrades to
 * neutral defaults, so the only error responses are for malformed requests
 * and cache misses.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hypetrack/backend/internal/logger"
	"github.com/hypetrack/backend/internal/services"
)

type HypeHandler struct {
	Service *services.HypeService
}

func NewHypeHandler(service *services.HypeService) *HypeHandler {
	return &HypeHandler{Service: service}
}

// AnalyzeHype scores one company from raw provider payloads
// POST /api/v1/hype/analyze
func (h *HypeHandler) AnalyzeHype(c *fiber.Ctx) error {
	var req services.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company_name is required",
		})
	}

	result, err := h.Service.Analyze(c.Context(), req)
	if err != nil {
		logger.Error("HypeHandler: Analyze failed for %s: %v", req.CompanyName, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Analysis could not be started",
		})
	}
	return c.JSON(result)
}

// GetHypeByTicker returns the most recent cached result for a ticker
// GET /api/v1/hype/:ticker
func (h *HypeHandler) GetHypeByTicker(c *fiber.Ctx) error {
	ticker := strings.TrimSpace(c.Params("ticker"))
	if ticker == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ticker is required",
		})
	}

	result, err := h.Service.CachedResult(c.Context(), ticker)
	if err != nil {
		logger.Error("HypeHandler: Cache lookup failed for %s: %v", ticker, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read cached result",
		})
	}
	if result == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No cached result for ticker",
		})
	}
	return c.JSON(result)
}
