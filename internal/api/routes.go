/**
 * @description
 * API Route definitions.
 * Sets up the router groups, wires services to handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 */

package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hypetrack/backend/internal/analysis"
	"github.com/hypetrack/backend/internal/api/handlers"
	"github.com/hypetrack/backend/internal/api/middleware"
	"github.com/hypetrack/backend/internal/config"
	"github.com/hypetrack/backend/internal/corpus"
	"github.com/hypetrack/backend/internal/integrations/newsapi"
	"github.com/hypetrack/backend/internal/integrations/openai"
	"github.com/hypetrack/backend/internal/integrations/trends"
	"github.com/hypetrack/backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize Middleware
	if err := middleware.InitAuthMiddleware(cfg); err != nil {
		log.Printf("Failed to init auth middleware: %v", err)
		// App still starts without the admin secret; admin routes will
		// reject every request until it is configured.
	}

	// 2. Initialize Services
	store := corpus.NewStore(db)
	engine := analysis.NewService(store)
	trendsClient := trends.NewClient(cfg)
	newsClient := newsapi.NewClient(cfg)
	llmClient := openai.NewClient(cfg)

	hypeService := services.NewHypeService(engine, trendsClient, newsClient, llmClient, rdb)
	ingestService := services.NewIngestService(store, trendsClient, newsClient, rdb, cfg.Worker.FetchDelay, cfg.Worker.CompanyLimit)

	// 3. Initialize Handlers
	hypeHandler := handlers.NewHypeHandler(hypeService)
	adminHandler := handlers.NewAdminHandler(ingestService)

	// 4. Define Routes
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Public Routes
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Hype Routes (Public)
	hype := v1.Group("/hype")
	hype.Post("/analyze", hypeHandler.AnalyzeHype)
	hype.Get("/:ticker", hypeHandler.GetHypeByTicker)

	// Admin Routes (Protected)
	admin := v1.Group("/admin", middleware.Protected())
	admin.Post("/precompute", adminHandler.TriggerPrecompute)
}
