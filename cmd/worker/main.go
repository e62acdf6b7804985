/**
 * @description
 * Worker Service Entry Point.
 * Runs the nightly signal precompute on a cron schedule: for every tracked
 * IPO, fetches fresh search-trend and news-sentiment observations and
 * appends them to the historical time-series tables.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/corpus
 * - backend/internal/services
 * - github.com/robfig/cron/v3
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hypetrack/backend/internal/config"
	"github.com/hypetrack/backend/internal/corpus"
	"github.com/hypetrack/backend/internal/db"
	"github.com/hypetrack/backend/internal/integrations/newsapi"
	"github.com/hypetrack/backend/internal/integrations/trends"
	"github.com/hypetrack/backend/internal/logger"
	"github.com/hypetrack/backend/internal/services"
)

// Each scheduled run gets its own deadline so a hung provider cannot
// stall the next night's run
const runTimeout = 90 * time.Minute

func main() {
	logger.Info("🔥 Starting Hype Tracker Worker...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Connect DBs
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Postgres connection failed: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Redis connection failed: %v", err)
	}

	// 3. Initialize Services
	store := corpus.NewStore(pgDB)
	trendsClient := trends.NewClient(cfg)
	newsClient := newsapi.NewClient(cfg)
	ingestService := services.NewIngestService(store, trendsClient, newsClient, redisClient, cfg.Worker.FetchDelay, cfg.Worker.CompanyLimit)

	// 4. Context with Cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Schedule the Nightly Run
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.CronSpec, func() {
		runCtx, runCancel := context.WithTimeout(ctx, runTimeout)
		defer runCancel()

		summary, err := ingestService.Run(runCtx)
		if err != nil {
			logger.Error("❌ Scheduled ingest run failed: %v", err)
			return
		}
		logger.Info("✅ Scheduled ingest run %s complete", summary.RunID)
	})
	if err != nil {
		logger.Fatal("Invalid cron spec %q: %v", cfg.Worker.CronSpec, err)
	}
	scheduler.Start()
	logger.Info("⏰ Nightly precompute scheduled: %s", cfg.Worker.CronSpec)

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	// Let an in-flight run notice the cancelled context before stopping cron
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
		logger.Error("Timed out waiting for in-flight jobs to finish")
	}
	logger.Info("Worker exited.")
}
