/**
 * @description
 * Ingest Service: the nightly precompute job. Walks the tracked IPO
 * universe, fetches fresh search-trend and news-sentiment observations per
 * company, and appends one sample row each to the two time-series tables.
 * Every run is tagged with a UUID so downstream analysis can group samples
 * by run.
 *
 * A Redis lock guards against overlapping runs (cron firing while a manual
 * admin trigger is still working). Provider fetches are paced with a rate
 * limiter so a 50-company run does not hammer the upstream APIs.
 *
 * @dependencies
 * - backend/internal/corpus
 * - backend/internal/integrations/{newsapi,trends}
 * - github.com/google/uuid
 * - golang.org/x/time/rate
 * - github.com/redis/go-redis/v9
 */

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/hypetrack/backend/internal/corpus"
	"github.com/hypetrack/backend/internal/integrations/newsapi"
	"github.com/hypetrack/backend/internal/integrations/trends"
	"github.com/hypetrack/backend/internal/logger"
	"github.com/hypetrack/backend/internal/models"
)

const (
	ingestLockKey = "ingest:run:lock"
	// Generous upper bound; a run holding the lock longer than this is stuck
	ingestLockTTL = 2 * time.Hour
)

// RunSummary reports what one ingest run accomplished.
type RunSummary struct {
	RunID            string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	CompaniesVisited int       `json:"companies_visited"`
	TrendSamples     int       `json:"trend_samples"`
	SentimentSamples int       `json:"sentiment_samples"`
	Errors           int       `json:"errors"`
}

// IngestService runs the nightly signal precompute
type IngestService struct {
	store        *corpus.Store
	trendsClient *trends.Client
	newsClient   *newsapi.Client
	redis        *redis.Client
	limiter      *rate.Limiter
	companyLimit int
}

// NewIngestService creates a new IngestService. fetchDelay is the minimum
// spacing between per-company provider fetches.
func NewIngestService(store *corpus.Store, trendsClient *trends.Client, newsClient *newsapi.Client, rdb *redis.Client, fetchDelay time.Duration, companyLimit int) *IngestService {
	if fetchDelay <= 0 {
		fetchDelay = time.Second
	}
	return &IngestService{
		store:        store,
		trendsClient: trendsClient,
		newsClient:   newsClient,
		redis:        rdb,
		limiter:      rate.NewLimiter(rate.Every(fetchDelay), 1),
		companyLimit: companyLimit,
	}
}

// Run executes one full ingest pass. Per-company failures are counted and
// skipped; only a failure to load the universe or to acquire the run lock
// aborts the run.
func (s *IngestService) Run(ctx context.Context) (*RunSummary, error) {
	release, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger.Info("IngestService: Starting run %s", summary.RunID)

	companies, err := s.store.RecentIPOs(ctx, s.companyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracked universe: %w", err)
	}
	if len(companies) == 0 {
		logger.Info("IngestService: No tracked companies, nothing to do")
		return summary, nil
	}

	sampleDate := truncateToDay(time.Now().UTC())
	for _, company := range companies {
		if err := s.limiter.Wait(ctx); err != nil {
			return summary, err // context cancelled mid-run
		}
		summary.CompaniesVisited++

		if s.ingestTrend(ctx, company, sampleDate, summary.RunID) {
			summary.TrendSamples++
		} else {
			summary.Errors++
		}
		if s.ingestSentiment(ctx, company, sampleDate, summary.RunID) {
			summary.SentimentSamples++
		} else {
			summary.Errors++
		}
	}

	logger.Info("IngestService: Run %s finished: %d companies, %d trend samples, %d sentiment samples, %d errors",
		summary.RunID, summary.CompaniesVisited, summary.TrendSamples, summary.SentimentSamples, summary.Errors)
	return summary, nil
}

func (s *IngestService) ingestTrend(ctx context.Context, company models.HistoricalIPO, date time.Time, runID string) bool {
	if s.trendsClient == nil {
		return false
	}
	interest, err := s.trendsClient.InterestOverTime(ctx, company.Name)
	if err != nil {
		logger.Error("IngestService: Trend fetch failed for %s: %v", company.Ticker, err)
		return false
	}

	sample := &models.SearchTrendSample{
		CIK:          company.CIK,
		Ticker:       company.Ticker,
		Date:         date,
		TrendScore:   interest.TrendScore,
		AverageScore: interest.AverageScore,
		RecentScore:  interest.RecentAverage,
		RunID:        runID,
	}
	if err := s.store.AppendTrendSample(ctx, sample); err != nil {
		logger.Error("IngestService: Trend sample insert failed for %s: %v", company.Ticker, err)
		return false
	}
	return true
}

func (s *IngestService) ingestSentiment(ctx context.Context, company models.HistoricalIPO, date time.Time, runID string) bool {
	if s.newsClient == nil {
		return false
	}
	articles, err := s.newsClient.FetchCoverage(ctx, company.Name)
	if err != nil {
		logger.Error("IngestService: News fetch failed for %s: %v", company.Ticker, err)
		return false
	}
	sentiment := newsapi.ScoreSentiment(articles)

	sample := &models.NewsSentimentSample{
		CIK:              company.CIK,
		Ticker:           company.Ticker,
		Date:             date,
		SentimentScore:   sentiment.Score,
		TotalArticles:    sentiment.TotalArticles,
		PositiveArticles: sentiment.PositiveCount,
		NegativeArticles: sentiment.NegativeCount,
		NeutralArticles:  sentiment.TotalArticles - sentiment.PositiveCount - sentiment.NegativeCount,
		RunID:            runID,
	}
	if err := s.store.AppendSentimentSample(ctx, sample); err != nil {
		logger.Error("IngestService: Sentiment sample insert failed for %s: %v", company.Ticker, err)
		return false
	}
	return true
}

// acquireLock takes the run lock, or fails if another run holds it. The
// returned release func is safe to call even when Redis is unavailable.
func (s *IngestService) acquireLock(ctx context.Context) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}
	ok, err := s.redis.SetNX(ctx, ingestLockKey, time.Now().UTC().Format(time.RFC3339), ingestLockTTL).Result()
	if err != nil {
		// Redis being down should not block the nightly job
		logger.Error("IngestService: Run lock unavailable, proceeding without it: %v", err)
		return func() {}, nil
	}
	if !ok {
		return nil, fmt.Errorf("an ingest run is already in progress")
	}
	return func() {
		if err := s.redis.Del(context.Background(), ingestLockKey).Err(); err != nil {
			logger.Error("IngestService: Failed to release run lock: %v", err)
		}
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
