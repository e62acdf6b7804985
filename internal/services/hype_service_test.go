package services

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hypetrack/backend/internal/analysis"
	"github.com/hypetrack/backend/internal/models"
)

// stubCorpus returns fixed pools so the engine always has evidence.
type stubCorpus struct{}

func (stubCorpus) MetricPool(ctx context.Context, column string) ([]float64, error) {
	return []float64{0.1, 0.3, 0.5}, nil
}

func (stubCorpus) CandidatePeers(ctx context.Context, capCategory, sector string) ([]models.HistoricalIPO, error) {
	growth := 0.45
	day := 0.2
	return []models.HistoricalIPO{
		{
			Ticker: "PEER", Name: "Peer One",
			MarketCapCategory: models.CapCategoryMid,
			Sector:            "Technology",
			RevenueGrowthYoY:  &growth,
			FirstDayReturn:    &day,
		},
	}, nil
}

func (stubCorpus) TrendScores(ctx context.Context, tickers []string) ([]float64, error) {
	return []float64{40, 50, 60}, nil
}

func (stubCorpus) SentimentScores(ctx context.Context, tickers []string) ([]float64, error) {
	return []float64{-0.1, 0, 0.2}, nil
}

func (stubCorpus) ReturnPools(ctx context.Context) (day, week, month []float64, err error) {
	pool := []float64{0.05, 0.15, 0.25}
	return pool, pool, pool, nil
}

func newTestHypeService(t *testing.T) (*HypeService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	engine := analysis.NewService(stubCorpus{})
	return NewHypeService(engine, nil, nil, nil, redisClient), mr
}

func analyzePayload() AnalyzeRequest {
	return AnalyzeRequest{
		CompanyName: "Streamly",
		Ticker:      "STRM",
		SearchData: map[string]any{
			"trend_score":      80.0,
			"average_interest": 60.0,
			"recent_interest":  75.0,
		},
		NewsData: map[string]any{
			"sentiment_score": 0.3,
			"total_articles":  12,
			"positive_count":  8,
			"negative_count":  1,
		},
		StockData: map[string]any{
			"ticker":             "STRM",
			"sector":             "Technology",
			"market_cap":         5_000_000_000.0,
			"revenue_growth_yoy": 0.5,
			"gross_margin":       0.65,
		},
	}
}

func TestAnalyzeProducesAndCachesResult(t *testing.T) {
	service, _ := newTestHypeService(t)
	ctx := context.Background()

	result, err := service.Analyze(ctx, analyzePayload())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.HypeScore < 35 || result.HypeScore > 100 {
		t.Fatalf("score %v outside [35, 100]", result.HypeScore)
	}

	cached, err := service.CachedResult(ctx, "strm")
	if err != nil {
		t.Fatalf("CachedResult failed: %v", err)
	}
	if cached == nil {
		t.Fatal("expected the analyzed result to be cached")
	}
	if cached.HypeScore != result.HypeScore {
		t.Fatalf("cached score %v != analyzed score %v", cached.HypeScore, result.HypeScore)
	}
}

func TestAnalyzeRequiresCompanyName(t *testing.T) {
	service, _ := newTestHypeService(t)

	req := analyzePayload()
	req.CompanyName = "   "
	if _, err := service.Analyze(context.Background(), req); err == nil {
		t.Fatal("expected an error for a blank company name")
	}
}

func TestCachedResultMiss(t *testing.T) {
	service, _ := newTestHypeService(t)

	cached, err := service.CachedResult(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("CachedResult failed: %v", err)
	}
	if cached != nil {
		t.Fatal("expected a cache miss to return nil")
	}
}

func TestCacheEntryExpires(t *testing.T) {
	service, mr := newTestHypeService(t)
	ctx := context.Background()

	if _, err := service.Analyze(ctx, analyzePayload()); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	mr.FastForward(HypeCacheTTL + time.Minute)

	cached, err := service.CachedResult(ctx, "STRM")
	if err != nil {
		t.Fatalf("CachedResult failed: %v", err)
	}
	if cached != nil {
		t.Fatal("expected the cached entry to expire")
	}
}
