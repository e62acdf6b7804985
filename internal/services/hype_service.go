/**
 * @description
 * Hype Service: the orchestration layer behind the analyze endpoints.
 * Normalizes raw provider payloads, runs the historical scoring engine,
 * optionally refines the numeric score with an LLM, and caches results
 * in Redis keyed by ticker.
 *
 * Callers may supply pre-fetched provider payloads (the batch pipeline
 * does); when a payload is absent the service fetches live signals from
 * the trends and news integrations itself.
 *
 * @dependencies
 * - backend/internal/analysis
 * - backend/internal/signals
 * - backend/internal/integrations/{newsapi,trends,openai}
 * - github.com/redis/go-redis/v9
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hypetrack/backend/internal/analysis"
	"github.com/hypetrack/backend/internal/integrations/newsapi"
	"github.com/hypetrack/backend/internal/integrations/openai"
	"github.com/hypetrack/backend/internal/integrations/trends"
	"github.com/hypetrack/backend/internal/logger"
	"github.com/hypetrack/backend/internal/signals"
)

const (
	// Hype scores move on daily signals, a short TTL keeps them fresh
	HypeCacheTTL = 15 * time.Minute
)

// AnalyzeRequest carries one company's raw inputs. The payload maps mirror
// what the upstream collectors emit; any of them may be nil.
type AnalyzeRequest struct {
	CompanyName string         `json:"company_name"`
	Ticker      string         `json:"ticker"`
	SearchData  map[string]any `json:"search_data"`
	NewsData    map[string]any `json:"news_data"`
	StockData   map[string]any `json:"stock_data"`
}

// HypeService handles hype-score analysis requests
type HypeService struct {
	engine       *analysis.Service
	trendsClient *trends.Client
	newsClient   *newsapi.Client
	llmClient    *openai.Client
	redis        *redis.Client
}

// NewHypeService creates a new HypeService
func NewHypeService(engine *analysis.Service, trendsClient *trends.Client, newsClient *newsapi.Client, llmClient *openai.Client, rdb *redis.Client) *HypeService {
	return &HypeService{
		engine:       engine,
		trendsClient: trendsClient,
		newsClient:   newsClient,
		llmClient:    llmClient,
		redis:        rdb,
	}
}

// hypeCacheKey generates the Redis cache key for a ticker's result
func hypeCacheKey(ticker string) string {
	return fmt.Sprintf("hype:result:%s", strings.ToUpper(strings.TrimSpace(ticker)))
}

// Analyze runs the full pipeline for one company and returns the result.
// Data-quality problems never surface as errors; the engine degrades to
// neutral defaults instead.
func (s *HypeService) Analyze(ctx context.Context, req AnalyzeRequest) (*analysis.HypeScoreResult, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, fmt.Errorf("company name is required")
	}

	searchData := req.SearchData
	if searchData == nil {
		searchData = s.fetchSearchData(ctx, req.CompanyName)
	}
	newsData := req.NewsData
	if newsData == nil {
		newsData = s.fetchNewsData(ctx, req.CompanyName)
	}

	sig := signals.Normalize(req.CompanyName, searchData, newsData, req.StockData)
	if sig.Ticker == "" {
		sig.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	}

	result := s.engine.AnalyzeHypeScore(ctx, sig)

	if s.llmClient != nil && s.llmClient.Enabled() {
		refined, err := s.llmClient.RefineScore(ctx, sig.CompanyName, result.HypeScore, result.Analysis)
		if err == nil && refined != result.HypeScore {
			logger.Info("HypeService: LLM refined score for %s: %.1f -> %.1f", sig.CompanyName, result.HypeScore, refined)
			result.HypeScore = refined
		}
	}

	s.cacheResult(ctx, sig.Ticker, result)
	return result, nil
}

// CachedResult returns the cached result for a ticker, or nil on a miss.
func (s *HypeService) CachedResult(ctx context.Context, ticker string) (*analysis.HypeScoreResult, error) {
	if s.redis == nil || strings.TrimSpace(ticker) == "" {
		return nil, nil
	}

	data, err := s.redis.Get(ctx, hypeCacheKey(ticker)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hype cache read failed: %w", err)
	}

	var result analysis.HypeScoreResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("hype cache decode failed: %w", err)
	}
	return &result, nil
}

func (s *HypeService) cacheResult(ctx context.Context, ticker string, result *analysis.HypeScoreResult) {
	if s.redis == nil || ticker == "" || result == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		logger.Error("HypeService: Failed to encode result for cache: %v", err)
		return
	}
	if err := s.redis.Set(ctx, hypeCacheKey(ticker), data, HypeCacheTTL).Err(); err != nil {
		logger.Error("HypeService: Failed to cache result for %s: %v", ticker, err)
	}
}

// fetchSearchData pulls live trend interest and shapes it like a collector
// payload. Errors become an error field in the payload, matching how the
// normalizer expects provider failures to arrive.
func (s *HypeService) fetchSearchData(ctx context.Context, companyName string) map[string]any {
	if s.trendsClient == nil {
		return nil
	}
	interest, err := s.trendsClient.InterestOverTime(ctx, companyName)
	if err != nil {
		logger.Error("HypeService: Trends fetch failed for %s: %v", companyName, err)
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{
		"trend_score":      interest.TrendScore,
		"average_interest": interest.AverageScore,
		"recent_interest":  interest.RecentAverage,
	}
}

// fetchNewsData pulls live coverage, scores it, and shapes it like a
// collector payload.
func (s *HypeService) fetchNewsData(ctx context.Context, companyName string) map[string]any {
	if s.newsClient == nil {
		return nil
	}
	articles, err := s.newsClient.FetchCoverage(ctx, companyName)
	if err != nil {
		logger.Error("HypeService: News fetch failed for %s: %v", companyName, err)
		return map[string]any{"error": err.Error()}
	}
	sentiment := newsapi.ScoreSentiment(articles)
	return map[string]any{
		"sentiment_score": sentiment.Score,
		"total_articles":  sentiment.TotalArticles,
		"positive_count":  sentiment.PositiveCount,
		"negative_count":  sentiment.NegativeCount,
		"neutral_count":   sentiment.TotalArticles - sentiment.PositiveCount - sentiment.NegativeCount,
	}
}
