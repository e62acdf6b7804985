/**
 * @description
 * Historical analysis service: orchestrates similarity matching, historical
 * benchmarking, the per-signal fallback policy, performance prediction and
 * final score composition into one hype-score invocation.
 *
 * Error policy: a data-quality problem can never surface to the caller.
 * Corpus failures become empty pools; an empty historical pipeline or an
 * unexpected panic anywhere in scoring yields the fixed fallback result.
 * AnalyzeHypeScore always returns a structurally valid HypeScoreResult.
 *
 * @dependencies
 * - backend/internal/models
 * - backend/internal/signals
 * - backend/internal/logger
 */

package analysis

import (
	"context"

	"github.com/hypetrack/backend/internal/logger"
	"github.com/hypetrack/backend/internal/models"
	"github.com/hypetrack/backend/internal/signals"
)

// Corpus metric column identifiers accepted by CorpusReader.MetricPool.
const (
	ColumnRevenueGrowth = "revenue_growth_yoy"
	ColumnGrossMargin   = "gross_margin"
	ColumnMarketCap     = "market_cap_at_ipo"
)

// CorpusReader is the read contract over the historical IPO store.
// Implementations return wrapped errors on store failure; the service owns
// the degradation policy and downgrades every error to an empty pool, which
// downstream stages treat as insufficient data.
type CorpusReader interface {
	// MetricPool returns all non-null values of one historical_ipos metric
	// column within the lookback window.
	MetricPool(ctx context.Context, column string) ([]float64, error)
	// CandidatePeers returns recent historical IPOs loosely matching the cap
	// category and sector (null columns match, so unknowns are not excluded).
	CandidatePeers(ctx context.Context, capCategory, sector string) ([]models.HistoricalIPO, error)
	// TrendScores returns trend-score samples within the rolling window,
	// restricted to the given tickers when any are supplied.
	TrendScores(ctx context.Context, tickers []string) ([]float64, error)
	// SentimentScores is TrendScores for news-sentiment samples.
	SentimentScores(ctx context.Context, tickers []string) ([]float64, error)
	// ReturnPools returns the realized first day/week/month return pools.
	ReturnPools(ctx context.Context) (day, week, month []float64, err error)
}

// Service runs the historical hype-score analysis against a corpus.
type Service struct {
	Corpus CorpusReader
}

// NewService creates an analysis service backed by the given corpus reader.
func NewService(corpus CorpusReader) *Service {
	return &Service{Corpus: corpus}
}

// AnalyzeHypeScore runs the full pipeline for one company.
/// It never returns an error: degraded inputs degrade the result instead.
func (s *Service) AnalyzeHypeScore(ctx context.Context, sig signals.CompanySignals) (result *HypeScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("historical analysis panic for %s: %v", sig.CompanyName, r)
			result = FallbackResult("")
		}
	}()

	peers := s.matchPeers(ctx, sig)
	benchmarks := s.calculateBenchmarks(ctx, sig, peers)
	trend := s.analyzeTrendHistory(ctx, sig, peers)
	sentiment := s.analyzeSentimentHistory(ctx, sig, peers)

	forecast, ok := s.forecastPerformance(ctx, peers)
	if !ok {
		// No realized-return evidence anywhere: the historical pipeline is
		// effectively empty and the documented neutral fallback applies.
		return FallbackResult("")
	}

	return compose(peers, benchmarks, trend, sentiment, forecast)
}

// matchPeers fetches candidate rows and runs the similarity rule over them.
func (s *Service) matchPeers(ctx context.Context, sig signals.CompanySignals) []SimilarityMatch {
	capCategory := models.MarketCapCategory(sig.ImpliedMarketCap)
	candidates, err := s.Corpus.CandidatePeers(ctx, capCategory, sig.Sector)
	if err != nil {
		logger.Error("peer candidate query failed: %v", err)
		return nil
	}
	return MatchSimilar(sig, candidates)
}

// calculateBenchmarks fetches the three metric pools and benchmarks the
// company against them and the peer copies. A failed pool fetch produces no
// benchmarks for any metric, mirroring a corpus outage.
func (s *Service) calculateBenchmarks(ctx context.Context, sig signals.CompanySignals, peers []SimilarityMatch) []Benchmark {
	pools := make(map[string][]float64, 3)
	for column, metric := range map[string]string{
		ColumnRevenueGrowth: MetricRevenueGrowth,
		ColumnGrossMargin:   MetricGrossMargin,
		ColumnMarketCap:     MetricMarketCap,
	} {
		values, err := s.Corpus.MetricPool(ctx, column)
		if err != nil {
			logger.Error("benchmark pool query failed for %s: %v", column, err)
			return nil
		}
		pools[metric] = values
	}
	return buildBenchmarks(sig, pools, peers)
}

// analyzeTrendHistory pulls the trend pools and applies the fallback policy.
func (s *Service) analyzeTrendHistory(ctx context.Context, sig signals.CompanySignals, peers []SimilarityMatch) TrendAnalysis {
	historical, err := s.Corpus.TrendScores(ctx, nil)
	if err != nil {
		logger.Error("historical trend pool query failed: %v", err)
		historical = nil
	}

	var peerScores []float64
	if tickers := peerTickers(peers); len(tickers) > 0 {
		peerScores, err = s.Corpus.TrendScores(ctx, tickers)
		if err != nil {
			logger.Error("peer trend pool query failed: %v", err)
			peerScores = nil
		}
	}

	return analyzeTrend(sig, historical, peerScores)
}

// analyzeSentimentHistory pulls the sentiment pools and applies the fallback policy.
func (s *Service) analyzeSentimentHistory(ctx context.Context, sig signals.CompanySignals, peers []SimilarityMatch) SentimentAnalysis {
	historical, err := s.Corpus.SentimentScores(ctx, nil)
	if err != nil {
		logger.Error("historical sentiment pool query failed: %v", err)
		historical = nil
	}

	var peerScores []float64
	if tickers := peerTickers(peers); len(tickers) > 0 {
		peerScores, err = s.Corpus.SentimentScores(ctx, tickers)
		if err != nil {
			logger.Error("peer sentiment pool query failed: %v", err)
			peerScores = nil
		}
	}

	return analyzeSentiment(sig, historical, peerScores)
}

// forecastPerformance pulls the realized-return pools and projects outcomes.
func (s *Service) forecastPerformance(ctx context.Context, peers []SimilarityMatch) (PerformanceForecast, bool) {
	day, week, month, err := s.Corpus.ReturnPools(ctx)
	if err != nil {
		logger.Error("return pool query failed: %v", err)
		day, week, month = nil, nil, nil
	}
	return predictPerformance(day, week, month, peers)
}
