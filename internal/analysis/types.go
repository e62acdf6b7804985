/**
 * @description
 * Result and intermediate types for the historical hype-score analysis.
 * SimilarityMatch, Benchmark and the per-signal analyses are transient: they
 * live for one scoring invocation and are never persisted.
 *
 * @dependencies
 * - none beyond the standard library
 */

package analysis

import (
	"time"
)

// FallbackSource identifies which pool supplied a signal's effective value.
type FallbackSource string

const (
	// FallbackLive means live upstream data was used directly
	FallbackLive FallbackSource = "live"
	// FallbackPeers means the similar-IPO pool median substituted for live data
	FallbackPeers FallbackSource = "similar"
	// FallbackHistorical means the full historical pool median substituted
	FallbackHistorical FallbackSource = "historical"
)

// SimilarityMatch is one historical IPO judged comparable to the current
// company, with a copy of the peer's outcome metrics so later stages never
// re-query the corpus.
type SimilarityMatch struct {
	Ticker          string   `json:"ticker"`
	Name            string   `json:"name"`
	SimilarityScore float64  `json:"similarity_score"`
	MatchingFactors []string `json:"matching_factors"`

	RevenueGrowth    *float64 `json:"revenue_growth,omitempty"`
	GrossMargin      *float64 `json:"gross_margin,omitempty"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	FirstDayReturn   *float64 `json:"first_day_return,omitempty"`
	FirstWeekReturn  *float64 `json:"first_week_return,omitempty"`
	FirstMonthReturn *float64 `json:"first_month_return,omitempty"`
}

// Benchmark holds the four paired statistics for one metric, computed once
// against the full historical pool and once against the peer set.
type Benchmark struct {
	MetricName   string  `json:"metric_name"`
	CurrentValue float64 `json:"current_value"`

	HistoricalMedian float64 `json:"historical_median"`
	HistoricalMean   float64 `json:"historical_mean"`
	HistoricalStd    float64 `json:"historical_std"`
	PercentileRank   float64 `json:"percentile_rank"`

	PeerMedian     float64 `json:"similar_ipos_median"`
	PeerMean       float64 `json:"similar_ipos_mean"`
	PeerStd        float64 `json:"similar_ipos_std"`
	PeerPercentile float64 `json:"similar_ipos_percentile"`
}

// TrendAnalysis captures the search-interest signal after historical
// benchmarking and the fallback decision.
type TrendAnalysis struct {
	CurrentScore   float64 `json:"current_trend_score"`
	EffectiveScore float64 `json:"effective_trend_score"`

	HistoricalPercentile float64 `json:"historical_percentile"`
	PeerPercentile       float64 `json:"similar_ipos_percentile"`
	EffectivePercentile  float64 `json:"effective_percentile"`

	Strength string `json:"trend_strength"`
	Impact   string `json:"trend_impact"`

	HistoricalMedian float64 `json:"historical_median"`
	PeerMedian       float64 `json:"similar_ipos_median"`
	Volatility       float64 `json:"trend_volatility"`

	DataAvailable  bool           `json:"data_available"`
	UsedFallback   bool           `json:"used_historical_fallback"`
	FallbackSource FallbackSource `json:"fallback_source"`
	Confidence     float64        `json:"data_confidence"`

	HistoricalSampleSize int `json:"historical_sample_size"`
	PeerSampleSize       int `json:"similar_sample_size"`
}

// SentimentAnalysis captures the news-sentiment signal after historical
// benchmarking and the fallback decision.
type SentimentAnalysis struct {
	CurrentSentiment   float64 `json:"current_sentiment"`
	EffectiveSentiment float64 `json:"effective_sentiment"`
	TotalArticles      int     `json:"total_articles"`

	HistoricalPercentile float64 `json:"historical_percentile"`
	PeerPercentile       float64 `json:"similar_ipos_percentile"`
	EffectivePercentile  float64 `json:"effective_percentile"`

	Strength string `json:"sentiment_strength"`

	HistoricalMedian float64 `json:"historical_median"`
	PeerMedian       float64 `json:"similar_ipos_median"`

	DataAvailable  bool           `json:"data_available"`
	UsedFallback   bool           `json:"used_historical_fallback"`
	FallbackSource FallbackSource `json:"fallback_source"`
	Confidence     float64        `json:"data_confidence"`

	HistoricalSampleSize int `json:"historical_sample_size"`
	PeerSampleSize       int `json:"similar_sample_size"`
}

// PerformanceForecast projects post-IPO returns from the historical pools
// plus the matched peers' realized returns.
type PerformanceForecast struct {
	PredictedFirstDayReturn   float64 `json:"predicted_first_day_return"`
	PredictedFirstWeekReturn  float64 `json:"predicted_first_week_return"`
	PredictedFirstMonthReturn float64 `json:"predicted_first_month_return"`
	Volatility                float64 `json:"performance_volatility"`
	SampleSize                int     `json:"historical_sample_size"`
	RiskLevel                 string  `json:"risk_level"`
}

// ComponentScores are the five rounded sub-scores backing the final score.
type ComponentScores struct {
	Financial   float64 `json:"financial_score"`
	Trend       float64 `json:"trend_score"`
	Sentiment   float64 `json:"sentiment_score"`
	Performance float64 `json:"performance_score"`
	Similarity  float64 `json:"similarity_score"`
}

// HistoricalContext reports how much corpus evidence backed the score.
type HistoricalContext struct {
	SimilarIPOsCount   int `json:"similar_ipos_count"`
	BenchmarksAnalyzed int `json:"benchmarks_analyzed"`
}

// HypeScoreResult is the core's output. It is always structurally complete:
// when data is missing the fields hold documented neutral defaults rather
// than being absent.
type HypeScoreResult struct {
	HypeScore         float64            `json:"hype_score"`
	ComponentScores   ComponentScores    `json:"component_scores"`
	WeightAllocation  map[string]float64 `json:"weight_allocation,omitempty"`
	Analysis          string             `json:"analysis"`
	KeyFactors        []string           `json:"key_factors"`
	Recommendation    string             `json:"recommendation"`
	RiskLevel         string             `json:"risk_level"`
	HistoricalContext HistoricalContext  `json:"historical_context"`
	LastUpdated       string             `json:"last_updated"`
}

// FallbackResult is the fixed neutral result returned when the historical
// pipeline fails entirely. The core never surfaces that failure as an error.
func FallbackResult(note string) *HypeScoreResult {
	if note == "" {
		note = "Historical analysis unavailable. Using basic scoring methodology."
	}
	return &HypeScoreResult{
		HypeScore: 50.0,
		ComponentScores: ComponentScores{
			Financial:   50.0,
			Trend:       50.0,
			Sentiment:   50.0,
			Performance: 50.0,
			Similarity:  30.0,
		},
		Analysis:       note,
		KeyFactors:     []string{"Limited historical data available"},
		Recommendation: "Hold",
		RiskLevel:      "High",
		HistoricalContext: HistoricalContext{
			SimilarIPOsCount:   0,
			BenchmarksAnalyzed: 0,
		},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}
