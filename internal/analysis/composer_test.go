package analysis

import (
	"math"
	"testing"
)

func TestNormalizeWeightsSumToOne(t *testing.T) {
	cases := []map[string]float64{
		{"financial": 1.0, "trend": 1.0, "sentiment": 1.0, "performance": 1.0, "similarity": 1.0},
		{"financial": 0.7, "trend": 0.35, "sentiment": 0.35, "performance": 0.6, "similarity": 0.55},
		{"financial": 0.1, "trend": 0.1, "sentiment": 0.1, "performance": 0.1, "similarity": 0.1},
		{}, // missing components default
	}

	for i, confidences := range cases {
		weights := normalizeWeights(confidences)
		if len(weights) != len(baseWeights) {
			t.Fatalf("case %d: expected %d weights, got %d", i, len(baseWeights), len(weights))
		}
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("case %d: weights sum to %v, want 1.0", i, sum)
		}
	}
}

func TestNormalizeWeightsFloorsConfidence(t *testing.T) {
	// One component near zero must still receive weight via the floor
	confidences := map[string]float64{
		"financial": 1.0, "trend": 0.0, "sentiment": 1.0, "performance": 1.0, "similarity": 1.0,
	}
	weights := normalizeWeights(confidences)
	if weights["trend"] <= 0 {
		t.Fatalf("trend weight should be floored above zero, got %v", weights["trend"])
	}
}

func TestComposeScoreBounds(t *testing.T) {
	// Worst case: everything empty and neutral
	low := compose(nil, nil, TrendAnalysis{}, SentimentAnalysis{}, PerformanceForecast{})
	if low.HypeScore < 35 || low.HypeScore > 100 {
		t.Fatalf("score %v outside [35, 100]", low.HypeScore)
	}

	// Best case: strong everything
	peers := make([]SimilarityMatch, 10)
	for i := range peers {
		peers[i] = SimilarityMatch{Ticker: "PEER", SimilarityScore: 1.0}
	}
	benchmarks := []Benchmark{
		{MetricName: MetricRevenueGrowth, PercentileRank: 99, PeerPercentile: 99},
		{MetricName: MetricGrossMargin, PercentileRank: 99, PeerPercentile: 99},
	}
	trend := TrendAnalysis{EffectivePercentile: 99, HistoricalPercentile: 99, Strength: "Exceptional", Confidence: 1.0, DataAvailable: true}
	sentiment := SentimentAnalysis{EffectivePercentile: 99, Strength: "Very Positive", Confidence: 1.0, DataAvailable: true}
	forecast := PerformanceForecast{PredictedFirstDayReturn: 0.5, Volatility: 0.05, SampleSize: 40, RiskLevel: "Low"}

	high := compose(peers, benchmarks, trend, sentiment, forecast)
	if high.HypeScore < 35 || high.HypeScore > 100 {
		t.Fatalf("score %v outside [35, 100]", high.HypeScore)
	}
	if high.HypeScore <= low.HypeScore {
		t.Fatalf("strong inputs (%v) should beat neutral inputs (%v)", high.HypeScore, low.HypeScore)
	}
	if high.Recommendation != "Strong Buy" && high.Recommendation != "Buy" {
		t.Fatalf("strong inputs produced recommendation %q", high.Recommendation)
	}
}

func TestComposeWeightAllocationSums(t *testing.T) {
	result := compose(nil, nil, TrendAnalysis{Confidence: 0.5}, SentimentAnalysis{Confidence: 0.5}, PerformanceForecast{})
	sum := 0.0
	for _, w := range result.WeightAllocation {
		sum += w
	}
	// Allocation is rounded to 3 decimals per component
	if math.Abs(sum-1.0) > 0.01 {
		t.Fatalf("published weight allocation sums to %v", sum)
	}
}

func TestRecommendationThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{85, "Strong Buy"},
		{84.9, "Buy"},
		{70, "Buy"},
		{69.9, "Hold"},
		{50, "Hold"},
		{49.9, "Sell"},
	}
	for _, tc := range cases {
		if got := recommendation(tc.score); got != tc.want {
			t.Fatalf("recommendation(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestRiskLevelThresholds(t *testing.T) {
	if got := riskLevel(0.41); got != "High" {
		t.Fatalf("riskLevel(0.41) = %q", got)
	}
	if got := riskLevel(0.3); got != "Medium" {
		t.Fatalf("riskLevel(0.3) = %q", got)
	}
	if got := riskLevel(0.2); got != "Low" {
		t.Fatalf("riskLevel(0.2) = %q", got)
	}
}
