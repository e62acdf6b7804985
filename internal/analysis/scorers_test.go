package analysis

import (
	"math"
	"testing"
)

func TestScoreTrendExceptionalFullConfidence(t *testing.T) {
	trend := TrendAnalysis{
		EffectivePercentile: 95,
		Strength:            "Exceptional",
		Confidence:          1.0,
	}
	// min(100, 95*1.2) * (0.6 + 0.4*1.0), clamped to 100
	if got := scoreTrend(trend); got != 100.0 {
		t.Fatalf("exceptional trend score = %v, want 100", got)
	}
}

func TestScoreTrendFloor(t *testing.T) {
	trend := TrendAnalysis{
		EffectivePercentile: 0,
		Strength:            "Weak",
		Confidence:          0.35,
	}
	if got := scoreTrend(trend); got != 35.0 {
		t.Fatalf("bottomed-out trend should hit the 35 floor, got %v", got)
	}
}

func TestScoreSentimentFloor(t *testing.T) {
	sentiment := SentimentAnalysis{
		EffectivePercentile: 0,
		Strength:            "Negative",
		Confidence:          0.35,
	}
	if got := scoreSentiment(sentiment); got != 30.0 {
		t.Fatalf("bottomed-out sentiment should hit the 30 floor, got %v", got)
	}
}

func TestScorePerformanceShaping(t *testing.T) {
	// Zero predicted return, zero volatility: 50 * 1.1 = 55
	calm := PerformanceForecast{PredictedFirstDayReturn: 0, Volatility: 0}
	if got := scorePerformance(calm); math.Abs(got-55) > 1e-9 {
		t.Fatalf("calm zero-return score = %v, want 55", got)
	}

	// Max volatility discounts to the 0.3 multiplier
	wild := PerformanceForecast{PredictedFirstDayReturn: 0, Volatility: 0.9}
	if got := scorePerformance(wild); math.Abs(got-15) > 1e-9 {
		t.Fatalf("max-volatility score = %v, want 15", got)
	}

	// Large positive prediction caps the return score at 100
	hot := PerformanceForecast{PredictedFirstDayReturn: 2.0, Volatility: 0}
	if got := scorePerformance(hot); got != 100 {
		t.Fatalf("hot forecast score = %v, want capped 100", got)
	}
}

func TestScoreSimilarityBonusCaps(t *testing.T) {
	if got := scoreSimilarity(nil); got != 30.0 {
		t.Fatalf("no peers should score 30, got %v", got)
	}

	peers := make([]SimilarityMatch, 10)
	for i := range peers {
		peers[i] = SimilarityMatch{SimilarityScore: 1.0}
	}
	// mean 1.0 * 100 + bonus would exceed 100, must cap
	if got := scoreSimilarity(peers); got != 100 {
		t.Fatalf("perfect peers should cap at 100, got %v", got)
	}

	two := []SimilarityMatch{{SimilarityScore: 0.5}, {SimilarityScore: 0.5}}
	// 0.5*100 + 2*5 = 60
	if got := scoreSimilarity(two); math.Abs(got-60) > 1e-9 {
		t.Fatalf("two half-matches = %v, want 60", got)
	}
}

func TestScoreFinancialWeighting(t *testing.T) {
	if got := scoreFinancial(nil); got != 50.0 {
		t.Fatalf("no benchmarks should score a neutral 50, got %v", got)
	}

	benchmarks := []Benchmark{{PeerPercentile: 80, PercentileRank: 40}}
	// 80*0.7 + 40*0.3 = 68
	if got := scoreFinancial(benchmarks); math.Abs(got-68) > 1e-9 {
		t.Fatalf("weighted financial score = %v, want 68", got)
	}
}
