/**
 * @description
 * Score Composer.
 * Combines the five sub-scores via confidence-weighted averaging, applies the
 * calibration transform, and assembles the full HypeScoreResult with its
 * explanation payload.
 *
 * The calibration boost (x1.1 + 12.5, floored at 35) is a product decision:
 * published scores are meant to skew toward actionable signal rather than
 * dead center. Do not change it without product sign-off.
 *
 * @dependencies
 * - none beyond the standard library
 */

package analysis

import (
	"fmt"
	"strings"
	"time"
)

// Base component weights; they sum to 1.0 before confidence scaling.
var baseWeights = map[string]float64{
	"financial":   0.28,
	"trend":       0.18,
	"sentiment":   0.18,
	"performance": 0.20,
	"similarity":  0.16,
}

const (
	calibrationMultiplier = 1.1
	calibrationBoost      = 12.5
	scoreFloor            = 35.0
	scoreCeiling          = 100.0

	// Weight scaling never drops a component below this multiplier, so a
	// single dead signal cannot vanish from the composition entirely.
	minComponentConfidence = 0.25

	maxKeyFactors = 5
)

// compose builds the final result from all analysis stages.
func compose(
	peers []SimilarityMatch,
	benchmarks []Benchmark,
	trend TrendAnalysis,
	sentiment SentimentAnalysis,
	forecast PerformanceForecast,
) *HypeScoreResult {
	financialScore := scoreFinancial(benchmarks)
	trendScore := scoreTrend(trend)
	sentimentScore := scoreSentiment(sentiment)
	performanceScore := scorePerformance(forecast)
	similarityScore := scoreSimilarity(peers)

	confidences := componentConfidences(benchmarks, trend, sentiment, forecast, len(peers))
	weights := normalizeWeights(confidences)

	baseScore := financialScore*weights["financial"] +
		trendScore*weights["trend"] +
		sentimentScore*weights["sentiment"] +
		performanceScore*weights["performance"] +
		similarityScore*weights["similarity"]

	finalScore := clamp(baseScore*calibrationMultiplier+calibrationBoost, scoreFloor, scoreCeiling)

	allocation := make(map[string]float64, len(weights))
	for name, w := range weights {
		allocation[name] = round3(w)
	}

	return &HypeScoreResult{
		HypeScore: round1(finalScore),
		ComponentScores: ComponentScores{
			Financial:   round1(financialScore),
			Trend:       round1(trendScore),
			Sentiment:   round1(sentimentScore),
			Performance: round1(performanceScore),
			Similarity:  round1(similarityScore),
		},
		WeightAllocation: allocation,
		Analysis:         describeAnalysis(benchmarks, trend, sentiment, forecast, peers),
		KeyFactors:       extractKeyFactors(benchmarks, trend, sentiment),
		Recommendation:   recommendation(finalScore),
		RiskLevel:        riskLevel(forecast.Volatility),
		HistoricalContext: HistoricalContext{
			SimilarIPOsCount:   len(peers),
			BenchmarksAnalyzed: len(benchmarks),
		},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}

// componentConfidences derives the per-component confidence multipliers.
func componentConfidences(
	benchmarks []Benchmark,
	trend TrendAnalysis,
	sentiment SentimentAnalysis,
	forecast PerformanceForecast,
	peerCount int,
) map[string]float64 {
	financial := 0.7
	if len(benchmarks) > 0 {
		financial = 1.0
	}
	return map[string]float64{
		"financial":   financial,
		"trend":       clamp(trend.Confidence, 0.35, 1.0),
		"sentiment":   clamp(sentiment.Confidence, 0.35, 1.0),
		"performance": clamp(0.6+0.08*float64(forecast.SampleSize), 0, 1.0),
		"similarity":  clamp(0.55+0.05*float64(peerCount), 0, 1.0),
	}
}

// normalizeWeights scales the base weights by component confidence and
// renormalizes to sum 1.0. A zero scaled sum falls back to the base weights.
func normalizeWeights(confidences map[string]float64) map[string]float64 {
	scaled := make(map[string]float64, len(baseWeights))
	total := 0.0
	for name, base := range baseWeights {
		confidence, ok := confidences[name]
		if !ok {
			confidence = 0.5
		}
		if confidence < minComponentConfidence {
			confidence = minComponentConfidence
		}
		scaled[name] = base * confidence
		total += scaled[name]
	}

	if total == 0 {
		result := make(map[string]float64, len(baseWeights))
		for name, base := range baseWeights {
			result[name] = base
		}
		return result
	}

	for name := range scaled {
		scaled[name] /= total
	}
	return scaled
}

// recommendation maps a final score to an action label.
func recommendation(score float64) string {
	switch {
	case score >= 85:
		return "Strong Buy"
	case score >= 70:
		return "Buy"
	case score >= 50:
		return "Hold"
	default:
		return "Sell"
	}
}

// riskLevel maps first-day return volatility to the published risk label.
func riskLevel(volatility float64) string {
	switch {
	case volatility > 0.4:
		return "High"
	case volatility > 0.2:
		return "Medium"
	default:
		return "Low"
	}
}

// describeAnalysis builds the free-text explanation, including notes about
// any fallback substitution so degraded signal quality stays inspectable.
func describeAnalysis(
	benchmarks []Benchmark,
	trend TrendAnalysis,
	sentiment SentimentAnalysis,
	forecast PerformanceForecast,
	peers []SimilarityMatch,
) string {
	var parts []string

	if len(benchmarks) > 0 {
		top := benchmarks[0]
		for _, b := range benchmarks[1:] {
			if b.PeerPercentile > top.PeerPercentile {
				top = b
			}
		}
		parts = append(parts, fmt.Sprintf(
			"Financial Analysis: %s ranks in the %.1fth percentile compared to similar historical IPOs, indicating %s financial positioning.",
			top.MetricName, top.PeerPercentile, gradeWord(top.PeerPercentile, "strong", "moderate", "weak")))
	}

	parts = append(parts, fmt.Sprintf(
		"Search Interest: Current trend strength is %s with %.1fth percentile ranking among similar historical IPOs.",
		strings.ToLower(trend.Strength), trend.PeerPercentile))
	if trend.UsedFallback {
		parts = append(parts, "Live search activity was sparse; leveraged historical peer baselines to avoid penalising the score.")
	}

	parts = append(parts, fmt.Sprintf(
		"News Sentiment: %s sentiment with %.1fth percentile ranking compared to similar IPOs.",
		sentiment.Strength, sentiment.PeerPercentile))
	if sentiment.UsedFallback {
		parts = append(parts, "Current media coverage is thin; sentiment pulled from historical peers to maintain balance.")
	}

	parts = append(parts, fmt.Sprintf(
		"Performance Prediction: Based on %d similar historical IPOs, predicted first-day return of %.1f%%.",
		len(peers), forecast.PredictedFirstDayReturn*100))

	if len(peers) > 0 {
		scores := make([]float64, 0, len(peers))
		for _, p := range peers {
			scores = append(scores, p.SimilarityScore)
		}
		parts = append(parts, fmt.Sprintf(
			"Historical Context: Found %d similar IPOs with average similarity score of %.2f, providing strong historical precedent for analysis.",
			len(peers), mean(scores)))
	}

	return strings.Join(parts, " ")
}

// gradeWord picks a qualitative word for a percentile.
func gradeWord(percentile float64, high, mid, low string) string {
	switch {
	case percentile > 75:
		return high
	case percentile > 50:
		return mid
	default:
		return low
	}
}

// extractKeyFactors lists the strongest drivers behind the score, capped at
// maxKeyFactors entries.
func extractKeyFactors(benchmarks []Benchmark, trend TrendAnalysis, sentiment SentimentAnalysis) []string {
	var factors []string

	for _, b := range benchmarks {
		if b.PeerPercentile > 80 {
			factors = append(factors, fmt.Sprintf("Strong %s vs similar IPOs", b.MetricName))
		} else if b.PeerPercentile < 30 {
			factors = append(factors, fmt.Sprintf("Weak %s vs similar IPOs", b.MetricName))
		}
	}

	if trend.Strength == "Exceptional" || trend.Strength == "Strong" {
		factors = append(factors, fmt.Sprintf("%s search interest", trend.Strength))
	}

	if strings.Contains(sentiment.Strength, "Positive") {
		factors = append(factors, fmt.Sprintf("%s media sentiment", sentiment.Strength))
	}

	if len(factors) > maxKeyFactors {
		factors = factors[:maxKeyFactors]
	}
	return factors
}
