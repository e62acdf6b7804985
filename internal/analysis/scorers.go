/**
 * @description
 * The five component scorers. Each maps benchmark/peer statistics to a 0-100
 * sub-score with a documented shaping function, and each degrades to a
 * neutral value when its inputs are empty; a scorer never fails.
 *
 * @dependencies
 * - none beyond the package's stats helpers
 */

package analysis

// scoreFinancial averages the confidence-weighted percentiles across the
// available benchmarks. Peer percentiles weigh 70% against 30% for the full
// historical pool, because the peer comparison is the more meaningful one.
// No benchmarks at all scores a neutral 50.
func scoreFinancial(benchmarks []Benchmark) float64 {
	if len(benchmarks) == 0 {
		return 50.0
	}
	scores := make([]float64, 0, len(benchmarks))
	for _, b := range benchmarks {
		scores = append(scores, b.PeerPercentile*0.7+b.PercentileRank*0.3)
	}
	return mean(scores)
}

// scoreTrend shapes the effective trend percentile by the strength bucket's
// multiplier, then discounts by data confidence. Floored at 35 so a missing
// search signal never zeroes the component.
func scoreTrend(trend TrendAnalysis) float64 {
	multiplier := 1.0
	switch trend.Strength {
	case "Exceptional":
		multiplier = 1.2
	case "Strong":
		multiplier = 1.1
	case "Moderate":
		multiplier = 1.0
	case "Weak":
		multiplier = 0.8
	}

	base := clamp(trend.EffectivePercentile*multiplier, 0, 100)
	confidence := clamp(trend.Confidence, 0, 1)
	score := base * (0.6 + 0.4*confidence)
	return clamp(score, 35.0, 100)
}

// scoreSentiment mirrors scoreTrend with sentiment-strength multipliers and
// a lower floor of 30.
func scoreSentiment(sentiment SentimentAnalysis) float64 {
	multiplier := 1.0
	switch sentiment.Strength {
	case "Extremely Positive":
		multiplier = 1.2
	case "Very Positive":
		multiplier = 1.1
	case "Moderately Positive":
		multiplier = 1.0
	case "Neutral/Negative":
		multiplier = 0.7
	case "Negative":
		multiplier = 0.6
	}

	base := clamp(sentiment.EffectivePercentile*multiplier, 0, 100)
	confidence := clamp(sentiment.Confidence, 0, 1)
	score := base * (0.6 + 0.4*confidence)
	return clamp(score, 30.0, 100)
}

// scorePerformance converts the predicted first-day return to a 0-100 score
// (0% return = 50) then scales by a volatility multiplier: volatility
// clamped to [0,0.5] maps linearly to [1.1 at calm, 0.7 at max].
func scorePerformance(forecast PerformanceForecast) float64 {
	returnScore := clamp(50+forecast.PredictedFirstDayReturn*100, 0, 100)

	volatility := clamp(forecast.Volatility, 0, 0.5)
	multiplier := 1.1 - volatility*0.8/0.5

	score := returnScore * multiplier
	if score > 100 {
		score = 100
	}
	return score
}

// scoreSimilarity rewards both the quality and the quantity of peers:
// mean similarity scaled to 0-100 plus up to 20 bonus points at 5 per peer.
// No peers scores a low-confidence 30.
func scoreSimilarity(peers []SimilarityMatch) float64 {
	if len(peers) == 0 {
		return 30.0
	}
	scores := make([]float64, 0, len(peers))
	for _, p := range peers {
		scores = append(scores, p.SimilarityScore)
	}
	bonus := float64(len(peers)) * 5
	if bonus > 20 {
		bonus = 20
	}
	score := mean(scores)*100 + bonus
	if score > 100 {
		score = 100
	}
	return score
}
