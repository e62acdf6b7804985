/**
 * @description
 * Fallback policy and historical benchmarking for the live trend and
 * sentiment signals.
 *
 * Each signal runs through an explicit three-state machine
 * (live, peer fallback, historical fallback) and the chosen state is always
 * recorded in the analysis output. The policy exists because search and news
 * signal is frequently absent pre-IPO: a bare zero must not be scored as
 * "no interest", it must be replaced by what comparable IPOs looked like.
 *
 * @dependencies
 * - backend/internal/signals
 */

package analysis

import (
	"github.com/hypetrack/backend/internal/signals"
)

// Fallback confidences per signal and state. Live data is always 1.0.
const (
	trendPeerConfidence           = 0.75
	trendHistoricalConfidence     = 0.60
	sentimentPeerConfidence       = 0.70
	sentimentHistoricalConfidence = 0.55
)

// Neutral seeds used when a pool is completely empty, so percentile math
// always has a comparison point.
const (
	neutralTrendSeed       = 50.0
	neutralSentimentSeed   = 0.0
	trendMedianDefault     = 55.0
	sentimentMedianDefault = 0.05
)

// analyzeTrend benchmarks the search-interest signal against the historical
// and peer pools, substituting pool medians when live data is unusable.
func analyzeTrend(sig signals.CompanySignals, historicalScores, peerScores []float64) TrendAnalysis {
	liveAvailable := sig.TrendDataAvailable &&
		(sig.TrendAverageInterest+sig.TrendRecentInterest > 0 || sig.TrendScore > 0)

	peerPoolMissing := len(peerScores) == 0
	if len(historicalScores) == 0 {
		historicalScores = []float64{neutralTrendSeed}
	}
	if peerPoolMissing {
		peerScores = historicalScores
	}

	usedFallback := false
	source := FallbackLive
	effective := sig.TrendScore

	switch {
	case !liveAvailable || sig.TrendError != "":
		usedFallback = true
		if peerPoolMissing {
			effective = safeMedian(historicalScores, trendMedianDefault)
			source = FallbackHistorical
		} else {
			effective = safeMedian(peerScores, trendMedianDefault)
			source = FallbackPeers
		}
	case effective <= 0 && sig.TrendRecentInterest <= 0 && sig.TrendAverageInterest <= 0:
		// Flat live data is treated as missing, not as zero interest
		usedFallback = true
		effective = safeMedian(peerScores, trendMedianDefault)
		source = FallbackPeers
	}

	historicalPercentile := PercentileRank(effective, historicalScores)
	peerPercentile := PercentileRank(effective, peerScores)

	strength, impact := trendStrength(historicalPercentile)

	confidence := 1.0
	if usedFallback {
		if source == FallbackPeers {
			confidence = trendPeerConfidence
		} else {
			confidence = trendHistoricalConfidence
		}
	}

	return TrendAnalysis{
		CurrentScore:         sig.TrendScore,
		EffectiveScore:       effective,
		HistoricalPercentile: historicalPercentile,
		PeerPercentile:       peerPercentile,
		EffectivePercentile:  peerPercentile,
		Strength:             strength,
		Impact:               impact,
		HistoricalMedian:     safeMedian(historicalScores, neutralTrendSeed),
		PeerMedian:           safeMedian(peerScores, neutralTrendSeed),
		Volatility:           stdDev(historicalScores),
		DataAvailable:        liveAvailable && !usedFallback,
		UsedFallback:         usedFallback,
		FallbackSource:       source,
		Confidence:           confidence,
		HistoricalSampleSize: len(historicalScores),
		PeerSampleSize:       len(peerScores),
	}
}

// trendStrength buckets a percentile into a strength label and market impact.
// The trend pipeline feeds it the historical-pool percentile, not the
// effective (peer) percentile that drives the sub-score.
func trendStrength(percentile float64) (strength, impact string) {
	switch {
	case percentile >= 90:
		return "Exceptional", "Very High"
	case percentile >= 75:
		return "Strong", "High"
	case percentile >= 50:
		return "Moderate", "Medium"
	default:
		return "Weak", "Low"
	}
}

// analyzeSentiment benchmarks the news-sentiment signal against the
// historical and peer pools, substituting pool medians when live data is
// unusable or no articles were found.
func analyzeSentiment(sig signals.CompanySignals, historicalScores, peerScores []float64) SentimentAnalysis {
	liveAvailable := sig.NewsDataAvailable && sig.NewsTotalArticles > 0

	peerPoolMissing := len(peerScores) == 0
	if len(historicalScores) == 0 {
		historicalScores = []float64{neutralSentimentSeed}
	}
	if peerPoolMissing {
		peerScores = historicalScores
	}

	usedFallback := false
	source := FallbackLive
	effective := sig.SentimentScore

	switch {
	case !liveAvailable || sig.NewsError != "":
		usedFallback = true
		if peerPoolMissing {
			effective = safeMedian(historicalScores, sentimentMedianDefault)
			source = FallbackHistorical
		} else {
			effective = safeMedian(peerScores, sentimentMedianDefault)
			source = FallbackPeers
		}
	case sig.NewsTotalArticles == 0:
		usedFallback = true
		effective = safeMedian(peerScores, sentimentMedianDefault)
		source = FallbackPeers
	}

	historicalPercentile := PercentileRank(effective, historicalScores)
	peerPercentile := PercentileRank(effective, peerScores)

	confidence := 1.0
	if usedFallback {
		if source == FallbackPeers {
			confidence = sentimentPeerConfidence
		} else {
			confidence = sentimentHistoricalConfidence
		}
	}

	return SentimentAnalysis{
		CurrentSentiment:     sig.SentimentScore,
		EffectiveSentiment:   effective,
		TotalArticles:        sig.NewsTotalArticles,
		HistoricalPercentile: historicalPercentile,
		PeerPercentile:       peerPercentile,
		EffectivePercentile:  peerPercentile,
		Strength:             sentimentStrength(effective),
		HistoricalMedian:     safeMedian(historicalScores, neutralSentimentSeed),
		PeerMedian:           safeMedian(peerScores, neutralSentimentSeed),
		DataAvailable:        liveAvailable && !usedFallback,
		UsedFallback:         usedFallback,
		FallbackSource:       source,
		Confidence:           confidence,
		HistoricalSampleSize: len(historicalScores),
		PeerSampleSize:       len(peerScores),
	}
}

// sentimentStrength buckets an effective sentiment value into a label.
func sentimentStrength(sentiment float64) string {
	switch {
	case sentiment > 0.2:
		return "Extremely Positive"
	case sentiment > 0.1:
		return "Very Positive"
	case sentiment > 0.02:
		return "Moderately Positive"
	case sentiment < -0.05:
		return "Negative"
	default:
		return "Neutral/Negative"
	}
}
