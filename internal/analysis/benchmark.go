/**
 * @description
 * Benchmark Calculator.
 * For each benchmarked metric, computes median/mean/std/percentile-rank of
 * the current company's value against the full historical pool and against
 * the matched peer set. Peer values come from the SimilarityMatch copies,
 * never from a second corpus query.
 *
 * @dependencies
 * - backend/internal/signals
 */

package analysis

import (
	"github.com/hypetrack/backend/internal/signals"
)

// Metric names shared with the corpus reader's column whitelist.
const (
	MetricRevenueGrowth = "Revenue Growth YoY"
	MetricGrossMargin   = "Gross Margin"
	MetricMarketCap     = "Market Cap"
)

// buildBenchmark assembles the four paired statistics for one metric.
func buildBenchmark(name string, current float64, historical, peers []float64) Benchmark {
	return Benchmark{
		MetricName:   name,
		CurrentValue: current,

		HistoricalMedian: median(historical),
		HistoricalMean:   mean(historical),
		HistoricalStd:    stdDev(historical),
		PercentileRank:   PercentileRank(current, historical),

		PeerMedian:     median(peers),
		PeerMean:       mean(peers),
		PeerStd:        stdDev(peers),
		PeerPercentile: PercentileRank(current, peers),
	}
}

// buildBenchmarks produces the three standard benchmarks from pre-fetched
// historical pools. A nil pool map (corpus unreachable) yields no benchmarks;
// callers treat that as insufficient data, not an error.
func buildBenchmarks(sig signals.CompanySignals, pools map[string][]float64, peers []SimilarityMatch) []Benchmark {
	if pools == nil {
		return nil
	}

	peerGrowth := peerValues(peers, func(m SimilarityMatch) *float64 { return m.RevenueGrowth })
	peerMargin := peerValues(peers, func(m SimilarityMatch) *float64 { return m.GrossMargin })
	peerCaps := peerValues(peers, func(m SimilarityMatch) *float64 { return m.MarketCap })

	return []Benchmark{
		buildBenchmark(MetricRevenueGrowth, sig.RevenueGrowthYoY, pools[MetricRevenueGrowth], peerGrowth),
		buildBenchmark(MetricGrossMargin, sig.GrossMargin, pools[MetricGrossMargin], peerMargin),
		buildBenchmark(MetricMarketCap, sig.ImpliedMarketCap, pools[MetricMarketCap], peerCaps),
	}
}

// peerValues extracts the non-null values of one field from the peer copies.
func peerValues(peers []SimilarityMatch, field func(SimilarityMatch) *float64) []float64 {
	var values []float64
	for _, p := range peers {
		if v := field(p); v != nil {
			values = append(values, *v)
		}
	}
	return values
}
