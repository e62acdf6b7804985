/**
 * @description
 * Similarity Matcher.
 * Scores candidate historical IPOs against the current company using a fixed
 * weighted-factor rule and keeps the top matches as the peer set.
 *
 * Coarse categorical matching (cap category, sector, industry) dominates the
 * weights because fine-grained financial similarity is unreliable pre-IPO;
 * the minimum threshold keeps unrelated companies out of peer statistics.
 *
 * @dependencies
 * - backend/internal/models
 * - backend/internal/signals
 */

package analysis

import (
	"math"
	"sort"

	"github.com/hypetrack/backend/internal/models"
	"github.com/hypetrack/backend/internal/signals"
)

const (
	weightCapCategory   = 0.30
	weightSector        = 0.20
	weightIndustry      = 0.20
	weightRevenueGrowth = 0.30

	// Candidates below this cumulative factor score are discarded
	minSimilarityScore = 0.30
	// At most this many peers are kept, best first
	maxSimilarMatches = 10

	// Relative revenue-growth difference below which growth counts as matching
	maxGrowthRelativeDiff = 0.2
)

// MatchSimilar scores each candidate against the current company and returns
// the top matches (at most maxSimilarMatches, each scoring at least
// minSimilarityScore), ordered by descending similarity.
func MatchSimilar(sig signals.CompanySignals, candidates []models.HistoricalIPO) []SimilarityMatch {
	capCategory := models.MarketCapCategory(sig.ImpliedMarketCap)

	var matches []SimilarityMatch
	for _, candidate := range candidates {
		score := 0.0
		var factors []string

		if capCategory != "" && candidate.MarketCapCategory == capCategory {
			score += weightCapCategory
			factors = append(factors, "market_cap")
		}
		if sig.Sector != "" && candidate.Sector == sig.Sector {
			score += weightSector
			factors = append(factors, "sector")
		}
		if sig.Industry != "" && candidate.Industry == sig.Industry {
			score += weightIndustry
			factors = append(factors, "industry")
		}
		if candidate.RevenueGrowthYoY != nil && sig.RevenueGrowthYoY != 0 {
			diff := math.Abs(*candidate.RevenueGrowthYoY-sig.RevenueGrowthYoY) /
				math.Max(math.Abs(sig.RevenueGrowthYoY), 1)
			if diff < maxGrowthRelativeDiff {
				score += weightRevenueGrowth
				factors = append(factors, "revenue_growth")
			}
		}

		if score < minSimilarityScore {
			continue
		}

		matches = append(matches, SimilarityMatch{
			Ticker:           candidate.Ticker,
			Name:             candidate.Name,
			SimilarityScore:  score,
			MatchingFactors:  factors,
			RevenueGrowth:    candidate.RevenueGrowthYoY,
			GrossMargin:      candidate.GrossMargin,
			MarketCap:        candidate.MarketCapAtIPO,
			FirstDayReturn:   candidate.FirstDayReturn,
			FirstWeekReturn:  candidate.FirstWeekReturn,
			FirstMonthReturn: candidate.FirstMonthReturn,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})
	if len(matches) > maxSimilarMatches {
		matches = matches[:maxSimilarMatches]
	}
	return matches
}

// peerTickers collects the tickers of the matched peers for time-series lookups.
func peerTickers(matches []SimilarityMatch) []string {
	var tickers []string
	for _, m := range matches {
		if m.Ticker != "" {
			tickers = append(tickers, m.Ticker)
		}
	}
	return tickers
}
