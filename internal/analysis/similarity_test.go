package analysis

import (
	"fmt"
	"testing"

	"github.com/hypetrack/backend/internal/models"
	"github.com/hypetrack/backend/internal/signals"
)

func f64(v float64) *float64 { return &v }

func techSignals() signals.CompanySignals {
	return signals.CompanySignals{
		CompanyName:      "Streamly",
		Ticker:           "STRM",
		Sector:           "Technology",
		Industry:         "Software",
		ImpliedMarketCap: 5_000_000_000, // mid cap
		RevenueGrowthYoY: 0.50,
	}
}

func TestMatchSimilarThresholdAndOrder(t *testing.T) {
	candidates := []models.HistoricalIPO{
		{
			// cap + sector + industry + growth: full match
			Ticker: "AAAA", Name: "Full Match",
			MarketCapCategory: models.CapCategoryMid,
			Sector:            "Technology", Industry: "Software",
			RevenueGrowthYoY: f64(0.52),
		},
		{
			// sector only: 0.20, below threshold
			Ticker: "BBBB", Name: "Sector Only",
			Sector: "Technology", Industry: "Hardware",
		},
		{
			// cap only: exactly at the 0.30 threshold
			Ticker: "CCCC", Name: "Cap Only",
			MarketCapCategory: models.CapCategoryMid,
			Sector:            "Energy", Industry: "Oil",
		},
	}

	matches := MatchSimilar(techSignals(), candidates)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches (sector-only candidate filtered out), got %d", len(matches))
	}
	if matches[0].Ticker != "AAAA" {
		t.Fatalf("best match should come first, got %s", matches[0].Ticker)
	}
	for _, m := range matches {
		if m.SimilarityScore < 0.30 {
			t.Fatalf("match %s scored %v, below the cutoff", m.Ticker, m.SimilarityScore)
		}
	}
	if matches[0].SimilarityScore != 1.0 {
		t.Fatalf("full match should score 1.0, got %v", matches[0].SimilarityScore)
	}
}

func TestMatchSimilarCapsAtTen(t *testing.T) {
	var candidates []models.HistoricalIPO
	for i := 0; i < 25; i++ {
		candidates = append(candidates, models.HistoricalIPO{
			Ticker:            fmt.Sprintf("T%02d", i),
			MarketCapCategory: models.CapCategoryMid,
			Sector:            "Technology",
		})
	}

	matches := MatchSimilar(techSignals(), candidates)
	if len(matches) != 10 {
		t.Fatalf("expected at most 10 matches, got %d", len(matches))
	}
}

func TestMatchSimilarGrowthRequiresSignal(t *testing.T) {
	sig := techSignals()
	sig.RevenueGrowthYoY = 0 // unknown growth

	candidates := []models.HistoricalIPO{
		{
			Ticker:           "DDDD",
			Sector:           "Technology",
			Industry:         "Software",
			RevenueGrowthYoY: f64(0.0),
		},
	}

	matches := MatchSimilar(sig, candidates)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	// sector 0.20 + industry 0.20, no growth credit without a growth signal
	if matches[0].SimilarityScore != 0.40 {
		t.Fatalf("expected 0.40, got %v", matches[0].SimilarityScore)
	}
	for _, factor := range matches[0].MatchingFactors {
		if factor == "revenue_growth" {
			t.Fatal("growth factor granted with no growth signal")
		}
	}
}
