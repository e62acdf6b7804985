package models

import (
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

func TestMarketCapCategoryBuckets(t *testing.T) {
	cases := []struct {
		cap  float64
		want string
	}{
		{0, ""},
		{-1, ""},
		{200_000_000, CapCategoryMicro},
		{299_999_999, CapCategoryMicro},
		{300_000_000, CapCategorySmall},
		{1_900_000_000, CapCategorySmall},
		{2_000_000_000, CapCategoryMid},
		{9_999_999_999, CapCategoryMid},
		{10_000_000_000, CapCategoryLarge},
		{199_000_000_000, CapCategoryLarge},
		{200_000_000_000, CapCategoryMega},
	}
	for _, tc := range cases {
		if got := MarketCapCategory(tc.cap); got != tc.want {
			t.Fatalf("MarketCapCategory(%v) = %q, want %q", tc.cap, got, tc.want)
		}
	}
}

func TestGrowthStageBuckets(t *testing.T) {
	cases := []struct {
		revenue float64
		want    string
	}{
		{0, ""},
		{5_000_000, GrowthStageEarly},
		{9_999_999, GrowthStageEarly},
		{10_000_000, GrowthStageGrowth},
		{99_999_999, GrowthStageGrowth},
		{100_000_000, GrowthStageMature},
		{5_000_000_000, GrowthStageMature},
	}
	for _, tc := range cases {
		if got := GrowthStage(tc.revenue); got != tc.want {
			t.Fatalf("GrowthStage(%v) = %q, want %q", tc.revenue, got, tc.want)
		}
	}
}

func TestRederiveIsDeterministic(t *testing.T) {
	record := HistoricalIPO{
		Name:           "Peer One",
		Ticker:         "PEER",
		IPODate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		IPOPrice:       21,
		Revenue:        f64(250_000_000),
		MarketCapAtIPO: f64(4_000_000_000),
	}

	record.Rederive()
	first := record

	record.Rederive()
	if record != first {
		t.Fatal("Rederive must be a no-op on an already-derived record")
	}
	if record.MarketCapCategory != CapCategoryMid {
		t.Fatalf("category = %q, want mid", record.MarketCapCategory)
	}
	if record.GrowthStage != GrowthStageMature {
		t.Fatalf("stage = %q, want mature", record.GrowthStage)
	}
}

func TestRederiveClearsStaleClassifications(t *testing.T) {
	record := HistoricalIPO{
		Ticker:            "PEER",
		MarketCapCategory: CapCategoryMega, // stale, no cap backing it
		GrowthStage:       GrowthStageMature,
	}
	record.Rederive()
	if record.MarketCapCategory != "" || record.GrowthStage != "" {
		t.Fatalf("stale classifications should clear, got %q/%q", record.MarketCapCategory, record.GrowthStage)
	}
}

func TestDataCompleteness(t *testing.T) {
	// All four required fields, no optional fields: 1.0 required score only
	bare := HistoricalIPO{
		Name:     "Peer One",
		Ticker:   "PEER",
		IPODate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		IPOPrice: 21,
	}
	bare.Rederive()
	if bare.DataCompleteness != 1.0 {
		t.Fatalf("required-only completeness = %v, want 1.0", bare.DataCompleteness)
	}

	// Missing everything
	empty := HistoricalIPO{}
	empty.Rederive()
	if empty.DataCompleteness != 0 {
		t.Fatalf("empty completeness = %v, want 0", empty.DataCompleteness)
	}

	// Completeness is capped at 1.0 even with every optional field set
	full := bare
	full.Revenue = f64(1)
	full.NetIncome = f64(1)
	full.RevenueGrowthYoY = f64(1)
	full.GrossMargin = f64(1)
	full.OperatingMargin = f64(1)
	full.FreeCashFlow = f64(1)
	full.MarketCapAtIPO = f64(1)
	full.FirstDayReturn = f64(1)
	full.FirstWeekReturn = f64(1)
	full.FirstMonthReturn = f64(1)
	full.Rederive()
	if full.DataCompleteness != 1.0 {
		t.Fatalf("full completeness = %v, want capped 1.0", full.DataCompleteness)
	}
}
