package analysis

import (
	"math"
	"testing"
)

func TestPercentileRankEmptyPool(t *testing.T) {
	if got := PercentileRank(42, nil); got != 50 {
		t.Fatalf("empty pool should rank at the neutral 50th percentile, got %v", got)
	}
	if got := PercentileRank(42, []float64{}); got != 50 {
		t.Fatalf("empty pool should rank at the neutral 50th percentile, got %v", got)
	}
}

func TestPercentileRankStrictLessThan(t *testing.T) {
	pool := []float64{10, 20, 20, 30}

	// Equal values do not count as "below"
	if got := PercentileRank(20, pool); got != 25 {
		t.Fatalf("expected 25 (only 10 is strictly below 20), got %v", got)
	}
	if got := PercentileRank(5, pool); got != 0 {
		t.Fatalf("value below the whole pool should rank 0, got %v", got)
	}
	if got := PercentileRank(100, pool); got != 100 {
		t.Fatalf("value above the whole pool should rank 100, got %v", got)
	}
}

func TestSafeMedian(t *testing.T) {
	if got := safeMedian(nil, 55); got != 55 {
		t.Fatalf("empty pool should fall back, got %v", got)
	}
	if got := safeMedian([]float64{3, 1, 2}, 0); got != 2 {
		t.Fatalf("odd-length median wrong, got %v", got)
	}
	if got := safeMedian([]float64{4, 1, 2, 3}, 0); got != 2.5 {
		t.Fatalf("even-length median wrong, got %v", got)
	}
}

func TestStdDev(t *testing.T) {
	if got := stdDev(nil); got != 0 {
		t.Fatalf("stdDev of empty pool should be 0, got %v", got)
	}
	if got := stdDev([]float64{7}); got != 0 {
		t.Fatalf("stdDev of a single sample should be 0, got %v", got)
	}

	got := stdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := 2.138089935299395 // sample std dev
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("stdDev = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(120, 35, 100); got != 100 {
		t.Fatalf("clamp above ceiling = %v", got)
	}
	if got := clamp(10, 35, 100); got != 35 {
		t.Fatalf("clamp below floor = %v", got)
	}
	if got := clamp(60, 35, 100); got != 60 {
		t.Fatalf("clamp inside range = %v", got)
	}
}
