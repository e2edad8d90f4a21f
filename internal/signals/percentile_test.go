package signals

import "testing"

func TestPercentileRankEmptyDistribution(t *testing.T) {
	if got := PercentileRank(1.0, nil); got != 0.0 {
		t.Fatalf("expected 0.0 for empty distribution, got %v", got)
	}
}

func TestPercentileRankBounds(t *testing.T) {
	dist := []float64{0.1, 0.5, 0.9, 0.3, 0.7}
	for _, v := range []float64{-10, 0.1, 0.5, 0.95, 100} {
		r := PercentileRank(v, dist)
		if r < 0 || r > 1 {
			t.Fatalf("rank of %v out of [0,1]: %v", v, r)
		}
	}
}

func TestPercentileRankOfMaximum(t *testing.T) {
	// the maximum of a distinct distribution ranks (M-1)/M
	dist := []float64{1, 2, 3, 4, 5}
	got := PercentileRank(5, dist)
	want := 4.0 / 5.0
	if got != want {
		t.Fatalf("rank of max = %v, want %v", got, want)
	}
}

func TestPercentileRankStrictLessThan(t *testing.T) {
	// ties with the value are excluded from the count but kept in M
	dist := []float64{2, 2, 2, 1}
	got := PercentileRank(2, dist)
	want := 1.0 / 4.0
	if got != want {
		t.Fatalf("rank with ties = %v, want %v", got, want)
	}
}

func TestPercentileRankBelowAll(t *testing.T) {
	if got := PercentileRank(0, []float64{1, 2, 3}); got != 0.0 {
		t.Fatalf("rank below all = %v, want 0.0", got)
	}
}
