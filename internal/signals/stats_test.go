package signals

import (
	"math"
	"testing"
)

func TestSampleStdevInsufficientData(t *testing.T) {
	if got := SampleStdev(nil); got != 0.0 {
		t.Fatalf("expected 0.0 for empty input, got %v", got)
	}
	if got := SampleStdev([]float64{1.5}); got != 0.0 {
		t.Fatalf("expected 0.0 for single value, got %v", got)
	}
}

func TestSampleStdevKnownValue(t *testing.T) {
	// variance of {2,4,4,4,5,5,7,9} with N-1 is 32/7
	got := SampleStdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("stdev = %v, want %v", got, want)
	}
}

func TestSampleStdevConstantSeries(t *testing.T) {
	if got := SampleStdev([]float64{3, 3, 3, 3}); got != 0.0 {
		t.Fatalf("expected 0.0 for constant series, got %v", got)
	}
}

func TestReturnsFromCloses(t *testing.T) {
	rets := ReturnsFromCloses([]float64{100, 110, 99})
	if len(rets) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(rets))
	}
	if math.Abs(rets[0]-0.10) > 1e-12 {
		t.Fatalf("rets[0] = %v, want 0.10", rets[0])
	}
	if math.Abs(rets[1]-(-0.10)) > 1e-12 {
		t.Fatalf("rets[1] = %v, want -0.10", rets[1])
	}
}

func TestReturnsFromClosesShortInput(t *testing.T) {
	if rets := ReturnsFromCloses([]float64{100}); rets != nil {
		t.Fatalf("expected nil for single close, got %v", rets)
	}
}

func TestAnnualize(t *testing.T) {
	got := Annualize(0.01, 252)
	want := 0.01 * math.Sqrt(252)
	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("annualize = %v, want %v", got, want)
	}
	// configurable factor
	if got := Annualize(2, 4); got != 4 {
		t.Fatalf("annualize with factor 4 = %v, want 4", got)
	}
}
