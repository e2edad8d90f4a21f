package signals

import (
	"reflect"
	"testing"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
)

func pf(v float64) *float64 { return &v }

func TestRegimeFromVolRelative(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0.95, models.RegimeVolSpike},
		{0.90, models.RegimeVolSpike},
		{0.85, models.RegimeVolElevated},
		{0.80, models.RegimeVolElevated},
		{0.50, models.RegimeNormal},
		{0.11, models.RegimeNormal},
		{0.10, models.RegimeVolCrush},
		{0.02, models.RegimeVolCrush},
	}
	for _, tc := range cases {
		if got := RegimeFromVol(0.3, pf(tc.pct)); got != tc.want {
			t.Fatalf("pct %v: got %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestRegimeFromVolAbsoluteFallback(t *testing.T) {
	if got := RegimeFromVol(0.05, nil); got != models.RegimeAbsLowVol {
		t.Fatalf("vol 0.05 without percentile: got %s", got)
	}
	if got := RegimeFromVol(0.6, nil); got != models.RegimeAbsHighVol {
		t.Fatalf("vol 0.6 without percentile: got %s", got)
	}
	if got := RegimeFromVol(0.3, nil); got != models.RegimeNormal {
		t.Fatalf("vol 0.3 without percentile: got %s", got)
	}
}

func TestRegimeFromVolIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := RegimeFromVol(0.42, pf(0.91)); got != models.RegimeVolSpike {
			t.Fatalf("label changed across calls: %s", got)
		}
	}
}

func TestVolatilityFlagsBothFamilies(t *testing.T) {
	got := VolatilityFlags(0.05, pf(0.95))
	want := []string{models.RegimeVolSpike, models.RegimeAbsLowVol}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("flags = %v, want %v", got, want)
	}
}

func TestVolatilityFlagsEmpty(t *testing.T) {
	if got := VolatilityFlags(0.3, pf(0.5)); len(got) != 0 {
		t.Fatalf("expected no flags, got %v", got)
	}
}

func TestVolatilityFlagsRelativeSuppressedWithoutPercentile(t *testing.T) {
	got := VolatilityFlags(0.05, nil)
	want := []string{models.RegimeAbsLowVol}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("flags = %v, want %v", got, want)
	}
}

func TestVolatilityFlagsAtMostOnePerFamily(t *testing.T) {
	got := VolatilityFlags(0.7, pf(0.92))
	want := []string{models.RegimeVolSpike, models.RegimeAbsHighVol}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("flags = %v, want %v", got, want)
	}
	if len(got) > 2 {
		t.Fatalf("more than two flags: %v", got)
	}
}
