package signals

import (
	"context"
	"testing"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
)

func constSeries(regime string, n int) []models.RegimeSeriesEntry {
	out := make([]models.RegimeSeriesEntry, n)
	for i := range out {
		out[i] = models.RegimeSeriesEntry{
			Date:   "2024-01-0" + string(rune('1'+i)),
			Symbol: "AAPL.US",
			Regime: regime,
		}
	}
	return out
}

func TestTransitionsConstantSeries(t *testing.T) {
	events := TransitionsFromSeries(constSeries(models.RegimeNormal, 5))
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestTransitionsEmptyAndSingleton(t *testing.T) {
	if got := TransitionsFromSeries(nil); len(got) != 0 {
		t.Fatalf("expected no events for empty series")
	}
	if got := TransitionsFromSeries(constSeries(models.RegimeVolSpike, 1)); len(got) != 0 {
		t.Fatalf("expected no events for singleton series")
	}
}

func TestTransitionsAlternatingSeries(t *testing.T) {
	series := []models.RegimeSeriesEntry{
		{Date: "2024-01-01", Symbol: "AAPL.US", Regime: models.RegimeNormal},
		{Date: "2024-01-02", Symbol: "AAPL.US", Regime: models.RegimeVolSpike},
		{Date: "2024-01-03", Symbol: "AAPL.US", Regime: models.RegimeNormal},
		{Date: "2024-01-04", Symbol: "AAPL.US", Regime: models.RegimeVolSpike},
	}
	events := TransitionsFromSeries(series)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	want := []models.TransitionEvent{
		{Symbol: "AAPL.US", Date: "2024-01-02", From: models.RegimeNormal, To: models.RegimeVolSpike},
		{Symbol: "AAPL.US", Date: "2024-01-03", From: models.RegimeVolSpike, To: models.RegimeNormal},
		{Symbol: "AAPL.US", Date: "2024-01-04", From: models.RegimeNormal, To: models.RegimeVolSpike},
	}
	for i, ev := range events {
		if ev != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, ev, want[i])
		}
	}
}

func TestRegimesOverTimeThinHistory(t *testing.T) {
	// 5 bars, lookback 20: every day falls back to the absolute policy with
	// zero vol, so the whole series is ABS_LOW_VOL and transition-free
	store := newStubBars([]float64{100, 101, 102, 103, 104})
	calc := NewCalculator(store, 0)

	series, err := calc.RegimesOverTime(context.Background(), "aapl.us", 20, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(series))
	}
	for i, e := range series {
		if e.Symbol != "AAPL.US" {
			t.Fatalf("symbol not normalized: %q", e.Symbol)
		}
		if e.VolAnn != 0.0 || e.VolPercentile != nil {
			t.Fatalf("entry %d: expected zero/nil sentinels, got %+v", i, e)
		}
		if e.Regime != models.RegimeAbsLowVol {
			t.Fatalf("entry %d: regime %s", i, e.Regime)
		}
		if i > 0 && series[i-1].Date >= e.Date {
			t.Fatalf("series not chronological at %d: %s >= %s", i, series[i-1].Date, e.Date)
		}
	}
	if events := TransitionsFromSeries(series); len(events) != 0 {
		t.Fatalf("constant regime series produced %d events", len(events))
	}
}

func TestRegimesOverTimeLabelsAreValid(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%9)
	}
	// small annualization basis so percentiles kick in with short history
	calc := NewCalculator(newStubBars(closes), 10)

	series, err := calc.RegimesOverTime(context.Background(), "MSFT.US", 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(series))
	}
	valid := map[string]bool{
		models.RegimeVolSpike:    true,
		models.RegimeVolElevated: true,
		models.RegimeVolCrush:    true,
		models.RegimeNormal:      true,
		models.RegimeAbsHighVol:  true,
		models.RegimeAbsLowVol:   true,
	}
	for _, e := range series {
		if !valid[e.Regime] {
			t.Fatalf("unknown regime label %q", e.Regime)
		}
		if e.VolPercentile == nil {
			t.Fatalf("expected percentile with basis 10, entry %+v", e)
		}
	}
}

func TestRegimesOverTimeCancellation(t *testing.T) {
	store := newStubBars([]float64{100, 101, 102, 103, 104})
	calc := NewCalculator(store, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := calc.RegimesOverTime(ctx, "AAPL.US", 20, 5); err == nil {
		t.Fatalf("expected context error")
	}
}
