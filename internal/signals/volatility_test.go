package signals

import (
	"context"
	"math"
	"testing"
	"time"
)

// stubBars is an in-memory BarReader with one bar per consecutive day.
type stubBars struct {
	start  time.Time
	closes []float64
}

func newStubBars(closes []float64) *stubBars {
	return &stubBars{
		start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		closes: closes,
	}
}

func (s *stubBars) dateAt(i int) time.Time { return s.start.AddDate(0, 0, i) }

func tail(xs []float64, n int) []float64 {
	if len(xs) > n {
		return xs[len(xs)-n:]
	}
	return xs
}

func (s *stubBars) RecentCloses(_ context.Context, _ string, n int) ([]float64, error) {
	return tail(s.closes, n), nil
}

func (s *stubBars) RecentClosesAsOf(_ context.Context, _ string, asof time.Time, n int) ([]float64, error) {
	upto := make([]float64, 0, len(s.closes))
	for i, c := range s.closes {
		if !s.dateAt(i).After(asof) {
			upto = append(upto, c)
		}
	}
	return tail(upto, n), nil
}

func (s *stubBars) RecentDates(_ context.Context, _ string, days int) ([]time.Time, error) {
	dates := make([]time.Time, len(s.closes))
	for i := range s.closes {
		dates[i] = s.dateAt(i)
	}
	if len(dates) > days {
		dates = dates[len(dates)-days:]
	}
	return dates, nil
}

var exampleCloses = []float64{
	100, 102, 101, 105, 103, 108, 106, 110, 107, 112, 109,
	115, 111, 117, 114, 120, 116, 122, 119, 125, 121,
}

// naiveStdev is an independent reference implementation for cross-checks.
func naiveStdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	variance := 0.0
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return math.Sqrt(variance / float64(len(xs)-1))
}

func TestRealizedVolatilityExample(t *testing.T) {
	calc := NewCalculator(newStubBars(exampleCloses), 0)

	daily, err := calc.RealizedVolatility(context.Background(), "AAPL.US", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rets := make([]float64, 0, 20)
	for i := 1; i < len(exampleCloses); i++ {
		rets = append(rets, (exampleCloses[i]-exampleCloses[i-1])/exampleCloses[i-1])
	}
	if len(rets) != 20 {
		t.Fatalf("expected 20 returns, got %d", len(rets))
	}
	want := naiveStdev(rets)
	if math.Abs(daily-want) > 1e-12 {
		t.Fatalf("daily vol = %v, want %v", daily, want)
	}
	if ann := calc.Annualize(daily); math.Abs(ann-want*math.Sqrt(252)) > 1e-12 {
		t.Fatalf("annualized vol = %v", ann)
	}
}

func TestRealizedVolatilityInsufficientHistory(t *testing.T) {
	calc := NewCalculator(newStubBars(exampleCloses[:10]), 0)
	got, err := calc.RealizedVolatility(context.Background(), "AAPL.US", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.0 {
		t.Fatalf("expected 0.0 sentinel, got %v", got)
	}
}

func TestRealizedVolatilityUnknownSymbolBehavesLikeThinHistory(t *testing.T) {
	calc := NewCalculator(newStubBars(nil), 0)
	got, err := calc.RealizedVolatility(context.Background(), "NOPE", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.0 {
		t.Fatalf("expected 0.0 sentinel, got %v", got)
	}
}

func TestPercentile1YRequiresFullYear(t *testing.T) {
	// 252+20+1 closes are required; one short must yield nil
	closes := make([]float64, 272)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	calc := NewCalculator(newStubBars(closes), 0)
	pct, err := calc.Percentile1Y(context.Background(), "MSFT.US", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pct != nil {
		t.Fatalf("expected nil percentile, got %v", *pct)
	}
}

func TestPercentile1YFlatHistoryRanksZero(t *testing.T) {
	// every rolling vol is 0; strict-less-than rank of 0 among zeros is 0
	closes := make([]float64, 273)
	for i := range closes {
		closes[i] = 100
	}
	calc := NewCalculator(newStubBars(closes), 0)
	pct, err := calc.Percentile1Y(context.Background(), "MSFT.US", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pct == nil {
		t.Fatalf("expected percentile with 273 closes")
	}
	if *pct != 0.0 {
		t.Fatalf("expected rank 0.0, got %v", *pct)
	}
}

func TestPercentile1YBounds(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3) + float64(i)/50
	}
	calc := NewCalculator(newStubBars(closes), 0)
	pct, err := calc.Percentile1Y(context.Background(), "SPY.US", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pct == nil {
		t.Fatalf("expected percentile with 300 closes")
	}
	if *pct < 0 || *pct > 1 {
		t.Fatalf("percentile out of [0,1]: %v", *pct)
	}
}

func TestAsOfMatchesPointAtLatestDate(t *testing.T) {
	// restricting to the newest stored date must reproduce the point figures
	closes := make([]float64, 280)
	for i := range closes {
		closes[i] = 100 + 3*math.Sin(float64(i)/5)
	}
	store := newStubBars(closes)
	calc := NewCalculator(store, 0)
	ctx := context.Background()
	last := store.dateAt(len(closes) - 1)

	point, err := calc.RealizedVolatility(ctx, "SPY.US", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asof, err := calc.RealizedVolatilityAsOf(ctx, "SPY.US", last, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(point-asof) > 1e-15 {
		t.Fatalf("point %v != asof %v at latest date", point, asof)
	}

	pPoint, err := calc.Percentile1Y(ctx, "SPY.US", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pAsof, err := calc.Percentile1YAsOf(ctx, "SPY.US", last, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pPoint == nil || pAsof == nil {
		t.Fatalf("expected percentiles, got %v %v", pPoint, pAsof)
	}
	if *pPoint != *pAsof {
		t.Fatalf("point percentile %v != asof %v", *pPoint, *pAsof)
	}
}
