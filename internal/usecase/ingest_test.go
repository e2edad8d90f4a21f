package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	"github.com/gannontraynor/marketPulse/internal/signals"
)

// stubFetcher serves a canned history per symbol.
type stubFetcher struct {
	history map[string][]models.DailyBar
	calls   int
}

func (f *stubFetcher) DailyHistory(_ context.Context, symbol string) ([]models.DailyBar, error) {
	f.calls++
	return f.history[symbol], nil
}

// memPublisher records published events.
type memPublisher struct {
	mu     sync.Mutex
	events []models.TransitionEvent
}

func (p *memPublisher) PublishTransitions(_ context.Context, events []models.TransitionEvent) error {
	p.mu.Lock()
	p.events = append(p.events, events...)
	p.mu.Unlock()
	return nil
}

func (p *memPublisher) Close() error { return nil }

func barsFor(symbol string, start time.Time, closes []float64) []models.DailyBar {
	out := make([]models.DailyBar, len(closes))
	for i, c := range closes {
		out[i] = models.DailyBar{
			Symbol: symbol,
			Date:   start.AddDate(0, 0, i),
			Open:   c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return out
}

func newTestIngestor(store *memStore, fetcher BarFetcher, opts ...IngestorOption) (*Ingestor, *nopMetrics) {
	m := &nopMetrics{}
	calc := signals.NewCalculator(store, 0)
	opts = append([]IngestorOption{WithUpstreamRPS(0)}, opts...)
	return NewIngestor(fetcher, store, calc, m, nil, opts...), m
}

func TestIngestSymbolFreshStore(t *testing.T) {
	store := newMemStore()
	fetcher := &stubFetcher{history: map[string][]models.DailyBar{
		"AAPL.US": barsFor("AAPL.US", testStart, []float64{100, 101, 102}),
	}}
	ing, m := newTestIngestor(store, fetcher)

	res, err := ing.IngestSymbol(context.Background(), "aapl.us")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fetched != 3 || res.Inserted != 3 {
		t.Fatalf("result = %+v", res)
	}
	if count, _ := store.CountBars(context.Background(), "AAPL.US"); count != 3 {
		t.Fatalf("store holds %d bars", count)
	}
	if m.ingested != 3 {
		t.Fatalf("ingested metric = %d", m.ingested)
	}
}

func TestIngestSymbolAppendOnly(t *testing.T) {
	store := newMemStore()
	store.seed("AAPL.US", testStart, []float64{100, 101})

	// upstream overlaps the stored range and adds two new days
	fetcher := &stubFetcher{history: map[string][]models.DailyBar{
		"AAPL.US": barsFor("AAPL.US", testStart, []float64{100, 101, 102, 103}),
	}}
	ing, _ := newTestIngestor(store, fetcher)

	res, err := ing.IngestSymbol(context.Background(), "AAPL.US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", res.Inserted)
	}
	if count, _ := store.CountBars(context.Background(), "AAPL.US"); count != 4 {
		t.Fatalf("store holds %d bars", count)
	}
}

func TestIngestSymbolNoNewBars(t *testing.T) {
	store := newMemStore()
	store.seed("AAPL.US", testStart, []float64{100, 101, 102})
	fetcher := &stubFetcher{history: map[string][]models.DailyBar{
		"AAPL.US": barsFor("AAPL.US", testStart, []float64{100, 101, 102}),
	}}
	pub := &memPublisher{}
	ing, _ := newTestIngestor(store, fetcher, WithPublisher(pub))

	res, err := ing.IngestSymbol(context.Background(), "AAPL.US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Inserted != 0 {
		t.Fatalf("inserted = %d, want 0", res.Inserted)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no new bars must publish nothing, got %d events", len(pub.events))
	}
}

func TestIngestSymbolChunksInserts(t *testing.T) {
	store := newMemStore()
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	fetcher := &stubFetcher{history: map[string][]models.DailyBar{
		"SPY.US": barsFor("SPY.US", testStart, closes),
	}}
	ing, _ := newTestIngestor(store, fetcher, WithBatchSize(10))

	res, err := ing.IngestSymbol(context.Background(), "SPY.US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Inserted != 25 {
		t.Fatalf("inserted = %d", res.Inserted)
	}
}

func TestRunSkipsFailedSymbolAndContinues(t *testing.T) {
	store := newMemStore()
	fetcher := &stubFetcher{history: map[string][]models.DailyBar{
		"AAPL.US": barsFor("AAPL.US", testStart, []float64{100, 101}),
		// MSFT.US is absent: DailyHistory returns nil bars, which is fine,
		// so use a blank symbol to force a failure instead
	}}
	ing, _ := newTestIngestor(store, fetcher)

	results, err := ing.Run(context.Background(), []string{"", "AAPL.US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Symbol != "AAPL.US" {
		t.Fatalf("results = %+v", results)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	store := newMemStore()
	fetcher := &stubFetcher{history: map[string][]models.DailyBar{}}
	ing, _ := newTestIngestor(store, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ing.Run(ctx, []string{"AAPL.US"}); err == nil {
		t.Fatalf("expected context error")
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher should not run after cancellation")
	}
}
