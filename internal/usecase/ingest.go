package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
	"github.com/gannontraynor/marketPulse/internal/service/ratelimit"
	"github.com/gannontraynor/marketPulse/internal/signals"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
)

// BarFetcher pulls the full daily history for a symbol from an upstream
// source, oldest first.
type BarFetcher interface {
	DailyHistory(ctx context.Context, symbol string) ([]models.DailyBar, error)
}

// Ingestor pulls daily bars per symbol, appends only the dates newer than
// what the store already holds, and optionally publishes the regime
// transitions that the new bars introduced.
type Ingestor struct {
	fetcher   BarFetcher
	store     domrepo.BarStore
	calc      *signals.Calculator
	publisher domrepo.Publisher // nil disables transition publishing
	metrics   domrepo.Metrics
	l         *applogger.Logger

	limiter   *ratelimit.Limiter
	maxRPS    float64
	batchSize int
	lookback  int
}

// IngestorOption configures Ingestor.
type IngestorOption func(*Ingestor)

// WithPublisher enables transition publishing for newly ingested dates.
func WithPublisher(p domrepo.Publisher) IngestorOption {
	return func(i *Ingestor) { i.publisher = p }
}

// WithUpstreamRPS caps fetch rate against the upstream source.
func WithUpstreamRPS(rps float64) IngestorOption {
	return func(i *Ingestor) { i.maxRPS = rps }
}

// WithBatchSize sets the insert chunk size.
func WithBatchSize(n int) IngestorOption {
	return func(i *Ingestor) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// WithLookback sets the lookback used when deriving transitions to publish.
func WithLookback(n int) IngestorOption {
	return func(i *Ingestor) {
		if n > 0 {
			i.lookback = n
		}
	}
}

// NewIngestor builds the ingestion use case.
func NewIngestor(fetcher BarFetcher, store domrepo.BarStore, calc *signals.Calculator, metrics domrepo.Metrics, l *applogger.Logger, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		fetcher:   fetcher,
		store:     store,
		calc:      calc,
		metrics:   metrics,
		l:         l,
		limiter:   ratelimit.New(),
		maxRPS:    1,
		batchSize: 3000,
		lookback:  20,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestResult summarizes one symbol's run.
type IngestResult struct {
	Symbol      string
	Fetched     int
	Inserted    int
	Total       int64
	Transitions int
}

// Run ingests every symbol sequentially; a symbol failure is recorded and
// the run moves on. The returned results cover successful symbols only.
func (i *Ingestor) Run(ctx context.Context, symbols []string) ([]IngestResult, error) {
	results := make([]IngestResult, 0, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := i.IngestSymbol(ctx, sym)
		if err != nil {
			i.metrics.RecordError("ingest")
			if i.l != nil {
				i.l.Error("symbol ingest failed",
					applogger.String("symbol", sym),
					applogger.Error(err),
				)
			}
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

// IngestSymbol runs one symbol end to end: fetch, append-only filter,
// chunked insert, optional transition publish.
func (i *Ingestor) IngestSymbol(ctx context.Context, symbol string) (*IngestResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	start := time.Now()

	if i.maxRPS > 0 {
		deadline := time.Now().Add(time.Minute)
		if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
			deadline = dl
		}
		if !i.limiter.Wait("upstream", 1, i.maxRPS, deadline) {
			return nil, fmt.Errorf("rate limit wait expired for %s", symbol)
		}
	}

	bars, err := i.fetcher.DailyHistory(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	latest, err := i.store.LatestDate(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("latest date %s: %w", symbol, err)
	}

	// append-only: keep strictly newer dates
	fresh := bars
	if latest != nil {
		fresh = make([]models.DailyBar, 0, len(bars))
		for _, b := range bars {
			if b.Date.After(*latest) {
				fresh = append(fresh, b)
			}
		}
	}

	inserted := 0
	for lo := 0; lo < len(fresh); lo += i.batchSize {
		hi := lo + i.batchSize
		if hi > len(fresh) {
			hi = len(fresh)
		}
		n, err := i.store.InsertBars(ctx, fresh[lo:hi])
		inserted += n
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", symbol, err)
		}
	}
	i.metrics.RecordBarsIngested(symbol, inserted)

	res := &IngestResult{Symbol: symbol, Fetched: len(bars), Inserted: inserted}

	if i.publisher != nil && inserted > 0 {
		events, err := i.transitionsForNewDates(ctx, symbol, inserted)
		if err != nil {
			// publishing is best-effort; the bars are already stored
			i.metrics.RecordError("publish_transitions")
			if i.l != nil {
				i.l.Warn("transition publish failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
		} else {
			res.Transitions = len(events)
		}
	}

	// verify: total stored rows and the resulting date range
	total, err := i.store.CountBars(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("verify count %s: %w", symbol, err)
	}
	res.Total = total

	i.metrics.RecordLatency("ingest_symbol", time.Since(start).Seconds())
	if i.l != nil {
		fields := []applogger.Field{
			applogger.String("symbol", symbol),
			applogger.Int("fetched", res.Fetched),
			applogger.Int("inserted", res.Inserted),
			applogger.Int64("total", res.Total),
			applogger.Int("transitions", res.Transitions),
			applogger.Duration("duration_ms", time.Since(start)),
		}
		if dates, err := i.store.RecentDates(ctx, symbol, int(total)); err == nil && len(dates) > 0 {
			fields = append(fields,
				applogger.String("first_date", dates[0].Format("2006-01-02")),
				applogger.String("last_date", dates[len(dates)-1].Format("2006-01-02")),
			)
		}
		i.l.Info("symbol ingested", fields...)
	}
	return res, nil
}

// transitionsForNewDates recomputes the regime series over the newly
// inserted dates plus one baseline day, then publishes any label changes.
func (i *Ingestor) transitionsForNewDates(ctx context.Context, symbol string, newDates int) ([]models.TransitionEvent, error) {
	series, err := i.calc.RegimesOverTime(ctx, symbol, i.lookback, newDates+1)
	if err != nil {
		return nil, fmt.Errorf("regime series: %w", err)
	}
	events := signals.TransitionsFromSeries(series)
	if len(events) == 0 {
		return events, nil
	}
	if err := i.publisher.PublishTransitions(ctx, events); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	return events, nil
}
