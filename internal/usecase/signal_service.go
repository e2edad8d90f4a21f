package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
	"github.com/gannontraynor/marketPulse/internal/service/cache"
	"github.com/gannontraynor/marketPulse/internal/signals"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
)

// SignalService answers the signal queries: point-in-time volatility,
// the today scan across configured symbols, and regime transitions.
// Every answer is recomputed from stored bars unless the optional
// response cache is enabled.
type SignalService struct {
	calc    *signals.Calculator
	metrics domrepo.Metrics
	l       *applogger.Logger

	symbols []string
	timeout time.Duration

	cache    cache.ResponseCache
	cacheTTL time.Duration
}

// SignalServiceOption configures SignalService.
type SignalServiceOption func(*SignalService)

// WithResponseCache enables response caching with the given TTL.
func WithResponseCache(c cache.ResponseCache, ttl time.Duration) SignalServiceOption {
	return func(s *SignalService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithTimeout caps multi-symbol scans.
func WithTimeout(d time.Duration) SignalServiceOption {
	return func(s *SignalService) {
		s.timeout = d
	}
}

// NewSignalService builds the query-side service over a calculator.
// symbols is the configured universe used by the today and transitions scans.
func NewSignalService(calc *signals.Calculator, metrics domrepo.Metrics, l *applogger.Logger, symbols []string, opts ...SignalServiceOption) *SignalService {
	normalized := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			normalized = append(normalized, s)
		}
	}
	svc := &SignalService{
		calc:    calc,
		metrics: metrics,
		l:       l,
		symbols: normalized,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Symbols returns the configured symbol universe.
func (s *SignalService) Symbols() []string { return s.symbols }

// ComputeSignal builds the point-in-time volatility signal for one symbol.
// Unknown symbols behave exactly like thin history: zero vol, nil
// percentile, flags derived from those sentinels.
func (s *SignalService) ComputeSignal(ctx context.Context, symbol string, lookback int) (*models.VolatilitySignal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	cacheKey := fmt.Sprintf("signal:%s:%d", symbol, lookback)
	if s.cache != nil {
		if b, ok, err := s.cache.GetBytes(ctx, cacheKey); err == nil && ok {
			var sig models.VolatilitySignal
			if err := json.Unmarshal(b, &sig); err == nil {
				return &sig, nil
			}
		}
	}

	start := time.Now()
	daily, err := s.calc.RealizedVolatility(ctx, symbol, lookback)
	if err != nil {
		s.metrics.RecordError("compute_signal")
		return nil, err
	}
	pct, err := s.calc.Percentile1Y(ctx, symbol, lookback)
	if err != nil {
		s.metrics.RecordError("compute_signal")
		return nil, err
	}

	volAnn := s.calc.Annualize(daily)
	sig := &models.VolatilitySignal{
		Symbol:               symbol,
		Lookback:             lookback,
		RealizedVolatility:   signals.Round6(volAnn),
		VolatilityPercentile: signals.Round6Ptr(pct),
		Flags:                signals.VolatilityFlags(daily, pct),
	}

	s.metrics.RecordSignalComputed(symbol)
	s.metrics.RecordLastVol(symbol, volAnn)
	s.metrics.RecordLatency("compute_signal", time.Since(start).Seconds())

	if s.cache != nil {
		if b, err := json.Marshal(sig); err == nil {
			if err := s.cache.SetBytes(ctx, cacheKey, b, s.cacheTTL); err != nil && s.l != nil {
				s.l.Warn("signal cache write failed", applogger.Error(err))
			}
		}
	}
	return sig, nil
}

// TodaySignals computes the signal for every configured symbol, fanning out
// one goroutine per symbol. Per-symbol failures are logged and skipped so a
// single bad symbol cannot empty the scan; results come back sorted.
func (s *SignalService) TodaySignals(ctx context.Context, lookback int) ([]models.VolatilitySignal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type item struct {
		sig *models.VolatilitySignal
		err error
		sym string
	}
	ch := make(chan item, len(s.symbols))
	var wg sync.WaitGroup

	for _, sym := range s.symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			sig, err := s.ComputeSignal(ctx, sym, lookback)
			ch <- item{sig: sig, err: err, sym: sym}
		}(sym)
	}
	go func() { wg.Wait(); close(ch) }()

	out := make([]models.VolatilitySignal, 0, len(s.symbols))
	for it := range ch {
		if it.err != nil {
			if s.l != nil {
				s.l.Warn("today scan symbol failed",
					applogger.String("symbol", it.sym),
					applogger.Error(it.err),
				)
			}
			continue
		}
		out = append(out, *it.sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// RegimeSeries returns the trailing regime series for one symbol.
func (s *SignalService) RegimeSeries(ctx context.Context, symbol string, lookback, days int) ([]models.RegimeSeriesEntry, error) {
	start := time.Now()
	series, err := s.calc.RegimesOverTime(ctx, symbol, lookback, days)
	if err != nil {
		s.metrics.RecordError("regime_series")
		return nil, err
	}
	s.metrics.RecordLatency("regime_series", time.Since(start).Seconds())
	return series, nil
}

// SymbolTransitions returns regime-change events for one symbol over the
// trailing window.
func (s *SignalService) SymbolTransitions(ctx context.Context, symbol string, lookback, days int) ([]models.TransitionEvent, error) {
	_, events, err := s.SymbolTransitionsWithSeries(ctx, symbol, lookback, days)
	return events, err
}

// SymbolTransitionsWithSeries returns both the trailing regime series and
// the transition events derived from it.
func (s *SignalService) SymbolTransitionsWithSeries(ctx context.Context, symbol string, lookback, days int) ([]models.RegimeSeriesEntry, []models.TransitionEvent, error) {
	series, err := s.RegimeSeries(ctx, symbol, lookback, days)
	if err != nil {
		return nil, nil, err
	}
	return series, signals.TransitionsFromSeries(series), nil
}

// Transitions scans every configured symbol for regime-change events.
// The map holds an entry for each symbol that scanned cleanly, empty
// slice included, so callers can tell "no transitions" from "failed".
func (s *SignalService) Transitions(ctx context.Context, lookback, days int) (map[string][]models.TransitionEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type item struct {
		sym    string
		events []models.TransitionEvent
		err    error
	}
	ch := make(chan item, len(s.symbols))
	var wg sync.WaitGroup

	for _, sym := range s.symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			events, err := s.SymbolTransitions(ctx, sym, lookback, days)
			ch <- item{sym: sym, events: events, err: err}
		}(sym)
	}
	go func() { wg.Wait(); close(ch) }()

	out := make(map[string][]models.TransitionEvent, len(s.symbols))
	for it := range ch {
		if it.err != nil {
			if s.l != nil {
				s.l.Warn("transition scan symbol failed",
					applogger.String("symbol", it.sym),
					applogger.Error(it.err),
				)
			}
			continue
		}
		out[it.sym] = it.events
	}
	return out, nil
}
