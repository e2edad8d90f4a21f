package signals

import (
	"context"
	"fmt"
	"time"

	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
)

// Calculator derives realized-volatility figures for a symbol from the
// injected read-only bar store. It owns no mutable state; every call
// recomputes from the store, so instances are safe for concurrent use.
type Calculator struct {
	store       domrepo.BarReader
	tradingDays int
}

// NewCalculator builds a Calculator. tradingDays is the annualization
// factor; pass 0 for the default 252.
func NewCalculator(store domrepo.BarReader, tradingDays int) *Calculator {
	if tradingDays <= 0 {
		tradingDays = TradingDays1Y
	}
	return &Calculator{store: store, tradingDays: tradingDays}
}

// TradingDays exposes the annualization basis in use.
func (c *Calculator) TradingDays() int { return c.tradingDays }

// Annualize scales a daily volatility onto the calculator's yearly basis.
func (c *Calculator) Annualize(dailyVol float64) float64 {
	return Annualize(dailyVol, c.tradingDays)
}

// RealizedVolatility returns the daily (non-annualized) realized volatility
// over the most recent lookback returns. Fewer than lookback+1 stored closes
// yields 0.0 per the insufficient-history policy.
func (c *Calculator) RealizedVolatility(ctx context.Context, symbol string, lookback int) (float64, error) {
	closes, err := c.store.RecentCloses(ctx, symbol, lookback+1)
	if err != nil {
		return 0, fmt.Errorf("recent closes: %w", err)
	}
	return dailyVol(closes, lookback), nil
}

// RealizedVolatilityAsOf is RealizedVolatility computed up to and including
// asof. Same sentinel for thin history.
func (c *Calculator) RealizedVolatilityAsOf(ctx context.Context, symbol string, asof time.Time, lookback int) (float64, error) {
	closes, err := c.store.RecentClosesAsOf(ctx, symbol, asof, lookback+1)
	if err != nil {
		return 0, fmt.Errorf("recent closes asof: %w", err)
	}
	return dailyVol(closes, lookback), nil
}

// Percentile1Y ranks the current volatility within the trailing one-year
// rolling-volatility distribution. Returns nil when fewer than
// tradingDays+lookback+1 closes exist.
func (c *Calculator) Percentile1Y(ctx context.Context, symbol string, lookback int) (*float64, error) {
	closes, err := c.store.RecentCloses(ctx, symbol, c.tradingDays+lookback+1)
	if err != nil {
		return nil, fmt.Errorf("recent closes: %w", err)
	}
	return c.percentileFromCloses(closes, lookback), nil
}

// Percentile1YAsOf is Percentile1Y restricted to bars dated <= asof.
func (c *Calculator) Percentile1YAsOf(ctx context.Context, symbol string, asof time.Time, lookback int) (*float64, error) {
	closes, err := c.store.RecentClosesAsOf(ctx, symbol, asof, c.tradingDays+lookback+1)
	if err != nil {
		return nil, fmt.Errorf("recent closes asof: %w", err)
	}
	return c.percentileFromCloses(closes, lookback), nil
}

// dailyVol computes the sample stdev of simple returns over the trailing
// window. The window must be complete: exactly lookback returns.
func dailyVol(closes []float64, lookback int) float64 {
	if len(closes) < lookback+1 {
		return 0.0
	}
	return SampleStdev(ReturnsFromCloses(closes))
}

// percentileFromCloses slides a lookback+1-wide window one day at a time
// across the trailing closes, annualizes the volatility at each position,
// and ranks the most recent value within the whole rolling set. The
// distribution deliberately includes the current point; the series path
// diffs adjacent days and both paths must agree or labels jitter.
func (c *Calculator) percentileFromCloses(closes []float64, lookback int) *float64 {
	if len(closes) < c.tradingDays+lookback+1 {
		return nil
	}

	window := lookback + 1
	vols := make([]float64, 0, len(closes)-window+1)
	for i := 0; i+window <= len(closes); i++ {
		rets := ReturnsFromCloses(closes[i : i+window])
		vols = append(vols, Annualize(SampleStdev(rets), c.tradingDays))
	}

	rank := PercentileRank(vols[len(vols)-1], vols)
	return &rank
}
