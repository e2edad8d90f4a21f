package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	"github.com/gannontraynor/marketPulse/pkg/util"
)

// RegimesOverTime computes the as-of volatility, percentile, and regime
// label for each of the most recent `days` trading dates, in chronological
// order. The loop checks ctx between per-date iterations so a cancelled
// request stops early; there is no shared state to leave inconsistent.
func (c *Calculator) RegimesOverTime(ctx context.Context, symbol string, lookback, days int) ([]models.RegimeSeriesEntry, error) {
	symbol = strings.ToUpper(symbol)

	dates, err := c.store.RecentDates(ctx, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("recent dates: %w", err)
	}

	series := make([]models.RegimeSeriesEntry, 0, len(dates))
	for _, d := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		daily, err := c.RealizedVolatilityAsOf(ctx, symbol, d, lookback)
		if err != nil {
			return nil, err
		}
		volAnn := c.Annualize(daily)

		pct, err := c.Percentile1YAsOf(ctx, symbol, d, lookback)
		if err != nil {
			return nil, err
		}

		series = append(series, models.RegimeSeriesEntry{
			Date:          util.FormatDate(d),
			Symbol:        symbol,
			VolAnn:        round6(volAnn),
			VolPercentile: round6p(pct),
			Regime:        RegimeFromVol(volAnn, pct),
		})
	}
	return series, nil
}

// TransitionsFromSeries scans an ordered regime series pairwise and emits an
// event wherever the label changes. The first entry has no baseline and is
// never an event; empty or single-entry input yields none.
func TransitionsFromSeries(series []models.RegimeSeriesEntry) []models.TransitionEvent {
	events := make([]models.TransitionEvent, 0)
	if len(series) == 0 {
		return events
	}

	prev := series[0].Regime
	for _, row := range series[1:] {
		if row.Regime != prev {
			events = append(events, models.TransitionEvent{
				Symbol: row.Symbol,
				Date:   row.Date,
				From:   prev,
				To:     row.Regime,
			})
		}
		prev = row.Regime
	}
	return events
}
