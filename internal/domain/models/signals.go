package models

// Volatility regime labels. The VOL_* family is relative to the trailing
// one-year distribution; the ABS_* family is an absolute-threshold fallback
// used when that distribution is unavailable.
const (
	RegimeVolSpike    = "VOL_SPIKE"
	RegimeVolElevated = "VOL_ELEVATED"
	RegimeVolCrush    = "VOL_CRUSH"
	RegimeNormal      = "NORMAL"
	RegimeAbsHighVol  = "ABS_HIGH_VOL"
	RegimeAbsLowVol   = "ABS_LOW_VOL"
)

// VolatilitySignal is the public point-in-time signal for one symbol.
// VolatilityPercentile is nil when fewer than a year of history exists.
type VolatilitySignal struct {
	Symbol               string   `json:"symbol"`
	Lookback             int      `json:"lookback"`
	RealizedVolatility   float64  `json:"realized_volatility"`
	VolatilityPercentile *float64 `json:"volatility_percentile"`
	Flags                []string `json:"flags"`
}

// RegimeSeriesEntry is one day of the trailing regime series.
// Date is the ISO calendar day the entry was computed as-of.
type RegimeSeriesEntry struct {
	Date          string   `json:"date"`
	Symbol        string   `json:"symbol"`
	VolAnn        float64  `json:"vol_ann"`
	VolPercentile *float64 `json:"vol_percentile_1y"`
	Regime        string   `json:"regime"`
}

// TransitionEvent marks a day-over-day regime change.
type TransitionEvent struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// TransitionsResponse is the multi-symbol transition scan payload.
type TransitionsResponse struct {
	Count       int                          `json:"count"`
	Transitions map[string][]TransitionEvent `json:"transitions"`
}

// SymbolTransitionsResponse pairs one symbol's transition events with the
// regime series they were derived from.
type SymbolTransitionsResponse struct {
	Symbol      string              `json:"symbol"`
	Days        int                 `json:"days"`
	Lookback    int                 `json:"lookback"`
	Transitions []TransitionEvent   `json:"transitions"`
	Series      []RegimeSeriesEntry `json:"series"`
}
