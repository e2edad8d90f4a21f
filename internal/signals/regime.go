package signals

import "github.com/gannontraynor/marketPulse/internal/domain/models"

// Relative (percentile) and absolute (annualized vol) regime thresholds.
const (
	spikeThreshold    = 0.90
	elevatedThreshold = 0.80
	crushThreshold    = 0.10
	absHighThreshold  = 0.50
	absLowThreshold   = 0.10
)

// RegimeFromVol maps a volatility reading to a single stable regime label.
// The relative (percentile) policy wins when a percentile is available;
// otherwise the absolute policy on annualized volatility is the fallback.
func RegimeFromVol(volAnn float64, percentile *float64) string {
	if percentile != nil {
		switch {
		case *percentile >= spikeThreshold:
			return models.RegimeVolSpike
		case *percentile >= elevatedThreshold:
			return models.RegimeVolElevated
		case *percentile <= crushThreshold:
			return models.RegimeVolCrush
		default:
			return models.RegimeNormal
		}
	}

	switch {
	case volAnn >= absHighThreshold:
		return models.RegimeAbsHighVol
	case volAnn <= absLowThreshold:
		return models.RegimeAbsLowVol
	default:
		return models.RegimeNormal
	}
}

// VolatilityFlags derives interpretable flags from a daily volatility and
// its one-year percentile. The relative and absolute families fire
// independently: at most one flag each, so the result holds 0 to 2 entries.
// The absolute family reads the raw daily volatility, not the annualized
// figure. A nil percentile suppresses the relative family entirely so thin
// history cannot fake a VOL_CRUSH.
func VolatilityFlags(volDaily float64, percentile *float64) []string {
	flags := make([]string, 0, 2)

	if percentile != nil {
		switch {
		case *percentile >= spikeThreshold:
			flags = append(flags, models.RegimeVolSpike)
		case *percentile >= elevatedThreshold:
			flags = append(flags, models.RegimeVolElevated)
		case *percentile <= crushThreshold:
			flags = append(flags, models.RegimeVolCrush)
		}
	}

	switch {
	case volDaily >= absHighThreshold:
		flags = append(flags, models.RegimeAbsHighVol)
	case volDaily <= absLowThreshold:
		flags = append(flags, models.RegimeAbsLowVol)
	}

	return flags
}
