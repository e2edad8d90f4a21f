package signals

import "math"

// TradingDays1Y is the default annualization basis for daily bars.
const TradingDays1Y = 252

// SampleStdev returns the unbiased (N-1) sample standard deviation.
// Fewer than 2 values yields 0.0; that is the insufficient-data policy,
// not an error.
func SampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}

// ReturnsFromCloses computes simple returns (c[i]-c[i-1])/c[i-1] from an
// ordered close series, producing len(closes)-1 values. A zero close is a
// data-integrity violation upstream and is not defended against here.
func ReturnsFromCloses(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}

// Annualize scales a per-day volatility by sqrt(factor) trading days.
func Annualize(dailyVol float64, factor int) float64 {
	return dailyVol * math.Sqrt(float64(factor))
}
