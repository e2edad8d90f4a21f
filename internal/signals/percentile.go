package signals

// PercentileRank returns the fraction of the distribution strictly below
// value, in [0,1]. Ties with value are excluded from the count but included
// in the denominator; the regime thresholds depend on exactly this ranking.
// An empty distribution ranks 0.0, not an error.
func PercentileRank(value float64, distribution []float64) float64 {
	if len(distribution) == 0 {
		return 0.0
	}
	count := 0
	for _, x := range distribution {
		if x < value {
			count++
		}
	}
	return float64(count) / float64(len(distribution))
}
