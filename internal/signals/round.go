package signals

import "math"

// round6 rounds to 6 decimal places, matching the public signal contract.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// round6p is round6 lifted over a nullable percentile.
func round6p(p *float64) *float64 {
	if p == nil {
		return nil
	}
	r := round6(*p)
	return &r
}

// Round6 exposes the signal rounding for assemblers outside the package.
func Round6(v float64) float64 { return round6(v) }

// Round6Ptr exposes the nullable variant.
func Round6Ptr(p *float64) *float64 { return round6p(p) }
