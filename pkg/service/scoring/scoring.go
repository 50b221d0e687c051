// Package scoring implements the financial-wellness heuristic calculators.
// All scores are weighted sums over small lookup tables, normalized to [0,1].
package scoring

// clamp01 clamps a score to the documented [0,1] range
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
