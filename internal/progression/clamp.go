package progression

import "math"

const (
	minCalorieFactorTenths = 7
	maxCalorieFactorTenths = 13

	MaxVolumeChange = 0.1
)

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampSets(sets int) int {
	return clampInt(sets, MinSets, MaxSets)
}

// calorieBounds returns [ceil(0.7*c), floor(1.3*c)] in exact integer math so
// a clamped target is always a whole number inside the real-valued bounds.
func calorieBounds(c int) (lo, hi int) {
	lo = (c*minCalorieFactorTenths + 9) / 10
	hi = c * maxCalorieFactorTenths / 10
	return lo, hi
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
