package algo

import "math"

// NeutralScore is assigned when a sub-factor has no spread across the cohort.
const NeutralScore = 50.0

// minMax holds the cohort bounds of one sub-factor.
type minMax struct {
	min, max float64
}

// newMinMax computes the bounds of values. Empty input yields a zero range.
func newMinMax(values []float64) minMax {
	if len(values) == 0 {
		return minMax{}
	}
	b := minMax{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range values {
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
	}
	return b
}

// normalize scales v into [0, 100]; a zero range maps to NeutralScore.
func (b minMax) normalize(v float64) float64 {
	span := b.max - b.min
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return NeutralScore
	}
	return clamp((v-b.min)/span*100, 0, 100)
}

// Normalize min-max scales values to [0, 100] relative to each other.
func Normalize(values []float64) []float64 {
	b := newMinMax(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = b.normalize(v)
	}
	return out
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
