package domain

import "math"

// ClampProgress bounds a percentage to [0, 100]. NaN counts as 0.
func ClampProgress(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// MeanProgress is the unweighted mean of the clamped values, rounded to the
// nearest whole percent and clamped again. An empty input yields 0.
func MeanProgress(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += ClampProgress(v)
	}
	return ClampProgress(math.Round(sum / float64(len(values))))
}

// ResolveProgress picks the authoritative value when present, else the raw
// one. ok is false when neither is set.
func ResolveProgress(authoritative, raw *Decimal) (float64, bool) {
	p := FirstDecimal(authoritative, raw)
	if p == nil {
		return 0, false
	}
	return ClampProgress(p.Float64()), true
}
