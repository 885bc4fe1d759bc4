package sampler

import "github.com/cwbudde/algo-approx"

func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

// centsToRatio converts a cents offset to a frequency multiplier.
func centsToRatio(cents float32) float32 {
	return pow2Approx(cents / 1200.0)
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float32) float32 {
	return clampf(x, 0, 1)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
