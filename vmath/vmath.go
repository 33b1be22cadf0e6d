package vmath

import "math"

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mix linearly interpolates between a and b, t is not clamped
func Mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep returns the Hermite ramp of x between edges a and b, clamped to [0, 1]
func Smoothstep(a, b, x float64) float64 {
	t := Clamp((x-a)/(b-a), 0, 1)
	return t * t * (3 - 2*t)
}

// Pow is math.Pow with negative bases floored at zero
// Fractional exponents of a negative base would otherwise produce NaN
func Pow(base, exp float64) float64 {
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exp)
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
